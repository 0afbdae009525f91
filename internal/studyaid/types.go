// Package studyaid produces AI-assisted explanations and study tips, with
// static fallbacks built from local data when no provider answers.
package studyaid

import (
	"github.com/examprep/examprep/internal/schedule"
)

// Explanation tells the learner why the correct alternative is right.
type Explanation struct {
	QuestionID     int
	Subject        string
	CorrectLetter  string
	ChosenLetter   string
	Explanation    string
	WhyChosenWrong string
	KeyConcept     string

	// Fallback is set when the text was built locally instead of by the
	// provider.
	Fallback bool
}

// Tip is study advice for one subject.
type Tip struct {
	Subject         string
	Tier            schedule.Tier
	AccuracyPercent float64
	Advice          string
	Actions         []string
}

// Tips is the advice for the weakest subjects, weakest first.
type Tips struct {
	Tips     []Tip
	Fallback bool
}
