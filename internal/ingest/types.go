package ingest

// Alternative is one labeled answer option of a Question.
type Alternative struct {
	Letter    string `json:"letter"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is a normalized multiple-choice question. Alternatives are sorted
// by letter and letters are unique within a question.
type Question struct {
	ID           int           `json:"id"`
	Subject      string        `json:"subject"`
	Statement    string        `json:"statement"`
	Alternatives []Alternative `json:"alternatives"`
}

// CorrectLetter returns the letter of the first alternative marked correct,
// or "" if none is.
func (q Question) CorrectLetter() string {
	for _, a := range q.Alternatives {
		if a.IsCorrect {
			return a.Letter
		}
	}
	return ""
}

// Alternative returns the alternative with the given letter.
func (q Question) Alternative(letter string) (Alternative, bool) {
	letter = normalizeLetter(letter)
	for _, a := range q.Alternatives {
		if a.Letter == letter {
			return a, true
		}
	}
	return Alternative{}, false
}

// Row is the shape every source adapter normalizes into before grouping.
type Row struct {
	Line      int
	GroupID   string
	Subject   string
	Statement string
	Letter    string
	Text      string
	Correct   bool
}
