package practice

import (
	"time"

	"github.com/examprep/examprep/internal/ingest"
	"github.com/examprep/examprep/internal/store"
)

// subjectsLoadedMsg carries the subject list for the picker.
type subjectsLoadedMsg struct {
	Subjects []string
	Err      error
}

// queueLoadedMsg carries the ordered practice queue.
type queueLoadedMsg struct {
	Queue []ingest.Question
	Err   error
}

// answerSavedMsg confirms an answer was persisted.
type answerSavedMsg struct {
	Record *store.AnswerRecord
	Err    error
}

// explainPollMsg fires while waiting for an explanation.
type explainPollMsg time.Time
