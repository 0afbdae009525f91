package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examprep/examprep/internal/ingest"
	"github.com/examprep/examprep/internal/router"
	"github.com/examprep/examprep/internal/store"
)

type fakeAnswers struct {
	records []store.AnswerRecord
	cleared int
}

func (f *fakeAnswers) List(context.Context, string, int) ([]store.AnswerRecord, error) {
	return f.records, nil
}

func (f *fakeAnswers) Clear(context.Context, string) (int, error) {
	n := len(f.records)
	f.records = nil
	f.cleared++
	return n, nil
}

func sampleRecords() []store.AnswerRecord {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return []store.AnswerRecord{
		{QuestionID: 7, Subject: "Biology", Statement: "Powerhouse of the cell?",
			Alternatives: []ingest.Alternative{{Letter: "A", Text: "Nucleus"}, {Letter: "B", Text: "Mitochondrion", IsCorrect: true}},
			ChosenLetter: "A", CorrectLetter: "B", AnsweredAt: at, ResponseTimeSeconds: 12, AttemptCount: 3},
		{QuestionID: 2, Subject: "Math", Statement: "2 + 2?", ChosenLetter: "A", CorrectLetter: "A",
			IsCorrect: true, AnsweredAt: at.Add(-time.Hour), ResponseTimeSeconds: 4, AttemptCount: 1},
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func loaded(t *testing.T, f *fakeAnswers) *HistoryScreen {
	t.Helper()
	s := New("u1", f)
	s.Update(s.Init()())
	require.True(t, s.loaded)
	return s
}

func TestHistoryListsAnswers(t *testing.T) {
	s := loaded(t, &fakeAnswers{records: sampleRecords()})
	view := s.View(100, 30)
	assert.Contains(t, view, "2 answers, newest first")
	assert.Contains(t, view, "Biology")
	assert.Contains(t, view, "×3")
	assert.NotContains(t, view, "Powerhouse of the cell?")
}

func TestHistoryExpandsDetails(t *testing.T) {
	s := loaded(t, &fakeAnswers{records: sampleRecords()})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(100, 30)
	assert.Contains(t, view, "Powerhouse of the cell?")
	assert.Contains(t, view, "B) Mitochondrion")
}

func TestHistoryNavigationBounds(t *testing.T) {
	s := loaded(t, &fakeAnswers{records: sampleRecords()})
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.cursor)
	for range 5 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	assert.Equal(t, 1, s.cursor)
}

func TestHistoryClearNeedsConfirmation(t *testing.T) {
	f := &fakeAnswers{records: sampleRecords()}
	s := loaded(t, f)

	s.Update(keyPress('c'))
	require.True(t, s.confirm)
	_, cmd := s.Update(keyPress('n'))
	assert.Nil(t, cmd)
	assert.False(t, s.confirm)
	assert.Equal(t, 0, f.cleared)

	s.Update(keyPress('c'))
	_, cmd = s.Update(keyPress('y'))
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.Equal(t, 1, f.cleared)
	assert.Empty(t, s.records)
	assert.True(t, strings.Contains(s.View(100, 30), "Removed 2 answers."))
}

func TestHistoryEmpty(t *testing.T) {
	s := loaded(t, &fakeAnswers{})
	s.Update(keyPress('c'))
	assert.False(t, s.confirm)
	assert.Contains(t, s.View(100, 30), "No answers yet")
}

func TestHistoryEscPops(t *testing.T) {
	s := loaded(t, &fakeAnswers{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestHistoryScrollsToCursor(t *testing.T) {
	var recs []store.AnswerRecord
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	for i := range 40 {
		recs = append(recs, store.AnswerRecord{QuestionID: 1000 + i, Subject: "Math", AnsweredAt: at, AttemptCount: 1})
	}
	s := loaded(t, &fakeAnswers{records: recs})

	assert.Contains(t, s.View(100, 14), "#1000")
	for range 30 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	view := s.View(100, 14)
	assert.Contains(t, view, "#1030")
	assert.NotContains(t, view, "#1000")
}

func TestHistoryKeyHintsFollowPrompt(t *testing.T) {
	s := loaded(t, &fakeAnswers{records: sampleRecords()})
	assert.Equal(t, "Enter", s.KeyHints()[0].Key)
	s.Update(keyPress('c'))
	assert.Equal(t, "Y", s.KeyHints()[0].Key)
}
