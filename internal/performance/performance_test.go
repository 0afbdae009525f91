package performance

import (
	"testing"

	"github.com/examprep/examprep/internal/store"
)

func TestFromHistory(t *testing.T) {
	records := []store.AnswerRecord{
		{Subject: "Math", IsCorrect: true, AttemptCount: 3},
		{Subject: "Math", IsCorrect: false},
		{Subject: "Math", IsCorrect: false},
		{Subject: "Math", IsCorrect: true},
		{Subject: "Bio", IsCorrect: true},
	}

	got := FromHistory(records)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	tests := []struct {
		subject  string
		total    int
		correct  int
		accuracy float64
	}{
		{"Bio", 1, 1, 100},
		{"Math", 4, 2, 50},
	}
	for i, tt := range tests {
		p := got[i]
		if p.Subject != tt.subject || p.TotalAnswered != tt.total || p.CorrectCount != tt.correct || p.AccuracyPercent != tt.accuracy {
			t.Errorf("got[%d] = %+v, want %+v", i, p, tt)
		}
	}
}

func TestFromHistoryEmpty(t *testing.T) {
	if got := FromHistory(nil); len(got) != 0 {
		t.Errorf("FromHistory(nil) = %v, want empty", got)
	}
}

func TestOverall(t *testing.T) {
	p := Overall([]store.AnswerRecord{
		{Subject: "Math", IsCorrect: true},
		{Subject: "Bio", IsCorrect: false},
		{Subject: "Bio", IsCorrect: false},
		{Subject: "Art", IsCorrect: true},
	})
	if p.TotalAnswered != 4 || p.CorrectCount != 2 || p.AccuracyPercent != 50 {
		t.Errorf("Overall = %+v", p)
	}
	if Overall(nil).AccuracyPercent != 0 {
		t.Error("accuracy of no answers should be 0")
	}
}
