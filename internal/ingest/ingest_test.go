package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvRow(group, area, stem, letter, text, correct string) CSVRow {
	return CSVRow{
		ObjectQuestionID: group,
		Area:             area,
		QuestionStem:     stem,
		Letter:           letter,
		Description:      text,
		Correct:          correct,
	}
}

func sheetRow(fields map[string]any) SpreadsheetRow {
	return SpreadsheetRow{Fields: fields}
}

func TestIngestExampleScenario(t *testing.T) {
	got := Ingest([]Record{
		csvRow("Q1", "Math", "2+2=?", "A", "3", "0"),
		csvRow("Q1", "Math", "2+2=?", "B", "4", "1"),
	}, nil)

	want := []Question{{
		ID:        1,
		Subject:   "Math",
		Statement: "2+2=?",
		Alternatives: []Alternative{
			{Letter: "A", Text: "3", IsCorrect: false},
			{Letter: "B", Text: "4", IsCorrect: true},
		},
	}}
	assert.Equal(t, want, got)
}

func TestIngestEmpty(t *testing.T) {
	got := Ingest(nil, nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestIngestDuplicateLettersFirstWins(t *testing.T) {
	got := Ingest([]Record{
		csvRow("Q1", "Bio", "Cell?", "A", "first", "1"),
		csvRow("Q1", "Bio", "Cell?", "B", "other", "0"),
		csvRow("Q1", "Bio", "Cell?", "a", "second", "0"),
	}, nil)

	require.Len(t, got, 1)
	require.Len(t, got[0].Alternatives, 2)
	assert.Equal(t, "first", got[0].Alternatives[0].Text)
	assert.True(t, got[0].Alternatives[0].IsCorrect)
}

func TestIngestDropsGroupsBelowMinimum(t *testing.T) {
	got := Ingest([]Record{
		csvRow("Q1", "Math", "lonely", "A", "only", "1"),
		csvRow("Q2", "Math", "ok", "A", "x", "0"),
		csvRow("Q2", "Math", "ok", "B", "y", "1"),
		csvRow("Q3", "Math", "dupes", "A", "x", "0"),
		csvRow("Q3", "Math", "dupes", "A", "y", "1"),
	}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Statement)
	for _, q := range got {
		assert.GreaterOrEqual(t, len(q.Alternatives), MinAlternatives)
	}
}

func TestIngestDenseIDsInFirstSeenOrder(t *testing.T) {
	got := Ingest([]Record{
		csvRow("900", "Hist", "third", "A", "x", "0"),
		csvRow("12", "Geo", "first", "A", "x", "0"),
		csvRow("900", "Hist", "third", "B", "y", "1"),
		csvRow("5", "Geo", "dropped", "A", "x", "0"),
		csvRow("12", "Geo", "first", "B", "y", "1"),
		csvRow("77", "Art", "last", "B", "y", "1"),
		csvRow("77", "Art", "last", "A", "x", "0"),
	}, nil)

	require.Len(t, got, 3)
	for i, q := range got {
		assert.Equal(t, i+1, q.ID)
	}
	assert.Equal(t, "third", got[0].Statement)
	assert.Equal(t, "first", got[1].Statement)
	assert.Equal(t, "last", got[2].Statement)
}

func TestIngestSortsAlternatives(t *testing.T) {
	got := Ingest([]Record{
		csvRow("Q", "S", "stem", "d", "4", "0"),
		csvRow("Q", "S", "stem", "B)", "2", "0"),
		csvRow("Q", "S", "stem", "c.", "3", "1"),
		csvRow("Q", "S", "stem", "A", "1", "0"),
	}, nil)

	require.Len(t, got, 1)
	var letters []string
	for _, a := range got[0].Alternatives {
		letters = append(letters, a.Letter)
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, letters)
	assert.Equal(t, "C", got[0].CorrectLetter())
}

func TestIngestSubjectAndStatementFromFirstRow(t *testing.T) {
	got := Ingest([]Record{
		csvRow("Q", "<b>Math</b>", "What is &lt;i&gt;x&lt;/i&gt;?", "A", "1", "1"),
		csvRow("Q", "Other", "Other stem", "B", "2", "0"),
	}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Math", got[0].Subject)
	assert.Equal(t, "What is x?", got[0].Statement)
}

func TestIngestSkipsMalformedRows(t *testing.T) {
	got := Ingest([]Record{
		csvRow("", "Math", "no group", "A", "x", "1"),
		csvRow("Q1", "Math", "stem", "", "no letter", "0"),
		csvRow("Q1", "Math", "stem", "AB", "two letters", "0"),
		csvRow("Q1", "Math", "stem", "A", "   ", "0"),
		csvRow("Q1", "Math", "stem", "A", "<br>", "0"),
		csvRow("Q1", "Math", "stem", "A", "x", "0"),
		csvRow("Q1", "Math", "stem", "B", "y", "1"),
	}, nil)

	require.Len(t, got, 1)
	assert.Len(t, got[0].Alternatives, 2)
	assert.Equal(t, "x", got[0].Alternatives[0].Text)
}

func TestIngestCorrectFlagForms(t *testing.T) {
	got := Ingest([]Record{
		sheetRow(map[string]any{ColQuestionID: 101.0, ColArea: "Chem", ColQuestion: "H2O?", ColLetter: "A", ColAlternative: "water", ColCorrect: 1.0}),
		sheetRow(map[string]any{ColQuestionID: 101.0, ColArea: "Chem", ColQuestion: "H2O?", ColLetter: "B", ColAlternative: "salt", ColCorrect: 0}),
		sheetRow(map[string]any{ColQuestionID: "102", ColArea: "Chem", ColQuestion: "NaCl?", ColLetter: "A", ColAlternative: "water", ColCorrect: "0"}),
		sheetRow(map[string]any{ColQuestionID: "102", ColArea: "Chem", ColQuestion: "NaCl?", ColLetter: "B", ColAlternative: "salt", ColCorrect: " 1 "}),
		sheetRow(map[string]any{ColQuestionID: "102", ColArea: "Chem", ColQuestion: "NaCl?", ColLetter: "C", ColAlternative: "sugar", ColCorrect: "true"}),
	}, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].CorrectLetter())
	assert.Equal(t, "B", got[1].CorrectLetter())
	assert.False(t, got[1].Alternatives[2].IsCorrect)
}

func TestIngestCorrectFlagNumericKinds(t *testing.T) {
	ones := []any{int8(1), int16(1), int32(1), int64(1), uint(1), uint8(1), uint16(1), uint32(1), uint64(1), float32(1), 1}
	for _, one := range ones {
		got := Ingest([]Record{
			sheetRow(map[string]any{ColQuestionID: 7, ColArea: "Chem", ColQuestion: "Q?", ColLetter: "A", ColAlternative: "no", ColCorrect: int32(0)}),
			sheetRow(map[string]any{ColQuestionID: 7, ColArea: "Chem", ColQuestion: "Q?", ColLetter: "B", ColAlternative: "yes", ColCorrect: one}),
		}, nil)
		require.Len(t, got, 1, "%T", one)
		assert.Equal(t, "B", got[0].CorrectLetter(), "%T", one)
	}

	assert.False(t, correctFlag(float32(1.5)))
	assert.False(t, correctFlag(uint8(2)))
	assert.False(t, correctFlag(nil))
	assert.False(t, correctFlag([]int{1}))
}

func TestIngestGroupingCountsDistinctLetters(t *testing.T) {
	records := []Record{}
	letters := []string{"A", "B", "C", "B", "D", "A", "E"}
	for _, l := range letters {
		records = append(records, csvRow("G", "S", "stem", l, "text "+l, "0"))
	}
	got := Ingest(records, nil)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Alternatives, 5)
}

func TestSummary(t *testing.T) {
	got := Summary([]Question{
		{ID: 1, Subject: "Math"},
		{ID: 2, Subject: "Bio"},
		{ID: 3, Subject: "Math"},
	})
	assert.Equal(t, []SubjectCount{{"Bio", 1}, {"Math", 2}}, got)
}
