package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Spreadsheet export column names.
const (
	ColQuestionID  = "ID Questão"
	ColArea        = "Área"
	ColQuestion    = "Questão"
	ColLetter      = "Letter"
	ColAlternative = "Alternativa"
	ColCorrect     = "Correct"
)

// CSV export column names. Letter and Correct are shared with the
// spreadsheet convention.
const (
	ColObjectQuestionID = "ObjectQuestionId"
	ColAreaCSV          = "Area"
	ColQuestionStem     = "QuestionStem"
	ColDescription      = "Description"
)

var (
	errMissingGroup  = errors.New("missing question group id")
	errMissingLetter = errors.New("missing alternative letter")
	errBadLetter     = errors.New("alternative letter is not a single character")
	errMissingText   = errors.New("missing alternative text")
)

// Record is a raw source row. The two implementations are SpreadsheetRow
// and CSVRow; both normalize into Row.
type Record interface {
	normalize() (Row, error)
}

// SpreadsheetRow is a loosely typed row keyed by the spreadsheet column
// names. Values may be strings or numbers.
type SpreadsheetRow struct {
	Line   int
	Fields map[string]any
}

func (r SpreadsheetRow) normalize() (Row, error) {
	row := Row{
		Line:      r.Line,
		GroupID:   strings.TrimSpace(cellString(r.Fields[ColQuestionID])),
		Subject:   cellString(r.Fields[ColArea]),
		Statement: cellString(r.Fields[ColQuestion]),
		Letter:    normalizeLetter(cellString(r.Fields[ColLetter])),
		Text:      cellString(r.Fields[ColAlternative]),
		Correct:   correctFlag(r.Fields[ColCorrect]),
	}
	return row, validate(row)
}

// CSVRow is a row of the CSV export convention.
type CSVRow struct {
	Line             int
	ObjectQuestionID string
	Area             string
	QuestionStem     string
	Letter           string
	Description      string
	Correct          string
}

func (r CSVRow) normalize() (Row, error) {
	row := Row{
		Line:      r.Line,
		GroupID:   strings.TrimSpace(r.ObjectQuestionID),
		Subject:   r.Area,
		Statement: r.QuestionStem,
		Letter:    normalizeLetter(r.Letter),
		Text:      r.Description,
		Correct:   correctFlag(r.Correct),
	}
	return row, validate(row)
}

func validate(row Row) error {
	switch {
	case row.GroupID == "":
		return errMissingGroup
	case row.Letter == "":
		return errMissingLetter
	case utf8.RuneCountInString(row.Letter) != 1:
		return fmt.Errorf("%w: %q", errBadLetter, row.Letter)
	case strings.TrimSpace(row.Text) == "":
		return errMissingText
	}
	return nil
}

// normalizeLetter trims, drops a trailing ")" or "." and uppercases.
func normalizeLetter(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ").")
	return strings.ToUpper(strings.TrimSpace(s))
}

// correctFlag accepts the string "1" or the number 1 as true.
func correctFlag(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) == "1"
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 1
	}
	// Any numeric kind, whatever its width or signedness.
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 1
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 1
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 1
	}
	return false
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
