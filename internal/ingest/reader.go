package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnknownFormat is returned for files that are not .csv, .xlsx or .json.
	ErrUnknownFormat = errors.New("unknown question file format")

	// ErrMissingColumn is returned when a header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

var spreadsheetColumns = []string{ColQuestionID, ColArea, ColQuestion, ColLetter, ColAlternative, ColCorrect}

var csvColumns = []string{ColObjectQuestionID, ColAreaCSV, ColQuestionStem, ColLetter, ColDescription, ColCorrect}

// ReadFile reads question records from path, choosing the reader by
// extension.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".xlsx":
		return ReadSpreadsheet(f)
	case ".json":
		return ReadJSON(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
	}
}

// ReadCSV reads a CSV file with a header row. Either column convention is
// accepted.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var (
		rows  [][]string
		lines []int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, rec)
		lines = append(lines, line)
	}
	return fromTable(header, rows, lines)
}

// ReadSpreadsheet reads the first sheet of an .xlsx workbook.
func ReadSpreadsheet(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []Record{}, nil
	}
	table, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(table) == 0 {
		return []Record{}, nil
	}

	lines := make([]int, len(table)-1)
	for i := range lines {
		lines[i] = i + 2
	}
	return fromTable(table[0], table[1:], lines)
}

// ReadJSON reads a JSON array of spreadsheet-shaped objects.
func ReadJSON(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		if err == io.EOF {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("decode json: %w", err)
	}

	records := make([]Record, 0, len(objects))
	for i, obj := range objects {
		fields := make(map[string]any, len(obj))
		for k, v := range obj {
			fields[canonicalColumn(k)] = v
		}
		if _, ok := fields[ColObjectQuestionID]; ok {
			records = append(records, CSVRow{
				Line:             i + 1,
				ObjectQuestionID: cellString(fields[ColObjectQuestionID]),
				Area:             cellString(fields[ColAreaCSV]),
				QuestionStem:     cellString(fields[ColQuestionStem]),
				Letter:           cellString(fields[ColLetter]),
				Description:      cellString(fields[ColDescription]),
				Correct:          cellString(fields[ColCorrect]),
			})
			continue
		}
		records = append(records, SpreadsheetRow{Line: i + 1, Fields: fields})
	}
	return records, nil
}

// fromTable maps a header plus string rows onto the matching adapter.
func fromTable(header []string, rows [][]string, lines []int) ([]Record, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[canonicalColumn(h)] = i
	}

	columns := spreadsheetColumns
	if _, ok := index[ColObjectQuestionID]; ok {
		columns = csvColumns
	}
	for _, c := range columns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]Record, 0, len(rows))
	for n, row := range rows {
		if isBlank(row) {
			continue
		}
		if columns[0] == ColObjectQuestionID {
			records = append(records, CSVRow{
				Line:             lines[n],
				ObjectQuestionID: cell(row, ColObjectQuestionID),
				Area:             cell(row, ColAreaCSV),
				QuestionStem:     cell(row, ColQuestionStem),
				Letter:           cell(row, ColLetter),
				Description:      cell(row, ColDescription),
				Correct:          cell(row, ColCorrect),
			})
			continue
		}
		fields := make(map[string]any, len(columns))
		for _, c := range columns {
			fields[c] = cell(row, c)
		}
		records = append(records, SpreadsheetRow{Line: lines[n], Fields: fields})
	}
	return records, nil
}

// canonicalColumn maps a header to its known column name, ignoring case,
// surrounding space and a UTF-8 byte order mark.
func canonicalColumn(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	for _, c := range spreadsheetColumns {
		if strings.EqualFold(h, c) {
			return c
		}
	}
	for _, c := range csvColumns {
		if strings.EqualFold(h, c) {
			return c
		}
	}
	return h
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
