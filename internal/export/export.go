// Package export renders study plans and answer history to CSV, XLSX
// and PDF.
package export

import (
	"fmt"
	"strings"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat parses a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, xlsx or pdf)", s)
}

const dateLayout = "2006-01-02"

func formatHours(h float64) string {
	return fmt.Sprintf("%.1f", h)
}
