// Package parser turns raw lesson payloads (CSV, JSON, XLSX) into normalized
// term records. It knows nothing about storage.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"lessonbook/internal/domain"
)

// FailureKind separates malformed syntax from row-level tokenizing problems
type FailureKind string

const (
	FailureSyntax FailureKind = "syntax"
	FailureRows   FailureKind = "rows"
)

// ParseFailure is returned when input cannot be tokenized. Validation must not
// run on input that produced a ParseFailure.
type ParseFailure struct {
	Kind   FailureKind
	Errors []domain.RowError
}

func (f *ParseFailure) Error() string {
	if len(f.Errors) == 1 {
		return fmt.Sprintf("parse %s: %s", f.Kind, f.Errors[0].String())
	}
	return fmt.Sprintf("parse %s: %d errors", f.Kind, len(f.Errors))
}

// Parse decodes raw input of the given format
func Parse(raw []byte, format domain.Format) (*domain.ParsedBatch, error) {
	switch format {
	case domain.FormatCSV:
		return ParseCSV(raw)
	case domain.FormatJSON:
		return ParseJSON(raw)
	case domain.FormatXLSX:
		return ParseXLSX(raw)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// DetectFormat picks the format from a file name extension
func DetectFormat(filename string) (domain.Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return domain.FormatCSV, nil
	case ".json":
		return domain.FormatJSON, nil
	case ".xlsx":
		return domain.FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported file type %q (expected .csv, .json or .xlsx)", filepath.Ext(filename))
}
