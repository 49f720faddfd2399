package parser

import (
	"bytes"

	"lessonbook/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first worksheet of a workbook laid out like the CSV template
func ParseXLSX(raw []byte) (*domain.ParsedBatch, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, &ParseFailure{Kind: FailureSyntax, Errors: []domain.RowError{domain.NewError("Invalid XLSX file: " + err.Error())}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseFailure{Kind: FailureRows, Errors: []domain.RowError{domain.NewError("Workbook has no worksheets")}}
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseFailure{Kind: FailureSyntax, Errors: []domain.RowError{domain.NewError(err.Error())}}
	}

	var (
		header []string
		rows   [][]string
	)
	for _, rec := range all {
		if blankRecord(rec) {
			continue
		}
		if header == nil {
			header = rec
			continue
		}
		rows = append(rows, rec)
	}
	if header == nil {
		return nil, &ParseFailure{Kind: FailureRows, Errors: []domain.RowError{domain.NewError("Worksheet is empty")}}
	}

	// GetRows drops trailing empty cells, so short rows are padded instead of rejected.
	for i, rec := range rows {
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rows[i] = padded
		}
	}

	return fromTable(domain.FormatXLSX, header, rows), nil
}
