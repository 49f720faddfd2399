package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"lessonbook/internal/domain"
)

// Column names of the tabular layout
const (
	ColGerman       = "German"
	ColHebrew       = "Hebrew"
	ColEnglish      = "English"
	ColItalian      = "Italian"
	ColLesson       = "Lesson"
	ColPartOfSpeech = "PartOfSpeech"
	ColGender       = "Gender"
	ColCategory     = "Category"
	ColSubcategory  = "Subcategory"
)

// Columns is the header row in template order
var Columns = []string{
	ColGerman, ColHebrew, ColEnglish, ColItalian, ColLesson,
	ColPartOfSpeech, ColGender, ColCategory, ColSubcategory,
}

var tabularLanguages = map[string]domain.Language{
	ColHebrew:  domain.LangHebrew,
	ColEnglish: domain.LangEnglish,
	ColItalian: domain.LangItalian,
}

// ParseCSV tokenizes CSV text with a header row
func ParseCSV(raw []byte) (*domain.ParsedBatch, error) {
	body := strings.TrimPrefix(string(raw), "\uFEFF")
	text := strings.TrimLeftFunc(body, unicode.IsSpace)
	// Reader lines start after the stripped leading blank lines.
	offset := strings.Count(body[:len(body)-len(text)], "\n")
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	if text == "" {
		return nil, &ParseFailure{Kind: FailureRows, Errors: []domain.RowError{domain.NewError("CSV input is empty")}}
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, &ParseFailure{Kind: FailureSyntax, Errors: []domain.RowError{csvError(err, offset)}}
	}

	var (
		rows [][]string
		errs []domain.RowError
	)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Quote errors leave the reader out of sync with the rows, so stop here.
			errs = append(errs, csvError(err, offset))
			break
		}
		if blankRecord(rec) {
			continue
		}
		if len(rec) != len(header) {
			line, _ := r.FieldPos(0)
			msg := "Too few fields"
			if len(rec) > len(header) {
				msg = "Too many fields"
			}
			errs = append(errs, domain.NewRowError(line+offset, fmt.Sprintf("%s: expected %d fields but parsed %d", msg, len(header), len(rec))))
			continue
		}
		rows = append(rows, rec)
	}

	if len(errs) > 0 {
		return nil, &ParseFailure{Kind: FailureRows, Errors: errs}
	}

	return fromTable(domain.FormatCSV, header, rows), nil
}

func csvError(err error, offset int) domain.RowError {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return domain.NewRowError(pe.StartLine+offset, pe.Err.Error())
	}
	return domain.NewError(err.Error())
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// fromTable maps header-keyed rows to term records. Row numbers are the
// zero-based data index plus two (header line and one-based counting).
func fromTable(format domain.Format, header []string, rows [][]string) *domain.ParsedBatch {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}

	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	batch := &domain.ParsedBatch{Format: format}
	for i, rec := range rows {
		term := domain.RawTermRecord{
			Row:          i + 2,
			German:       get(rec, ColGerman),
			Lesson:       get(rec, ColLesson),
			Part:         get(rec, ColPartOfSpeech),
			Gender:       get(rec, ColGender),
			Category:     get(rec, ColCategory),
			Subcategory:  get(rec, ColSubcategory),
			Translations: make(map[domain.Language]string),
		}
		for col, lang := range tabularLanguages {
			if v := get(rec, col); v != "" {
				term.Translations[lang] = v
			}
		}
		term.HasTranslations = len(term.Translations) > 0
		batch.Terms = append(batch.Terms, term)
	}

	if len(batch.Terms) > 0 {
		if n, err := strconv.Atoi(batch.Terms[0].Lesson); err == nil {
			batch.Meta.Number = n
			batch.Meta.NumberPresent = true
		}
	}

	return batch
}
