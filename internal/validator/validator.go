// Package validator checks parsed lesson batches against the field rules
// before anything is written. It collects every problem instead of stopping
// at the first one.
package validator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"lessonbook/internal/domain"
)

var (
	partList   = joinValues(domain.PartsOfSpeech)
	genderList = joinValues(domain.Genders)
)

// Validate returns the complete list of problems in the batch
func Validate(batch *domain.ParsedBatch) domain.ValidationResult {
	if batch == nil {
		return invalid([]domain.RowError{domain.NewError("Nothing to validate")})
	}

	var errs []domain.RowError
	for _, issue := range batch.Issues {
		errs = append(errs, domain.NewError(issue))
	}

	if batch.Format.Tabular() {
		errs = append(errs, validateRows(batch.Terms)...)
	} else {
		if batch.Meta.NumberPresent && (batch.Meta.Number < 1 || batch.Meta.Number > math.MaxInt32) {
			errs = append(errs, domain.NewError("lesson.lesson_number must be a positive integer"))
		}
		if len(batch.Terms) == 0 {
			errs = append(errs, domain.NewError("terms must contain at least one term"))
		}
		errs = append(errs, validateTerms(batch.Terms)...)
	}

	if len(errs) > 0 {
		return invalid(errs)
	}
	return domain.ValidationResult{Valid: true}
}

func invalid(errs []domain.RowError) domain.ValidationResult {
	return domain.ValidationResult{Valid: false, Errors: errs}
}

// validateRows applies the tabular rules. Enumerations are case-insensitive
// and blank part/gender are allowed; defaults are applied at import time.
func validateRows(rows []domain.RawTermRecord) []domain.RowError {
	if len(rows) == 0 {
		return []domain.RowError{domain.NewError("No data rows")}
	}

	var errs []domain.RowError
	firstLesson, firstOK := lessonNumber(rows[0].Lesson)

	for _, rec := range rows {
		row := rec.Row

		if strings.TrimSpace(rec.German) == "" {
			errs = append(errs, domain.NewRowError(row, "Missing required field 'German'"))
		}

		if strings.TrimSpace(rec.Lesson) == "" {
			errs = append(errs, domain.NewRowError(row, "Missing required field 'Lesson'"))
		} else if n, ok := lessonNumber(rec.Lesson); !ok {
			errs = append(errs, domain.NewRowError(row, "Invalid lesson number (must be a positive integer)"))
		} else if firstOK && n != firstLesson {
			errs = append(errs, domain.NewRowError(row,
				fmt.Sprintf("Lesson %d does not match lesson %d of the first row (one lesson per file)", n, firstLesson)))
		}

		if strings.TrimSpace(rec.Category) == "" {
			errs = append(errs, domain.NewRowError(row, "Missing required field 'Category'"))
		}

		if strings.TrimSpace(rec.Part) != "" {
			if _, err := domain.NormalizePart(rec.Part); err != nil {
				errs = append(errs, domain.NewRowError(row,
					fmt.Sprintf("Invalid PartOfSpeech '%s'. Must be one of: %s", rec.Part, partList)))
			}
		}

		if strings.TrimSpace(rec.Gender) != "" {
			if _, err := domain.NormalizeGender(rec.Gender); err != nil {
				errs = append(errs, domain.NewRowError(row,
					fmt.Sprintf("Invalid Gender '%s'. Must be one of: %s", rec.Gender, genderList)))
			}
		}
	}

	return errs
}

// validateTerms applies the JSON rules: part, gender and a translation are
// required and enumerations must match exactly.
func validateTerms(terms []domain.RawTermRecord) []domain.RowError {
	var errs []domain.RowError

	add := func(rec domain.RawTermRecord, format string, args ...any) {
		errs = append(errs, domain.NewError(fmt.Sprintf("terms[%d]: ", rec.Row)+fmt.Sprintf(format, args...)))
	}

	for _, rec := range terms {
		if strings.TrimSpace(rec.German) == "" {
			add(rec, "german is required and must be a non-empty string")
		}

		switch {
		case rec.Part == "":
			add(rec, "part is required and must be a string")
		case !domain.PartOfSpeech(rec.Part).IsValid():
			add(rec, "part must be one of: %s (got %q)", partList, rec.Part)
		}

		switch {
		case rec.Gender == "":
			add(rec, "gender is required and must be a string")
		case !domain.Gender(rec.Gender).IsValid():
			add(rec, "gender must be one of: %s (got %q)", genderList, rec.Gender)
		}

		if strings.TrimSpace(rec.Category) == "" {
			add(rec, "category is required and must be a non-empty string")
		}

		if !rec.HasTranslations {
			add(rec, "translations is required and must be an object")
		} else if !hasTranslation(rec.Translations) {
			add(rec, "at least one translation is required")
		}
	}

	return errs
}

func hasTranslation(tr map[domain.Language]string) bool {
	for _, text := range tr {
		if strings.TrimSpace(text) != "" {
			return true
		}
	}
	return false
}

func lessonNumber(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > math.MaxInt32 {
		return 0, false
	}
	return n, true
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
