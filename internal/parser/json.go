package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"lessonbook/internal/domain"
)

// ParseJSON decodes a lesson document. Invalid syntax fails outright; shape
// problems are recorded as batch issues so the validator reports them together
// with the per-term rules.
func ParseJSON(raw []byte) (*domain.ParsedBatch, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseFailure{Kind: FailureSyntax, Errors: []domain.RowError{jsonSyntaxError(raw, err)}}
	}

	batch := &domain.ParsedBatch{Format: domain.FormatJSON}

	obj, ok := doc.(map[string]any)
	if !ok {
		batch.Issues = append(batch.Issues, "Invalid JSON: must be an object")
		return batch, nil
	}

	parseLessonMeta(batch, obj["lesson"])
	parseTerms(batch, obj["terms"])
	parseSentences(batch, obj)

	if notes, ok := obj["notes"].(string); ok {
		batch.Notes = notes
	}

	return batch, nil
}

func jsonSyntaxError(raw []byte, err error) domain.RowError {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		line := 1 + bytes.Count(raw[:min(int(se.Offset), len(raw))], []byte("\n"))
		return domain.NewRowError(line, "Invalid JSON syntax: "+se.Error())
	}
	return domain.NewError("Invalid JSON: " + err.Error())
}

func parseLessonMeta(batch *domain.ParsedBatch, v any) {
	if v == nil {
		batch.Issues = append(batch.Issues, "Missing required field: lesson")
		return
	}
	lesson, ok := v.(map[string]any)
	if !ok {
		batch.Issues = append(batch.Issues, `Field "lesson" must be an object`)
		return
	}

	meta := &batch.Meta
	switch n, ok := lesson["lesson_number"].(float64); {
	case !ok || n == 0:
		batch.Issues = append(batch.Issues, "lesson.lesson_number is required and must be a number")
	case n != math.Trunc(n) || n < 1 || n > math.MaxInt32:
		batch.Issues = append(batch.Issues, "lesson.lesson_number must be a positive integer")
	default:
		meta.Number = int(n)
		meta.NumberPresent = true
	}

	meta.Name = stringField(lesson, "lesson_name")
	meta.Description = stringField(lesson, "description")

	if topics, present := lesson["topics"]; present && topics != nil {
		list, ok := stringList(topics)
		if !ok {
			batch.Issues = append(batch.Issues, "lesson.topics must be an array of strings")
		} else {
			meta.Topics = list
			meta.TopicsPresent = true
		}
	}
}

func parseTerms(batch *domain.ParsedBatch, v any) {
	items, ok := v.([]any)
	if !ok {
		batch.Issues = append(batch.Issues, "Missing required field: terms (must be an array)")
		return
	}

	for i, item := range items {
		term, ok := item.(map[string]any)
		if !ok {
			batch.Issues = append(batch.Issues, fmt.Sprintf("terms[%d]: must be an object", i))
			continue
		}

		rec := domain.RawTermRecord{
			Row:          i,
			German:       stringField(term, "german"),
			Part:         stringField(term, "part"),
			Gender:       stringField(term, "gender"),
			Category:     stringField(term, "category"),
			Subcategory:  stringField(term, "subcategory"),
			IPA:          stringField(term, "ipa"),
			AudioURL:     stringField(term, "audio_url"),
			Translations: make(map[domain.Language]string),
		}
		if tr, ok := term["translations"].(map[string]any); ok {
			rec.HasTranslations = true
			rec.Translations = translationsFrom(tr)
		}
		batch.Terms = append(batch.Terms, rec)
	}
}

func parseSentences(batch *domain.ParsedBatch, obj map[string]any) {
	v, present := obj["sentences"]
	if !present || v == nil {
		return
	}
	items, ok := v.([]any)
	if !ok {
		batch.Issues = append(batch.Issues, `Field "sentences" must be an array`)
		return
	}
	for _, item := range items {
		s, ok := item.(map[string]any)
		if !ok {
			continue
		}
		batch.Sentences = append(batch.Sentences, domain.Sentence{
			German:       stringField(s, "german"),
			Translations: translationsFrom(s),
		})
	}
}

func translationsFrom(m map[string]any) map[domain.Language]string {
	out := make(map[domain.Language]string)
	for code, v := range m {
		lang, known := domain.LanguageFromCode(code)
		if !known {
			continue
		}
		if s, ok := v.(string); ok {
			out[lang] = s
		}
	}
	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
