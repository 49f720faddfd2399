package parser

import (
	"bytes"
	"errors"
	"testing"

	"lessonbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const csvHeader = "German,Hebrew,English,Italian,Lesson,PartOfSpeech,Gender,Category,Subcategory\n"

func TestParseCSV(t *testing.T) {
	input := "\uFEFF  " + csvHeader +
		"Tisch,שולחן,table,,1,noun,der,Nouns,\n" +
		"\n" +
		"  sein , , to be ,essere, 1 ,VERB,none,Verbs,Infinitives\n"

	batch, err := ParseCSV([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, domain.FormatCSV, batch.Format)
	assert.Equal(t, 1, batch.Meta.Number)
	assert.True(t, batch.Meta.NumberPresent)
	require.Len(t, batch.Terms, 2)

	first := batch.Terms[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "Tisch", first.German)
	assert.Equal(t, "noun", first.Part)
	assert.Equal(t, "der", first.Gender)
	assert.Equal(t, "Nouns", first.Category)
	assert.Equal(t, map[domain.Language]string{
		domain.LangHebrew:  "שולחן",
		domain.LangEnglish: "table",
	}, first.Translations)

	second := batch.Terms[1]
	assert.Equal(t, 3, second.Row)
	assert.Equal(t, "sein", second.German)
	assert.Equal(t, "1", second.Lesson)
	assert.Equal(t, "VERB", second.Part)
	assert.Equal(t, "Infinitives", second.Subcategory)
	assert.Equal(t, "to be", second.Translations[domain.LangEnglish])
	assert.Equal(t, "essere", second.Translations[domain.LangItalian])
	_, hasHebrew := second.Translations[domain.LangHebrew]
	assert.False(t, hasHebrew)
}

func TestParseCSV_Failures(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectedKind FailureKind
		expectedRows []int
	}{
		{
			name:         "empty input",
			input:        "  \n ",
			expectedKind: FailureRows,
		},
		{
			name:         "too few fields",
			input:        csvHeader + "Tisch,,table,,1,noun,der,Nouns,\nHaus,bayit\n",
			expectedKind: FailureRows,
			expectedRows: []int{3},
		},
		{
			name:         "unterminated quote",
			input:        csvHeader + "\"Tisch,,table,,1,noun,der,Nouns,\n",
			expectedKind: FailureRows,
			expectedRows: []int{2},
		},
		{
			name:         "field count rows count leading blank lines",
			input:        "\n\n" + csvHeader + "Tisch,,table,,1,noun,der,Nouns,\nHaus,bayit\n",
			expectedKind: FailureRows,
			expectedRows: []int{5},
		},
		{
			name:         "quote error rows count leading blank lines",
			input:        "\r\n \n" + csvHeader + "\"Tisch,,table,,1,noun,der,Nouns,\n",
			expectedKind: FailureRows,
			expectedRows: []int{4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := ParseCSV([]byte(tt.input))
			assert.Nil(t, batch)

			var failure *ParseFailure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.expectedKind, failure.Kind)
			require.NotEmpty(t, failure.Errors)

			for i, row := range tt.expectedRows {
				require.NotNil(t, failure.Errors[i].Row)
				assert.Equal(t, row, *failure.Errors[i].Row)
			}
		})
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	batch, err := ParseCSV([]byte(csvHeader + "\n,,,,,,,,\n"))
	require.NoError(t, err)
	assert.Empty(t, batch.Terms)
	assert.False(t, batch.Meta.NumberPresent)
}

func TestParseCSV_NonNumericLesson(t *testing.T) {
	batch, err := ParseCSV([]byte(csvHeader + "Tisch,,table,,one,noun,der,Nouns,\n"))
	require.NoError(t, err)
	assert.False(t, batch.Meta.NumberPresent)
	assert.Equal(t, "one", batch.Terms[0].Lesson)
}

func TestParseJSON(t *testing.T) {
	input := `{
		"lesson": { "lesson_number": 1, "lesson_name": "Basic Verbs", "topics": ["Tenses"] },
		"terms": [
			{ "german": "sein", "part": "verb", "gender": "none",
			  "translations": { "he": "להיות", "en": "to be", "it": "essere", "de": "ignored" },
			  "category": "Verbs", "subcategory": "Infinitives", "ipa": "zaɪ̯n", "audio_url": "https://a/sein.mp3" }
		],
		"sentences": [ { "german": "Ich bin hier.", "en": "I am here." } ],
		"notes": "Review on Monday"
	}`

	batch, err := ParseJSON([]byte(input))
	require.NoError(t, err)

	assert.Empty(t, batch.Issues)
	assert.Equal(t, domain.LessonMeta{
		Number:        1,
		NumberPresent: true,
		Name:          "Basic Verbs",
		Topics:        []string{"Tenses"},
		TopicsPresent: true,
	}, batch.Meta)

	require.Len(t, batch.Terms, 1)
	term := batch.Terms[0]
	assert.Equal(t, 0, term.Row)
	assert.Equal(t, "sein", term.German)
	assert.True(t, term.HasTranslations)
	assert.Len(t, term.Translations, 3)
	assert.Equal(t, "להיות", term.Translations[domain.LangHebrew])
	assert.Equal(t, "https://a/sein.mp3", term.AudioURL)

	require.Len(t, batch.Sentences, 1)
	assert.Equal(t, "I am here.", batch.Sentences[0].Translations[domain.LangEnglish])
	assert.Equal(t, "Review on Monday", batch.Notes)
}

func TestParseJSON_SyntaxError(t *testing.T) {
	batch, err := ParseJSON([]byte("{\n\"lesson\": {\n\"lesson_number\": 1,,\n}"))
	assert.Nil(t, batch)

	var failure *ParseFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, FailureSyntax, failure.Kind)
	require.Len(t, failure.Errors, 1)
	require.NotNil(t, failure.Errors[0].Row)
	assert.Equal(t, 3, *failure.Errors[0].Row)
}

func TestParseJSON_StructuralIssues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "not an object",
			input:    `[1, 2]`,
			expected: []string{"Invalid JSON: must be an object"},
		},
		{
			name:  "missing lesson and terms",
			input: `{}`,
			expected: []string{
				"Missing required field: lesson",
				"Missing required field: terms (must be an array)",
			},
		},
		{
			name:  "lesson not an object and sentences not an array",
			input: `{"lesson": 3, "terms": [], "sentences": "x"}`,
			expected: []string{
				`Field "lesson" must be an object`,
				`Field "sentences" must be an array`,
			},
		},
		{
			name:     "lesson number as string",
			input:    `{"lesson": {"lesson_number": "1"}, "terms": []}`,
			expected: []string{"lesson.lesson_number is required and must be a number"},
		},
		{
			name:     "fractional lesson number",
			input:    `{"lesson": {"lesson_number": 1.5}, "terms": []}`,
			expected: []string{"lesson.lesson_number must be a positive integer"},
		},
		{
			name:     "negative lesson number",
			input:    `{"lesson": {"lesson_number": -2}, "terms": []}`,
			expected: []string{"lesson.lesson_number must be a positive integer"},
		},
		{
			name:     "lesson number beyond int32",
			input:    `{"lesson": {"lesson_number": 1e12}, "terms": []}`,
			expected: []string{"lesson.lesson_number must be a positive integer"},
		},
		{
			name:     "term is not an object",
			input:    `{"lesson": {"lesson_number": 1}, "terms": ["sein"]}`,
			expected: []string{"terms[0]: must be an object"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := ParseJSON([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, batch.Issues)
		})
	}
}

func TestParseJSON_WrongTypesBecomeBlank(t *testing.T) {
	batch, err := ParseJSON([]byte(`{"lesson": {"lesson_number": 2}, "terms": [{"german": 5, "part": true, "translations": "x"}]}`))
	require.NoError(t, err)
	require.Len(t, batch.Terms, 1)
	assert.Equal(t, "", batch.Terms[0].German)
	assert.Equal(t, "", batch.Terms[0].Part)
	assert.False(t, batch.Terms[0].HasTranslations)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"German", "Hebrew", "English", "Italian", "Lesson", "PartOfSpeech", "Gender", "Category", "Subcategory"},
		{"Tisch", "שולחן", "table", "", "3", "noun", "der", "Nouns"},
		{},
		{"schön", "", "beautiful", "bello", "3", "adjective", "", "Adjectives", "Colors"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	batch, err := ParseXLSX(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, domain.FormatXLSX, batch.Format)
	assert.Equal(t, 3, batch.Meta.Number)
	require.Len(t, batch.Terms, 2)
	assert.Equal(t, "Tisch", batch.Terms[0].German)
	assert.Equal(t, "", batch.Terms[0].Subcategory)
	assert.Equal(t, "Colors", batch.Terms[1].Subcategory)
	assert.Equal(t, 3, batch.Terms[1].Row)
}

func TestParseXLSX_InvalidFile(t *testing.T) {
	_, err := ParseXLSX([]byte("definitely not a zip"))

	var failure *ParseFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, FailureSyntax, failure.Kind)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected domain.Format
		wantErr  bool
	}{
		{filename: "lesson1.csv", expected: domain.FormatCSV},
		{filename: "Lesson1.JSON", expected: domain.FormatJSON},
		{filename: "vocab.xlsx", expected: domain.FormatXLSX},
		{filename: "notes.txt", wantErr: true},
		{filename: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			format, err := DetectFormat(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestCSVTemplate_RoundTrips(t *testing.T) {
	batch, err := ParseCSV(CSVTemplate())
	require.NoError(t, err)
	require.Len(t, batch.Terms, 3)
	assert.Equal(t, "ich bin", batch.Terms[0].German)
	assert.Equal(t, "Furniture", batch.Terms[1].Subcategory)
	assert.Equal(t, 1, batch.Meta.Number)
}
