package handler

import (
	"fmt"
	"strings"
	"testing"

	"lessonbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected []string
		absent   []string
	}{
		{
			name:     "few errors",
			count:    2,
			expected: []string{"Problems (2):", "Row 2: bad 0", "Row 3: bad 1"},
			absent:   []string{"more"},
		},
		{
			name:     "more than ten",
			count:    13,
			expected: []string{"Problems (13):", "Row 11: bad 9", "...and 3 more"},
			absent:   []string{"Row 12: bad 10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := make([]domain.RowError, tt.count)
			for i := range errs {
				errs[i] = domain.NewRowError(i+2, fmt.Sprintf("bad %d", i))
			}

			text := formatErrors("Problems", errs)

			for _, s := range tt.expected {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestFormatImportResult(t *testing.T) {
	ok := formatImportResult(&domain.ImportResult{
		Success:          true,
		LessonNumber:     4,
		NewTermsCount:    3,
		ReusedTermsCount: 2,
	})
	assert.Equal(t, "✅ Lesson 4 imported: 5 terms\n• 3 new terms created\n• 2 existing terms reused", ok)

	partial := formatImportResult(&domain.ImportResult{
		LessonNumber:  4,
		NewTermsCount: 1,
		Errors:        []domain.RowError{domain.NewRowError(3, "link failed")},
	})
	assert.True(t, strings.HasPrefix(partial, "⚠️ Lesson 4 imported with errors: 1 terms imported, 1 failed"))
	assert.Contains(t, partial, "Row 3: link failed")
}

func TestFormatLesson(t *testing.T) {
	lesson := &domain.Lesson{Number: 2, Topics: []string{"Home"}}
	entries := []domain.LessonEntry{
		{
			Term:         domain.Term{German: "Tisch", Gender: domain.GenderDer},
			Category:     "Nouns",
			Subcategory:  "Furniture",
			Translations: map[domain.Language]string{domain.LangHebrew: "שולחן", domain.LangEnglish: "table"},
		},
		{
			Term:         domain.Term{German: "Stuhl", Gender: domain.GenderDer},
			Category:     "Nouns",
			Subcategory:  "Furniture",
			Translations: map[domain.Language]string{domain.LangHebrew: "כיסא"},
		},
		{
			Term:     domain.Term{German: "gehen", Gender: domain.GenderNone},
			Category: "Verbs",
		},
	}

	expected := "📘 2. Lesson 2\n" +
		"Topics: Home\n" +
		"\nNouns / Furniture\n" +
		"• der Tisch — table\n" +
		"• der Stuhl — כיסא\n" +
		"\nVerbs\n" +
		"• gehen"
	assert.Equal(t, expected, formatLesson(lesson, entries))

	assert.Contains(t, formatLesson(lesson, nil), "No terms yet")
}

func TestParseLessonArg(t *testing.T) {
	tests := []struct {
		input       string
		expected    int
		expectError bool
	}{
		{input: "3", expected: 3},
		{input: " 12 ", expected: 12},
		{input: "0", expectError: true},
		{input: "-1", expectError: true},
		{input: "two", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := parseLessonArg(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestOptionalLesson(t *testing.T) {
	lesson, err := optionalLesson(nil)
	require.NoError(t, err)
	assert.Nil(t, lesson)

	lesson, err = optionalLesson([]string{"5"})
	require.NoError(t, err)
	require.NotNil(t, lesson)
	assert.Equal(t, 5, *lesson)

	_, err = optionalLesson([]string{"x"})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, truncate(short))

	line := strings.Repeat("a", 99) + "\n"
	long := strings.Repeat(line, 50)
	cut := truncate(long)
	assert.LessOrEqual(t, len([]rune(cut)), maxMessageLen+2)
	assert.True(t, strings.HasSuffix(cut, "\n…"))
}

func TestTakePendingImport(t *testing.T) {
	h := &Handler{states: make(map[int64]*domain.StateData)}
	batch := &domain.ParsedBatch{Meta: domain.LessonMeta{Number: 1, NumberPresent: true}}

	assert.Nil(t, h.takePendingImport(7))

	h.SetState(7, &domain.StateData{State: domain.StateConfirmConflict, PendingImport: batch})
	assert.Same(t, batch, h.takePendingImport(7))
	assert.Equal(t, domain.StateIdle, h.GetState(7).State)
	assert.Nil(t, h.takePendingImport(7))
}
