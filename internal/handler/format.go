package handler

import (
	"fmt"
	"strconv"
	"strings"

	"lessonbook/internal/domain"
)

// maxShownErrors limits how many row errors go into one chat message
const maxShownErrors = 10

// formatErrors lists the first errors and says how many more were left out
func formatErrors(title string, errs []domain.RowError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d):\n\n", title, len(errs))
	for i, e := range errs {
		if i == maxShownErrors {
			fmt.Fprintf(&b, "...and %d more", len(errs)-maxShownErrors)
			break
		}
		fmt.Fprintf(&b, "• %s\n", e.String())
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatImportResult summarizes a finished import
func formatImportResult(result *domain.ImportResult) string {
	imported := result.NewTermsCount + result.ReusedTermsCount

	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✅ Lesson %d imported: %d terms\n", result.LessonNumber, imported)
	} else {
		fmt.Fprintf(&b, "⚠️ Lesson %d imported with errors: %d terms imported, %d failed\n",
			result.LessonNumber, imported, len(result.Errors))
	}
	fmt.Fprintf(&b, "• %d new terms created\n", result.NewTermsCount)
	fmt.Fprintf(&b, "• %d existing terms reused", result.ReusedTermsCount)

	if len(result.Errors) > 0 {
		b.WriteString("\n\n")
		b.WriteString(formatErrors("Errors", result.Errors))
	}
	return b.String()
}

// formatLesson renders a lesson with its terms grouped by category
func formatLesson(lesson *domain.Lesson, entries []domain.LessonEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📘 %d. %s\n", lesson.Number, lesson.DisplayName())
	if len(lesson.Topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(lesson.Topics, ", "))
	}

	if len(entries) == 0 {
		b.WriteString("\nNo terms yet")
		return b.String()
	}

	category := ""
	for _, e := range entries {
		heading := e.Category
		if e.Subcategory != "" {
			heading += " / " + e.Subcategory
		}
		if heading != category {
			fmt.Fprintf(&b, "\n%s\n", heading)
			category = heading
		}
		fmt.Fprintf(&b, "• %s", termLabel(e.Term))
		if tr := firstTranslation(e.Translations); tr != "" {
			fmt.Fprintf(&b, " — %s", tr)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func termLabel(t domain.Term) string {
	if t.Gender != domain.GenderNone && t.Gender != "" {
		return string(t.Gender) + " " + t.German
	}
	return t.German
}

// firstTranslation prefers English, then the stored language order
func firstTranslation(tr map[domain.Language]string) string {
	if text := tr[domain.LangEnglish]; text != "" {
		return text
	}
	for _, lang := range domain.Languages {
		if text := tr[lang]; text != "" {
			return text
		}
	}
	return ""
}

// parseLessonArg reads a lesson number from a command argument
func parseLessonArg(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a lesson number", arg)
	}
	return n, nil
}

// maxMessageLen stays under Telegram's 4096 character limit
const maxMessageLen = 4000

// truncate cuts long text on a line boundary
func truncate(text string) string {
	if len([]rune(text)) <= maxMessageLen {
		return text
	}
	cut := string([]rune(text)[:maxMessageLen])
	if i := strings.LastIndex(cut, "\n"); i > 0 {
		cut = cut[:i]
	}
	return cut + "\n…"
}
