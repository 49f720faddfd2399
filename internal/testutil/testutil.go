package testutil

import (
	"fmt"
	"time"

	"lessonbook/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, authorized bool) *domain.User {
	return &domain.User{
		UserID:     userID,
		Authorized: authorized,
		CreatedAt:  time.Now(),
	}
}

// NewTestLesson creates a test lesson
func NewTestLesson(id, ownerID int64, number int, name string, topics ...string) *domain.Lesson {
	return &domain.Lesson{
		ID:        id,
		OwnerID:   ownerID,
		Number:    number,
		Name:      name,
		Topics:    topics,
		CreatedAt: time.Now(),
	}
}

// NewTestRecord creates a tabular term record at the given file row
func NewTestRecord(row int, german, category string, tr map[domain.Language]string) domain.RawTermRecord {
	if tr == nil {
		tr = map[domain.Language]string{domain.LangEnglish: german + " (en)"}
	}
	return domain.RawTermRecord{
		Row:             row,
		German:          german,
		Lesson:          "1",
		Category:        category,
		Translations:    tr,
		HasTranslations: len(tr) > 0,
	}
}

// NewTestRecords creates n distinct noun records starting at row 2
func NewTestRecords(n int) []domain.RawTermRecord {
	records := make([]domain.RawTermRecord, n)
	for i := range records {
		records[i] = NewTestRecord(i+2, fmt.Sprintf("Wort%d", i+1), "Nouns", nil)
		records[i].Part = "noun"
		records[i].Gender = "das"
	}
	return records
}
