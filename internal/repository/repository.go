package repository

import (
	"context"

	"lessonbook/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(ctx context.Context, userID int64) (bool, error)
	AuthorizeUser(ctx context.Context, userID int64) error
	EnsureUserExists(ctx context.Context, userID int64) error
}

// TermRepository defines the per-user vocabulary store.
// FindTermByGerman returns nil, nil when no term matches.
// CreateTerm returns domain.ErrAlreadyExists when (owner, german) is taken.
type TermRepository interface {
	FindTermByGerman(ctx context.Context, ownerID int64, german string) (*domain.Term, error)
	CreateTerm(ctx context.Context, term *domain.Term) (int64, error)
	UpsertTranslation(ctx context.Context, tr domain.Translation) error
	ListTranslations(ctx context.Context, termID int64) (map[domain.Language]string, error)
}

// LessonRepository defines lesson and lesson-term link operations.
// FindLessonByNumber returns nil, nil when no lesson matches.
// UpdateLessonMeta leaves name or topics untouched when they are nil.
type LessonRepository interface {
	FindLessonByNumber(ctx context.Context, ownerID int64, number int) (*domain.Lesson, error)
	CreateLesson(ctx context.Context, lesson *domain.Lesson) (int64, error)
	UpdateLessonMeta(ctx context.Context, lessonID int64, name *string, topics []string) error
	UpsertLessonTerm(ctx context.Context, link domain.LessonTerm) error
	ListLessons(ctx context.Context, ownerID int64, limit, offset int) ([]domain.LessonSummary, error)
	CountLessons(ctx context.Context, ownerID int64) (int, error)
	ListLessonEntries(ctx context.Context, lessonID int64) ([]domain.LessonEntry, error)
	RenameLesson(ctx context.Context, ownerID int64, number int, name string) error
	DeleteLesson(ctx context.Context, ownerID int64, number int) error
}

// NotebookRepository defines note storage, one notebook per (owner, lesson).
// A nil lessonID addresses the owner's general notebook.
type NotebookRepository interface {
	GetNotebook(ctx context.Context, ownerID int64, lessonID *int64) (*domain.Notebook, error)
	SaveNotebook(ctx context.Context, ownerID int64, lessonID *int64, content string) error
	AppendNotebook(ctx context.Context, ownerID int64, lessonID *int64, paragraph string) error
}
