package testutil

import (
	"context"

	"lessonbook/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockTermRepository is a mock for TermRepository
type MockTermRepository struct {
	mock.Mock
}

func (m *MockTermRepository) FindTermByGerman(ctx context.Context, ownerID int64, german string) (*domain.Term, error) {
	args := m.Called(ctx, ownerID, german)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Term), args.Error(1)
}

func (m *MockTermRepository) CreateTerm(ctx context.Context, term *domain.Term) (int64, error) {
	args := m.Called(ctx, term)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTermRepository) UpsertTranslation(ctx context.Context, tr domain.Translation) error {
	args := m.Called(ctx, tr)
	return args.Error(0)
}

func (m *MockTermRepository) ListTranslations(ctx context.Context, termID int64) (map[domain.Language]string, error) {
	args := m.Called(ctx, termID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Language]string), args.Error(1)
}

// MockLessonRepository is a mock for LessonRepository
type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) FindLessonByNumber(ctx context.Context, ownerID int64, number int) (*domain.Lesson, error) {
	args := m.Called(ctx, ownerID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockLessonRepository) CreateLesson(ctx context.Context, lesson *domain.Lesson) (int64, error) {
	args := m.Called(ctx, lesson)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLessonRepository) UpdateLessonMeta(ctx context.Context, lessonID int64, name *string, topics []string) error {
	args := m.Called(ctx, lessonID, name, topics)
	return args.Error(0)
}

func (m *MockLessonRepository) UpsertLessonTerm(ctx context.Context, link domain.LessonTerm) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockLessonRepository) ListLessons(ctx context.Context, ownerID int64, limit, offset int) ([]domain.LessonSummary, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LessonSummary), args.Error(1)
}

func (m *MockLessonRepository) CountLessons(ctx context.Context, ownerID int64) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockLessonRepository) ListLessonEntries(ctx context.Context, lessonID int64) ([]domain.LessonEntry, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LessonEntry), args.Error(1)
}

func (m *MockLessonRepository) RenameLesson(ctx context.Context, ownerID int64, number int, name string) error {
	args := m.Called(ctx, ownerID, number, name)
	return args.Error(0)
}

func (m *MockLessonRepository) DeleteLesson(ctx context.Context, ownerID int64, number int) error {
	args := m.Called(ctx, ownerID, number)
	return args.Error(0)
}

// MockNotebookRepository is a mock for NotebookRepository
type MockNotebookRepository struct {
	mock.Mock
}

func (m *MockNotebookRepository) GetNotebook(ctx context.Context, ownerID int64, lessonID *int64) (*domain.Notebook, error) {
	args := m.Called(ctx, ownerID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notebook), args.Error(1)
}

func (m *MockNotebookRepository) SaveNotebook(ctx context.Context, ownerID int64, lessonID *int64, content string) error {
	args := m.Called(ctx, ownerID, lessonID, content)
	return args.Error(0)
}

func (m *MockNotebookRepository) AppendNotebook(ctx context.Context, ownerID int64, lessonID *int64, paragraph string) error {
	args := m.Called(ctx, ownerID, lessonID, paragraph)
	return args.Error(0)
}
