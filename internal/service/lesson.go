package service

import (
	"context"
	"fmt"
	"strings"

	"lessonbook/internal/domain"
	"lessonbook/internal/repository"
)

// LessonsPageSize is how many lessons one page of the catalog shows
const LessonsPageSize = 7

// LessonService handles the lesson catalog
type LessonService struct {
	lessonRepo repository.LessonRepository
}

// NewLessonService creates a new lesson service
func NewLessonService(lessonRepo repository.LessonRepository) *LessonService {
	return &LessonService{lessonRepo: lessonRepo}
}

// ListLessons returns paginated list of lessons with term counts
func (s *LessonService) ListLessons(ctx context.Context, ownerID int64, page int) ([]domain.LessonSummary, int, error) {
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * LessonsPageSize
	lessons, err := s.lessonRepo.ListLessons(ctx, ownerID, LessonsPageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	// Calculate total pages
	total, err := s.lessonRepo.CountLessons(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}

	totalPages := (total + LessonsPageSize - 1) / LessonsPageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return lessons, totalPages, nil
}

// GetLessonTerms returns the lesson and its terms in display order
func (s *LessonService) GetLessonTerms(ctx context.Context, ownerID int64, number int) (*domain.Lesson, []domain.LessonEntry, error) {
	lesson, err := s.lessonRepo.FindLessonByNumber(ctx, ownerID, number)
	if err != nil {
		return nil, nil, err
	}
	if lesson == nil {
		return nil, nil, fmt.Errorf("lesson %d: %w", number, domain.ErrNotFound)
	}

	entries, err := s.lessonRepo.ListLessonEntries(ctx, lesson.ID)
	if err != nil {
		return nil, nil, err
	}
	return lesson, entries, nil
}

// RenameLesson changes the display name of a lesson
func (s *LessonService) RenameLesson(ctx context.Context, ownerID int64, number int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("lesson name cannot be empty: %w", domain.ErrValidation)
	}
	return s.lessonRepo.RenameLesson(ctx, ownerID, number, name)
}

// DeleteLesson removes a lesson and its links; the terms themselves stay
func (s *LessonService) DeleteLesson(ctx context.Context, ownerID int64, number int) error {
	return s.lessonRepo.DeleteLesson(ctx, ownerID, number)
}
