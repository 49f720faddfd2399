package service

import (
	"context"
	"fmt"
	"strings"

	"lessonbook/internal/domain"
	"lessonbook/internal/repository"

	"go.uber.org/zap"
)

// NotebookService keeps free-form notes, one notebook per lesson plus a
// general one (lessonNumber nil).
type NotebookService struct {
	notebookRepo repository.NotebookRepository
	lessonRepo   repository.LessonRepository
	logger       *zap.Logger
}

// NewNotebookService creates a new notebook service
func NewNotebookService(notebookRepo repository.NotebookRepository, lessonRepo repository.LessonRepository, logger *zap.Logger) *NotebookService {
	return &NotebookService{
		notebookRepo: notebookRepo,
		lessonRepo:   lessonRepo,
		logger:       logger,
	}
}

// GetNotebook returns the notebook content, empty if nothing was written
func (s *NotebookService) GetNotebook(ctx context.Context, ownerID int64, lessonNumber *int) (string, error) {
	lessonID, err := s.lessonID(ctx, ownerID, lessonNumber)
	if err != nil {
		return "", err
	}

	nb, err := s.notebookRepo.GetNotebook(ctx, ownerID, lessonID)
	if err != nil {
		return "", err
	}
	if nb == nil {
		return "", nil
	}
	return nb.Content, nil
}

// AppendNote saves a fragment as a new paragraph right away
func (s *NotebookService) AppendNote(ctx context.Context, ownerID int64, lessonNumber *int, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("note cannot be empty: %w", domain.ErrValidation)
	}

	lessonID, err := s.lessonID(ctx, ownerID, lessonNumber)
	if err != nil {
		return err
	}

	if err := s.notebookRepo.AppendNotebook(ctx, ownerID, lessonID, text); err != nil {
		s.logger.Error("Failed to autosave note", zap.Int64("user_id", ownerID), zap.Error(err))
		return err
	}
	return nil
}

// SaveNotebook replaces the notebook content
func (s *NotebookService) SaveNotebook(ctx context.Context, ownerID int64, lessonNumber *int, content string) error {
	lessonID, err := s.lessonID(ctx, ownerID, lessonNumber)
	if err != nil {
		return err
	}
	return s.notebookRepo.SaveNotebook(ctx, ownerID, lessonID, content)
}

func (s *NotebookService) lessonID(ctx context.Context, ownerID int64, lessonNumber *int) (*int64, error) {
	if lessonNumber == nil {
		return nil, nil
	}
	lesson, err := s.lessonRepo.FindLessonByNumber(ctx, ownerID, *lessonNumber)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, fmt.Errorf("lesson %d: %w", *lessonNumber, domain.ErrNotFound)
	}
	return &lesson.ID, nil
}
