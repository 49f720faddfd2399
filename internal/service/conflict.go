package service

import (
	"context"
	"fmt"
	"strings"

	"lessonbook/internal/domain"
	"lessonbook/internal/repository"
)

// ConflictService detects imports that target an existing lesson number
type ConflictService struct {
	lessonRepo repository.LessonRepository
}

// NewConflictService creates a new conflict service
func NewConflictService(lessonRepo repository.LessonRepository) *ConflictService {
	return &ConflictService{lessonRepo: lessonRepo}
}

// CheckLessonConflict returns the existing lesson with this number, or nil
func (s *ConflictService) CheckLessonConflict(ctx context.Context, ownerID int64, lessonNumber int) (*domain.Lesson, error) {
	lesson, err := s.lessonRepo.FindLessonByNumber(ctx, ownerID, lessonNumber)
	if err != nil {
		return nil, fmt.Errorf("check lesson %d: %w", lessonNumber, err)
	}
	return lesson, nil
}

// FormatConflictMessage compares the stored lesson with the incoming metadata
// and asks whether to merge into it or stop.
func FormatConflictMessage(lessonNumber int, existing *domain.Lesson, newName string, newTopics []string) string {
	fallback := domain.DefaultLessonName(lessonNumber)

	existingName, existingTopics := fallback, "None"
	if existing != nil {
		if existing.Name != "" {
			existingName = existing.Name
		}
		existingTopics = joinTopics(existing.Topics)
	}
	if newName == "" {
		newName = fallback
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Lesson %d already exists!\n\n", lessonNumber)
	b.WriteString("EXISTING LESSON:\n")
	fmt.Fprintf(&b, "Name: %s\n", existingName)
	fmt.Fprintf(&b, "Topics: %s\n\n", existingTopics)
	b.WriteString("NEW IMPORT:\n")
	fmt.Fprintf(&b, "Name: %s\n", newName)
	fmt.Fprintf(&b, "Topics: %s\n\n", joinTopics(newTopics))
	b.WriteString("Merge: add new terms to the existing lesson and update its name and topics\n")
	b.WriteString("Abort: stop the import without changes")
	return b.String()
}

func joinTopics(topics []string) string {
	if len(topics) == 0 {
		return "None"
	}
	return strings.Join(topics, ", ")
}
