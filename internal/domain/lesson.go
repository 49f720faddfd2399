package domain

import (
	"fmt"
	"time"
)

// Lesson groups terms under a number that is unique per owner
type Lesson struct {
	ID        int64
	OwnerID   int64
	Number    int
	Name      string
	Topics    []string
	CreatedAt time.Time
}

// DisplayName returns the lesson name or the "Lesson N" default
func (l Lesson) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return DefaultLessonName(l.Number)
}

// DefaultLessonName is the name given to lessons created without one
func DefaultLessonName(number int) string {
	return fmt.Sprintf("Lesson %d", number)
}

// LessonTerm links a term into a lesson. Identity is (LessonID, TermID).
type LessonTerm struct {
	LessonID    int64
	TermID      int64
	Category    string
	Subcategory string
	OrderIndex  int
}

// LessonSummary is a lesson with its linked term count
type LessonSummary struct {
	Lesson
	TermCount int
}

// LessonEntry is one term as shown inside a lesson
type LessonEntry struct {
	Term         Term
	Category     string
	Subcategory  string
	OrderIndex   int
	Translations map[Language]string
}

// Notebook holds free-form notes for an owner, optionally tied to a lesson
type Notebook struct {
	ID        int64
	OwnerID   int64
	LessonID  *int64
	Content   string
	UpdatedAt time.Time
}
