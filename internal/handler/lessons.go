package handler

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"lessonbook/internal/domain"
	"lessonbook/internal/parser"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// commandArgs returns the words after a command; callbacks carry none
func commandArgs(c tele.Context) []string {
	if c.Callback() != nil || c.Message() == nil {
		return nil
	}
	return strings.Fields(c.Message().Payload)
}

// optionalLesson reads "[N]"; no argument means general notes
func optionalLesson(args []string) (*int, error) {
	if len(args) == 0 {
		return nil, nil
	}
	n, err := parseLessonArg(args[0])
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// lessonText renders a lesson; when ok is false the text is the reason to show instead
func (h *Handler) lessonText(userID int64, number int) (text string, ok bool) {
	ctx, cancel := requestContext()
	defer cancel()

	lesson, entries, err := h.lessonService.GetLessonTerms(ctx, userID, number)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Sprintf("Lesson %d not found", number), false
	}
	if err != nil {
		h.logger.Error("Failed to load lesson", zap.Int64("user_id", userID), zap.Int("lesson_number", number), zap.Error(err))
		return "Failed to load the lesson", false
	}
	return truncate(formatLesson(lesson, entries)), true
}

// handleLesson handles /lesson N
func (h *Handler) handleLesson(c tele.Context) error {
	args := commandArgs(c)
	if len(args) != 1 {
		return c.Send("Usage: /lesson N")
	}
	number, err := parseLessonArg(args[0])
	if err != nil {
		return c.Send(err.Error())
	}

	text, _ := h.lessonText(c.Sender().ID, number)
	return c.Send(text)
}

// handleRename handles /rename N new name
func (h *Handler) handleRename(c tele.Context) error {
	userID := c.Sender().ID
	parts := strings.SplitN(strings.TrimSpace(c.Message().Payload), " ", 2)
	if len(parts) != 2 {
		return c.Send("Usage: /rename N new name")
	}
	number, err := parseLessonArg(parts[0])
	if err != nil {
		return c.Send(err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	err = h.lessonService.RenameLesson(ctx, userID, number, parts[1])
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Send("The new name cannot be empty")
	case errors.Is(err, domain.ErrNotFound):
		return c.Send(fmt.Sprintf("Lesson %d not found", number))
	case err != nil:
		h.logger.Error("Failed to rename lesson", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(errorMessage)
	}
	return c.Send(fmt.Sprintf("✅ Lesson %d renamed", number))
}

// handleDelete handles /delete N
func (h *Handler) handleDelete(c tele.Context) error {
	userID := c.Sender().ID
	args := commandArgs(c)
	if len(args) != 1 {
		return c.Send("Usage: /delete N")
	}
	number, err := parseLessonArg(args[0])
	if err != nil {
		return c.Send(err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	err = h.lessonService.DeleteLesson(ctx, userID, number)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Send(fmt.Sprintf("Lesson %d not found", number))
	}
	if err != nil {
		h.logger.Error("Failed to delete lesson", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(errorMessage)
	}

	h.logger.Info("Lesson deleted", zap.Int64("user_id", userID), zap.Int("lesson_number", number))
	return c.Send(fmt.Sprintf("🗑 Lesson %d deleted. Its terms stay in your vocabulary.", number))
}

// handleTemplate sends the CSV import template
func (h *Handler) handleTemplate(c tele.Context) error {
	if c.Callback() != nil {
		_ = c.Respond()
	}
	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(parser.CSVTemplate())),
		FileName: parser.TemplateFilename,
		Caption:  "Fill in one lesson per file and send it back to import.",
	}
	return c.Send(doc)
}

// handleNote enters note mode for lesson N or the general notebook
func (h *Handler) handleNote(c tele.Context) error {
	userID := c.Sender().ID
	lesson, err := optionalLesson(commandArgs(c))
	if err != nil {
		return c.Send(err.Error())
	}

	if lesson != nil {
		ctx, cancel := requestContext()
		defer cancel()
		if _, _, err := h.lessonService.GetLessonTerms(ctx, userID, *lesson); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.Send(fmt.Sprintf("Lesson %d not found", *lesson))
			}
			h.logger.Error("Failed to check lesson", zap.Int64("user_id", userID), zap.Error(err))
			return c.Send(errorMessage)
		}
	}

	h.SetState(userID, &domain.StateData{State: domain.StateWritingNote, NoteLesson: lesson})

	target := "general notes"
	if lesson != nil {
		target = fmt.Sprintf("lesson %d", *lesson)
	}
	return c.Send(fmt.Sprintf("📝 Writing notes for %s. Every message is saved right away. Send /done to finish.", target))
}

// handleNotes shows the notebook for lesson N or the general notebook
func (h *Handler) handleNotes(c tele.Context) error {
	userID := c.Sender().ID
	if c.Callback() != nil {
		_ = c.Respond()
	}

	lesson, err := optionalLesson(commandArgs(c))
	if err != nil {
		return c.Send(err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	content, err := h.notebookService.GetNotebook(ctx, userID, lesson)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Send(fmt.Sprintf("Lesson %d not found", *lesson))
	}
	if err != nil {
		h.logger.Error("Failed to load notebook", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(errorMessage)
	}

	if content == "" {
		return c.Send("The notebook is empty. Use /note to start writing.")
	}
	return c.Send(truncate(content))
}

// handleDone leaves note mode
func (h *Handler) handleDone(c tele.Context) error {
	userID := c.Sender().ID
	if h.GetState(userID).State != domain.StateWritingNote {
		return c.Send("Nothing to finish.")
	}
	h.ResetState(userID)
	return c.Send("✅ Notes saved.", mainMenuMarkup())
}
