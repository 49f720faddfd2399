package handler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Already edited by another callback: acknowledge, don't send a new message
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		_ = c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// editOrSend edits the callback message in place, or sends a new one for commands
func (h *Handler) editOrSend(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup)
	}
	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	key := callback.Unique
	if key == "" {
		key = data
	}
	switch key {
	case btnLessons.Unique:
		return h.handleLessons(c)
	case btnTemplate.Unique:
		return h.handleTemplate(c)
	case btnNotes.Unique:
		return h.handleNotes(c)
	case btnMerge.Unique:
		return h.handleMerge(c)
	case btnAbort.Unique:
		return h.handleAbort(c)
	case btnMainMenu.Unique:
		return h.handleStart(c)
	}

	// Handle by Data prefix (dynamic buttons)
	switch {
	case strings.HasPrefix(data, "page_"):
		return h.handlePagination(c, data)
	case strings.HasPrefix(data, "lesson_"):
		return h.handleLessonSelection(c, data)
	}

	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleLessons shows the first page of the lesson catalog
func (h *Handler) handleLessons(c tele.Context) error {
	return h.showLessonsPage(c, 1)
}

// handlePagination handles page navigation
func (h *Handler) handlePagination(c tele.Context, data string) error {
	page, err := strconv.Atoi(strings.TrimPrefix(data, "page_"))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Invalid page"})
	}
	return h.showLessonsPage(c, page)
}

func (h *Handler) showLessonsPage(c tele.Context, page int) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	lessons, totalPages, err := h.lessonService.ListLessons(ctx, userID, page)
	if err != nil {
		h.logger.Error("Failed to list lessons", zap.Int64("user_id", userID), zap.Error(err))
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Failed to load lessons"})
		}
		return c.Send(errorMessage)
	}

	if len(lessons) == 0 {
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{
				Text:      "No lessons yet. Send a lesson file to import one.",
				ShowAlert: true,
			})
		}
		return c.Send("No lessons yet. Send a lesson file to import one.")
	}

	if page < 1 {
		page = 1
	}

	text := fmt.Sprintf("📚 Your lessons (page %d of %d):", page, totalPages)
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	for _, l := range lessons {
		btnText := fmt.Sprintf("%d. %s (%d)", l.Number, l.DisplayName(), l.TermCount)
		rows = append(rows, markup.Row(markup.Data(btnText, fmt.Sprintf("lesson_%d", l.Number))))
	}

	// Add pagination buttons
	if totalPages > 1 {
		navRow := tele.Row{}
		if page > 1 {
			navRow = append(navRow, markup.Data("⬅️", fmt.Sprintf("page_%d", page-1)))
		}
		if page < totalPages {
			navRow = append(navRow, markup.Data("➡️", fmt.Sprintf("page_%d", page+1)))
		}
		if len(navRow) > 0 {
			rows = append(rows, navRow)
		}
	}

	rows = append(rows, markup.Row(btnMainMenu))
	markup.Inline(rows...)

	return h.editOrSend(c, text, markup)
}

// handleLessonSelection shows the terms of the chosen lesson
func (h *Handler) handleLessonSelection(c tele.Context, data string) error {
	number, err := parseLessonArg(strings.TrimPrefix(data, "lesson_"))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Invalid lesson"})
	}

	text, ok := h.lessonText(c.Sender().ID, number)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: text})
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnLessons, btnMainMenu),
	)
	return h.editOrSend(c, text, markup)
}
