package handler

import (
	"errors"
	"strings"

	"lessonbook/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	ctx, cancel := requestContext()
	defer cancel()

	// Ensure user exists
	if err := h.authService.EnsureUserExists(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return nil
	}

	// Check authorization first
	authorized, err := h.authService.IsAuthorized(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(errorMessage)
	}

	// If not authorized, check password
	if !authorized {
		if h.authService.CheckPassword(text) {
			if err := h.authService.AuthorizeUser(ctx, userID); err != nil {
				h.logger.Error("Failed to authorize user", zap.Error(err))
				return c.Send(errorMessage)
			}

			h.logger.Info("User authorized", zap.Int64("user_id", userID))
			h.ResetState(userID)
			return c.Send("✅ Access granted!\n\n"+mainMenuText, mainMenuMarkup())
		}

		return c.Send("Wrong password")
	}

	state := h.GetState(userID)

	switch state.State {
	case domain.StateWritingNote:
		if err := h.notebookService.AppendNote(ctx, userID, state.NoteLesson, text); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				h.ResetState(userID)
				return c.Send("That lesson no longer exists. Note mode closed.")
			}
			return c.Send("Could not save the note. Please try again.")
		}
		return c.Send("📝 Saved. Keep writing or send /done to finish.")

	case domain.StateConfirmConflict:
		return c.Send("Please choose Merge or Abort for the pending import first.", conflictMarkup())

	default:
		return c.Send("Send a lesson file to import it, /note to write notes or /start for the menu.")
	}
}
