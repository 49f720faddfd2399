package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.authService.EnsureUserExists(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(errorMessage)
	}

	// Check if authorized
	authorized, err := h.authService.IsAuthorized(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(errorMessage)
	}

	h.ResetState(userID)

	if !authorized {
		return c.Send(passwordPrompt)
	}

	if c.Callback() != nil {
		if err := c.Edit(mainMenuText, mainMenuMarkup()); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send(mainMenuText, mainMenuMarkup())
		}
		return c.Respond()
	}
	return c.Send(mainMenuText, mainMenuMarkup())
}
