package middleware

import (
	"context"
	"time"

	"lessonbook/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// PasswordPrompt is sent to users who have not unlocked the bot yet
const PasswordPrompt = "Hallo! This notebook is private. Please enter the password:"

const authTimeout = 5 * time.Second

// AuthMiddleware creates authentication middleware
func AuthMiddleware(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID

			ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
			defer cancel()

			// Ensure user exists
			if err := authService.EnsureUserExists(ctx, userID); err != nil {
				logger.Error("Failed to ensure user exists in middleware", zap.Error(err))
				return c.Send("Something went wrong. Please try again later.")
			}

			// Check authorization
			authorized, err := authService.IsAuthorized(ctx, userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return c.Send("Something went wrong. Please try again later.")
			}

			if !authorized {
				logger.Info("Rejected unauthorized update", zap.Int64("user_id", userID))
				if c.Callback() != nil {
					_ = c.Respond()
				}
				return c.Send(PasswordPrompt)
			}

			return next(c)
		}
	}
}
