package handler

import (
	"errors"
	"fmt"
	"io"

	"lessonbook/internal/domain"
	"lessonbook/internal/parser"
	"lessonbook/internal/service"
	"lessonbook/internal/validator"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleDocument imports an uploaded lesson file
func (h *Handler) handleDocument(c tele.Context) error {
	userID := c.Sender().ID
	doc := c.Message().Document
	if doc == nil {
		return nil
	}

	log := h.logger.With(
		zap.Int64("user_id", userID),
		zap.String("file_name", doc.FileName),
		zap.Int64("file_size", doc.FileSize),
	)

	format, err := parser.DetectFormat(doc.FileName)
	if err != nil {
		return c.Send(fmt.Sprintf("❌ %v", err))
	}
	if doc.FileSize > h.maxImportBytes {
		return c.Send(fmt.Sprintf("❌ The file is too large (limit %d KB)", h.maxImportBytes/1024))
	}

	raw, err := h.download(&doc.File)
	if err != nil {
		log.Error("Failed to download lesson file", zap.Error(err))
		return c.Send("❌ Could not download the file. Please try again.")
	}

	batch, err := parser.Parse(raw, format)
	if err != nil {
		var failure *parser.ParseFailure
		if errors.As(err, &failure) {
			log.Info("Lesson file could not be parsed", zap.String("kind", string(failure.Kind)))
			return c.Send(truncate(formatErrors("❌ The file could not be read", failure.Errors)))
		}
		log.Error("Failed to parse lesson file", zap.Error(err))
		return c.Send(errorMessage)
	}

	if v := validator.Validate(batch); !v.Valid {
		log.Info("Lesson file failed validation", zap.Int("errors", len(v.Errors)))
		return c.Send(truncate(formatErrors("❌ Validation failed", v.Errors)))
	}

	ctx, cancel := requestContext()
	defer cancel()

	existing, err := h.conflictService.CheckLessonConflict(ctx, userID, batch.Meta.Number)
	if err != nil {
		log.Error("Failed to check lesson conflict", zap.Error(err))
		return c.Send(errorMessage)
	}
	if existing != nil {
		h.SetState(userID, &domain.StateData{
			State:         domain.StateConfirmConflict,
			PendingImport: batch,
		})
		msg := service.FormatConflictMessage(batch.Meta.Number, existing, batch.Meta.Name, batch.Meta.Topics)
		return c.Send(msg, conflictMarkup())
	}

	return h.runImport(c, batch)
}

// download reads a Telegram file, refusing anything over the size limit
func (h *Handler) download(file *tele.File) ([]byte, error) {
	rc, err := h.bot.File(file)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, h.maxImportBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > h.maxImportBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", h.maxImportBytes)
	}
	return raw, nil
}

// handleMerge imports the pending batch into the existing lesson
func (h *Handler) handleMerge(c tele.Context) error {
	batch := h.takePendingImport(c.Sender().ID)
	if batch == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Nothing to merge"})
	}
	_ = c.Respond()
	return h.runImport(c, batch)
}

// handleAbort drops the pending batch without writing anything
func (h *Handler) handleAbort(c tele.Context) error {
	batch := h.takePendingImport(c.Sender().ID)
	if batch == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Nothing to abort"})
	}

	h.logger.Info("Import aborted on conflict",
		zap.Int64("user_id", c.Sender().ID),
		zap.Int("lesson_number", batch.Meta.Number),
	)
	return h.editOrSend(c, fmt.Sprintf("Import of lesson %d aborted. Nothing was changed.", batch.Meta.Number), mainMenuMarkup())
}

func (h *Handler) runImport(c tele.Context, batch *domain.ParsedBatch) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	result, err := h.importService.ImportParsed(ctx, userID, batch)
	if err != nil {
		if result != nil && len(result.Errors) > 0 {
			return c.Send(truncate(formatErrors("❌ Import failed", result.Errors)))
		}
		h.logger.Error("Import failed", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(errorMessage)
	}
	return c.Send(truncate(formatImportResult(result)))
}
