package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lessonbook/internal/domain"
	"lessonbook/internal/metrics"
	"lessonbook/internal/repository"
	"lessonbook/internal/validator"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultMaxRetries = 3

// ImportService resolves lessons and de-duplicates terms for lesson imports
type ImportService struct {
	termRepo   repository.TermRepository
	lessonRepo repository.LessonRepository
	logger     *zap.Logger

	newBackOff func() backoff.BackOff
	maxRetries uint64
}

// ImportOption customizes an ImportService
type ImportOption func(*ImportService)

// WithBackOff replaces the retry delay policy used for transient store errors
func WithBackOff(newBackOff func() backoff.BackOff) ImportOption {
	return func(s *ImportService) {
		s.newBackOff = newBackOff
	}
}

// WithMaxRetries sets how many times a transient store error is retried
func WithMaxRetries(n uint64) ImportOption {
	return func(s *ImportService) {
		s.maxRetries = n
	}
}

// NewImportService creates a new import service
func NewImportService(termRepo repository.TermRepository, lessonRepo repository.LessonRepository, logger *zap.Logger, opts ...ImportOption) *ImportService {
	s := &ImportService{
		termRepo:   termRepo,
		lessonRepo: lessonRepo,
		logger:     logger,
		newBackOff: defaultBackOff,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	return b
}

// ImportParsed validates a parsed batch and imports it.
// An invalid batch is refused with domain.ErrValidation and nothing is written.
func (s *ImportService) ImportParsed(ctx context.Context, ownerID int64, batch *domain.ParsedBatch) (*domain.ImportResult, error) {
	if batch == nil {
		return nil, fmt.Errorf("empty batch: %w", domain.ErrValidation)
	}

	validation := validator.Validate(batch)
	if !validation.Valid {
		metrics.ObserveImport(string(batch.Format), metrics.OutcomeInvalid, 0)
		s.logger.Info("Import refused by validation",
			zap.Int64("user_id", ownerID),
			zap.String("format", string(batch.Format)),
			zap.Int("errors", len(validation.Errors)),
		)
		return &domain.ImportResult{
			LessonNumber: batch.Meta.Number,
			Errors:       validation.Errors,
		}, fmt.Errorf("batch has %d problems: %w", len(validation.Errors), domain.ErrValidation)
	}

	return s.importBatch(ctx, string(batch.Format), ownerID, batch.Meta, batch.Terms)
}

// ImportBatch writes a batch of records under the lesson described by meta.
// Records are processed in order and each one succeeds or fails on its own;
// their failures are listed in the result. A lesson that cannot be resolved
// fails the whole call: the result then carries a single error and the
// returned error is non-nil.
func (s *ImportService) ImportBatch(ctx context.Context, ownerID int64, meta domain.LessonMeta, terms []domain.RawTermRecord) (*domain.ImportResult, error) {
	return s.importBatch(ctx, "", ownerID, meta, terms)
}

func (s *ImportService) importBatch(ctx context.Context, format string, ownerID int64, meta domain.LessonMeta, terms []domain.RawTermRecord) (*domain.ImportResult, error) {
	started := time.Now()
	log := s.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.Int64("user_id", ownerID),
		zap.Int("lesson_number", meta.Number),
	)
	log.Info("Import started", zap.Int("records", len(terms)))

	result := &domain.ImportResult{LessonNumber: meta.Number}

	lessonID, err := s.resolveLesson(ctx, ownerID, meta)
	if err != nil {
		log.Error("Failed to resolve lesson", zap.Error(err))
		metrics.ObserveImport(format, metrics.OutcomeFailed, time.Since(started))
		result.Errors = []domain.RowError{domain.NewError(fmt.Sprintf("Failed to resolve lesson %d: %v", meta.Number, err))}
		return result, fmt.Errorf("resolve lesson %d: %w", meta.Number, err)
	}

	for position, rec := range terms {
		created, err := s.importRecord(ctx, ownerID, lessonID, position, rec)
		if err != nil {
			log.Warn("Failed to import record",
				zap.Int("row", rec.Row),
				zap.String("german", rec.German),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, domain.NewRowError(rec.Row, err.Error()))
			continue
		}
		if created {
			result.NewTermsCount++
		} else {
			result.ReusedTermsCount++
		}
	}

	result.Success = len(result.Errors) == 0

	outcome := metrics.OutcomeSuccess
	if !result.Success {
		outcome = metrics.OutcomePartial
	}
	metrics.ObserveImport(format, outcome, time.Since(started))
	metrics.AddTerms(result.NewTermsCount, result.ReusedTermsCount)
	metrics.AddRecordErrors(len(result.Errors))

	log.Info("Import finished",
		zap.Int("new_terms", result.NewTermsCount),
		zap.Int("reused_terms", result.ReusedTermsCount),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return result, nil
}

// resolveLesson finds the lesson by number, refreshing its metadata when the
// batch supplies any, or creates it.
func (s *ImportService) resolveLesson(ctx context.Context, ownerID int64, meta domain.LessonMeta) (int64, error) {
	if !meta.NumberPresent || meta.Number < 1 {
		return 0, fmt.Errorf("lesson number must be a positive integer: %w", domain.ErrValidation)
	}

	lesson, err := retry(ctx, s, "find lesson", func() (*domain.Lesson, error) {
		return s.lessonRepo.FindLessonByNumber(ctx, ownerID, meta.Number)
	})
	if err != nil {
		return 0, err
	}

	name := strings.TrimSpace(meta.Name)

	if lesson != nil {
		var namePtr *string
		if name != "" {
			namePtr = &name
		}
		var topics []string
		if meta.TopicsPresent {
			topics = append([]string{}, meta.Topics...)
		}
		if namePtr != nil || topics != nil {
			_, err := retry(ctx, s, "update lesson", func() (struct{}, error) {
				return struct{}{}, s.lessonRepo.UpdateLessonMeta(ctx, lesson.ID, namePtr, topics)
			})
			if err != nil {
				return 0, err
			}
		}
		return lesson.ID, nil
	}

	if name == "" {
		name = domain.DefaultLessonName(meta.Number)
	}
	topics := append([]string{}, meta.Topics...)

	id, err := retry(ctx, s, "create lesson", func() (int64, error) {
		return s.lessonRepo.CreateLesson(ctx, &domain.Lesson{
			OwnerID: ownerID,
			Number:  meta.Number,
			Name:    name,
			Topics:  topics,
		})
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		// created concurrently; use that one
		lesson, err = s.lessonRepo.FindLessonByNumber(ctx, ownerID, meta.Number)
		if err != nil {
			return 0, err
		}
		if lesson == nil {
			return 0, fmt.Errorf("lesson %d vanished after conflict: %w", meta.Number, domain.ErrNotFound)
		}
		return lesson.ID, nil
	}
	return id, err
}

// importRecord resolves or creates the term, upserts its translations and
// links it to the lesson at the given position. It reports whether the term
// was newly created.
func (s *ImportService) importRecord(ctx context.Context, ownerID, lessonID int64, position int, rec domain.RawTermRecord) (bool, error) {
	german := strings.TrimSpace(rec.German)
	if german == "" {
		return false, fmt.Errorf("german text is empty: %w", domain.ErrValidation)
	}

	termID, created, err := s.resolveTerm(ctx, ownerID, german, rec)
	if err != nil {
		return false, err
	}

	for _, lang := range domain.Languages {
		text := strings.TrimSpace(rec.Translations[lang])
		if text == "" {
			continue
		}
		tr := domain.Translation{TermID: termID, Language: lang, Text: text}
		_, err := retry(ctx, s, "upsert translation", func() (struct{}, error) {
			return struct{}{}, s.termRepo.UpsertTranslation(ctx, tr)
		})
		if err != nil {
			return false, fmt.Errorf("save %s translation of %q: %w", lang, german, err)
		}
	}

	link := domain.LessonTerm{
		LessonID:    lessonID,
		TermID:      termID,
		Category:    strings.TrimSpace(rec.Category),
		Subcategory: strings.TrimSpace(rec.Subcategory),
		OrderIndex:  position,
	}
	_, err = retry(ctx, s, "link term", func() (struct{}, error) {
		return struct{}{}, s.lessonRepo.UpsertLessonTerm(ctx, link)
	})
	if err != nil {
		return false, fmt.Errorf("link %q to lesson: %w", german, err)
	}

	return created, nil
}

// resolveTerm returns the id of the owner's term with this german text,
// creating it when absent. Existing terms are never modified.
func (s *ImportService) resolveTerm(ctx context.Context, ownerID int64, german string, rec domain.RawTermRecord) (int64, bool, error) {
	find := func() (*domain.Term, error) {
		return s.termRepo.FindTermByGerman(ctx, ownerID, german)
	}

	existing, err := retry(ctx, s, "find term", find)
	if err != nil {
		return 0, false, fmt.Errorf("look up %q: %w", german, err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	part, err := domain.NormalizePart(rec.Part)
	if err != nil {
		return 0, false, err
	}
	gender, err := domain.NormalizeGender(rec.Gender)
	if err != nil {
		return 0, false, err
	}

	term := &domain.Term{
		OwnerID:  ownerID,
		German:   german,
		Part:     part,
		Gender:   gender,
		IPA:      strings.TrimSpace(rec.IPA),
		AudioURL: strings.TrimSpace(rec.AudioURL),
	}
	id, err := retry(ctx, s, "create term", func() (int64, error) {
		return s.termRepo.CreateTerm(ctx, term)
	})

	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		// lost a race on (owner_id, german): reread and reuse
		existing, err = retry(ctx, s, "find term", find)
		if err != nil {
			return 0, false, fmt.Errorf("look up %q: %w", german, err)
		}
		if existing == nil {
			return 0, false, fmt.Errorf("term %q reported as duplicate but not found: %w", german, domain.ErrNotFound)
		}
		return existing.ID, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("create term %q: %w", german, err)
	}

	return id, true, nil
}

// retry runs fn again on transient store errors using the service's policy.
// Any other error stops immediately.
func retry[T any](ctx context.Context, s *ImportService, op string, fn func() (T, error)) (T, error) {
	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), s.maxRetries), ctx)

	return backoff.RetryNotifyWithData(func() (T, error) {
		v, err := fn()
		if err != nil && !errors.Is(err, domain.ErrTransient) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, policy, func(err error, wait time.Duration) {
		s.logger.Warn("Transient store error, retrying",
			zap.String("op", op),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
}
