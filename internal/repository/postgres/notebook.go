package postgres

import (
	"context"
	"database/sql"

	"lessonbook/internal/domain"
)

// NotebookRepo implements repository.NotebookRepository.
// The general notebook has a NULL lesson_id; the unique index is on
// (owner_id, COALESCE(lesson_id, 0)) so it stays one row per owner.
type NotebookRepo struct {
	db *sql.DB
}

// NewNotebookRepo creates a new notebook repository
func NewNotebookRepo(db *sql.DB) *NotebookRepo {
	return &NotebookRepo{db: db}
}

// GetNotebook returns the notebook or nil if nothing was written yet
func (r *NotebookRepo) GetNotebook(ctx context.Context, ownerID int64, lessonID *int64) (*domain.Notebook, error) {
	var (
		n      domain.Notebook
		lesson sql.NullInt64
	)
	query := `
		SELECT id, owner_id, lesson_id, content, updated_at
		FROM notebooks
		WHERE owner_id = $1 AND COALESCE(lesson_id, 0) = COALESCE($2::BIGINT, 0)
	`
	err := r.db.QueryRowContext(ctx, query, ownerID, nullInt64(lessonID)).Scan(
		&n.ID, &n.OwnerID, &lesson, &n.Content, &n.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "notebook")
	}

	if lesson.Valid {
		n.LessonID = &lesson.Int64
	}
	return &n, nil
}

// SaveNotebook replaces the notebook content
func (r *NotebookRepo) SaveNotebook(ctx context.Context, ownerID int64, lessonID *int64, content string) error {
	query := `
		INSERT INTO notebooks (owner_id, lesson_id, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, (COALESCE(lesson_id, 0)))
		DO UPDATE SET content = EXCLUDED.content, updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, ownerID, nullInt64(lessonID), content)
	return mapError(err, "notebook")
}

// AppendNotebook adds a paragraph to the end of the notebook
func (r *NotebookRepo) AppendNotebook(ctx context.Context, ownerID int64, lessonID *int64, paragraph string) error {
	query := `
		INSERT INTO notebooks (owner_id, lesson_id, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, (COALESCE(lesson_id, 0)))
		DO UPDATE SET content = CASE
				WHEN notebooks.content = '' THEN EXCLUDED.content
				ELSE notebooks.content || E'\n\n' || EXCLUDED.content
			END,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, ownerID, nullInt64(lessonID), paragraph)
	return mapError(err, "notebook")
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
