package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"lessonbook/internal/domain"
)

// TermRepo implements repository.TermRepository
type TermRepo struct {
	db *sql.DB
}

// NewTermRepo creates a new term repository
func NewTermRepo(db *sql.DB) *TermRepo {
	return &TermRepo{db: db}
}

// FindTermByGerman looks a term up by its exact german text
func (r *TermRepo) FindTermByGerman(ctx context.Context, ownerID int64, german string) (*domain.Term, error) {
	var (
		t        domain.Term
		ipa      sql.NullString
		audioURL sql.NullString
	)
	query := `
		SELECT id, owner_id, german, part_of_speech, gender, ipa, audio_url, created_at
		FROM terms
		WHERE owner_id = $1 AND german = $2
	`
	err := r.db.QueryRowContext(ctx, query, ownerID, german).Scan(
		&t.ID, &t.OwnerID, &t.German, &t.Part, &t.Gender, &ipa, &audioURL, &t.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("term %q", german))
	}

	t.IPA = ipa.String
	t.AudioURL = audioURL.String
	return &t, nil
}

// CreateTerm inserts a term and returns its id
func (r *TermRepo) CreateTerm(ctx context.Context, term *domain.Term) (int64, error) {
	var id int64
	query := `
		INSERT INTO terms (owner_id, german, part_of_speech, gender, ipa, audio_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		term.OwnerID, term.German, string(term.Part), string(term.Gender),
		nullString(term.IPA), nullString(term.AudioURL),
	).Scan(&id)
	if err != nil {
		return 0, mapError(err, fmt.Sprintf("term %q", term.German))
	}
	return id, nil
}

// UpsertTranslation inserts a translation or overwrites its text
func (r *TermRepo) UpsertTranslation(ctx context.Context, tr domain.Translation) error {
	query := `
		INSERT INTO term_translations (term_id, lang, text)
		VALUES ($1, $2, $3)
		ON CONFLICT (term_id, lang)
		DO UPDATE SET text = EXCLUDED.text
	`
	_, err := r.db.ExecContext(ctx, query, tr.TermID, string(tr.Language), tr.Text)
	return mapError(err, fmt.Sprintf("translation %s", tr.Language))
}

// ListTranslations returns the translations of a term keyed by language
func (r *TermRepo) ListTranslations(ctx context.Context, termID int64) (map[domain.Language]string, error) {
	query := `SELECT lang, text FROM term_translations WHERE term_id = $1`
	rows, err := r.db.QueryContext(ctx, query, termID)
	if err != nil {
		return nil, mapError(err, "translations")
	}
	defer rows.Close()

	out := make(map[domain.Language]string)
	for rows.Next() {
		var lang, text string
		if err := rows.Scan(&lang, &text); err != nil {
			return nil, err
		}
		out[domain.Language(lang)] = text
	}

	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
