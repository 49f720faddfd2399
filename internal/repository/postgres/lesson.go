package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"lessonbook/internal/domain"

	"github.com/lib/pq"
)

// LessonRepo implements repository.LessonRepository
type LessonRepo struct {
	db *sql.DB
}

// NewLessonRepo creates a new lesson repository
func NewLessonRepo(db *sql.DB) *LessonRepo {
	return &LessonRepo{db: db}
}

// FindLessonByNumber returns the owner's lesson with the given number
func (r *LessonRepo) FindLessonByNumber(ctx context.Context, ownerID int64, number int) (*domain.Lesson, error) {
	var (
		l    domain.Lesson
		name sql.NullString
	)
	query := `
		SELECT id, owner_id, lesson_number, lesson_name, topics, created_at
		FROM lessons
		WHERE owner_id = $1 AND lesson_number = $2
	`
	err := r.db.QueryRowContext(ctx, query, ownerID, number).Scan(
		&l.ID, &l.OwnerID, &l.Number, &name, pq.Array(&l.Topics), &l.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("lesson %d", number))
	}

	l.Name = name.String
	return &l, nil
}

// CreateLesson inserts a lesson and returns its id
func (r *LessonRepo) CreateLesson(ctx context.Context, lesson *domain.Lesson) (int64, error) {
	topics := lesson.Topics
	if topics == nil {
		topics = []string{}
	}

	var id int64
	query := `
		INSERT INTO lessons (owner_id, lesson_number, lesson_name, topics)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		lesson.OwnerID, lesson.Number, nullString(lesson.Name), pq.Array(topics),
	).Scan(&id)
	if err != nil {
		return 0, mapError(err, fmt.Sprintf("lesson %d", lesson.Number))
	}
	return id, nil
}

// UpdateLessonMeta overwrites name and topics; nil values keep the stored ones
func (r *LessonRepo) UpdateLessonMeta(ctx context.Context, lessonID int64, name *string, topics []string) error {
	var nameArg sql.NullString
	if name != nil {
		nameArg = sql.NullString{String: *name, Valid: true}
	}

	query := `
		UPDATE lessons
		SET lesson_name = COALESCE($2, lesson_name),
			topics = COALESCE($3, topics)
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, lessonID, nameArg, pq.Array(topics))
	if err != nil {
		return mapError(err, "lesson")
	}
	return requireAffected(res, "lesson")
}

// UpsertLessonTerm links a term to a lesson or refreshes the existing link
func (r *LessonRepo) UpsertLessonTerm(ctx context.Context, link domain.LessonTerm) error {
	query := `
		INSERT INTO lesson_terms (lesson_id, term_id, category, subcategory, order_index)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lesson_id, term_id)
		DO UPDATE SET category = EXCLUDED.category,
			subcategory = EXCLUDED.subcategory,
			order_index = EXCLUDED.order_index
	`
	_, err := r.db.ExecContext(ctx, query,
		link.LessonID, link.TermID, link.Category, nullString(link.Subcategory), link.OrderIndex,
	)
	return mapError(err, "lesson term")
}

// ListLessons returns a page of lessons with their term counts
func (r *LessonRepo) ListLessons(ctx context.Context, ownerID int64, limit, offset int) ([]domain.LessonSummary, error) {
	query := `
		SELECT l.id, l.owner_id, l.lesson_number, l.lesson_name, l.topics, l.created_at,
			COUNT(lt.term_id) AS term_count
		FROM lessons l
		LEFT JOIN lesson_terms lt ON lt.lesson_id = l.id
		WHERE l.owner_id = $1
		GROUP BY l.id
		ORDER BY l.lesson_number
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, mapError(err, "lessons")
	}
	defer rows.Close()

	var lessons []domain.LessonSummary
	for rows.Next() {
		var (
			s    domain.LessonSummary
			name sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Number, &name, pq.Array(&s.Topics), &s.CreatedAt, &s.TermCount); err != nil {
			return nil, err
		}
		s.Name = name.String
		lessons = append(lessons, s)
	}

	return lessons, rows.Err()
}

// CountLessons returns how many lessons the owner has
func (r *LessonRepo) CountLessons(ctx context.Context, ownerID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM lessons WHERE owner_id = $1`
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&count)
	if err != nil {
		return 0, mapError(err, "lessons")
	}
	return count, nil
}

// ListLessonEntries returns the lesson's terms in display order with translations
func (r *LessonRepo) ListLessonEntries(ctx context.Context, lessonID int64) ([]domain.LessonEntry, error) {
	query := `
		SELECT t.id, t.owner_id, t.german, t.part_of_speech, t.gender, t.ipa, t.audio_url, t.created_at,
			lt.category, lt.subcategory, lt.order_index, tr.lang, tr.text
		FROM lesson_terms lt
		JOIN terms t ON t.id = lt.term_id
		LEFT JOIN term_translations tr ON tr.term_id = t.id
		WHERE lt.lesson_id = $1
		ORDER BY lt.order_index, t.id
	`

	rows, err := r.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, mapError(err, "lesson terms")
	}
	defer rows.Close()

	var entries []domain.LessonEntry
	for rows.Next() {
		var (
			e                  domain.LessonEntry
			ipa, audio, subcat sql.NullString
			lang, text         sql.NullString
		)
		if err := rows.Scan(
			&e.Term.ID, &e.Term.OwnerID, &e.Term.German, &e.Term.Part, &e.Term.Gender, &ipa, &audio, &e.Term.CreatedAt,
			&e.Category, &subcat, &e.OrderIndex, &lang, &text,
		); err != nil {
			return nil, err
		}

		// one row per translation; fold them into the previous entry
		if n := len(entries); n > 0 && entries[n-1].Term.ID == e.Term.ID {
			if lang.Valid {
				entries[n-1].Translations[domain.Language(lang.String)] = text.String
			}
			continue
		}

		e.Term.IPA = ipa.String
		e.Term.AudioURL = audio.String
		e.Subcategory = subcat.String
		e.Translations = make(map[domain.Language]string)
		if lang.Valid {
			e.Translations[domain.Language(lang.String)] = text.String
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// RenameLesson sets a new display name
func (r *LessonRepo) RenameLesson(ctx context.Context, ownerID int64, number int, name string) error {
	query := `UPDATE lessons SET lesson_name = $3 WHERE owner_id = $1 AND lesson_number = $2`
	res, err := r.db.ExecContext(ctx, query, ownerID, number, name)
	if err != nil {
		return mapError(err, fmt.Sprintf("lesson %d", number))
	}
	return requireAffected(res, fmt.Sprintf("lesson %d", number))
}

// DeleteLesson removes a lesson; its links and notebook cascade, terms stay
func (r *LessonRepo) DeleteLesson(ctx context.Context, ownerID int64, number int) error {
	query := `DELETE FROM lessons WHERE owner_id = $1 AND lesson_number = $2`
	res, err := r.db.ExecContext(ctx, query, ownerID, number)
	if err != nil {
		return mapError(err, fmt.Sprintf("lesson %d", number))
	}
	return requireAffected(res, fmt.Sprintf("lesson %d", number))
}

func requireAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return nil
}
