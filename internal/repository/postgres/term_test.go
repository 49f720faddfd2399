package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"lessonbook/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermRepo_FindTermByGerman(t *testing.T) {
	columns := []string{"id", "owner_id", "german", "part_of_speech", "gender", "ipa", "audio_url", "created_at"}

	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		mockError     error
		expectedNil   bool
		expectedError bool
	}{
		{
			name:     "term found",
			mockRows: sqlmock.NewRows(columns).AddRow(7, 123, "Tisch", "noun", "der", nil, "https://a/tisch.mp3", time.Now()),
		},
		{
			name:        "term not found",
			mockError:   sql.ErrNoRows,
			expectedNil: true,
		},
		{
			name:          "database error",
			mockError:     sql.ErrConnDone,
			expectedNil:   true,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewTermRepo(db)

			expect := mock.ExpectQuery("SELECT id, owner_id, german, part_of_speech, gender, ipa, audio_url, created_at FROM terms").
				WithArgs(int64(123), "Tisch")
			if tt.mockError != nil {
				expect.WillReturnError(tt.mockError)
			} else {
				expect.WillReturnRows(tt.mockRows)
			}

			term, err := repo.FindTermByGerman(context.Background(), 123, "Tisch")

			if tt.expectedError {
				assert.ErrorIs(t, err, domain.ErrTransient)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectedNil {
				assert.Nil(t, term)
			} else {
				require.NotNil(t, term)
				assert.Equal(t, int64(7), term.ID)
				assert.Equal(t, domain.PartNoun, term.Part)
				assert.Equal(t, domain.GenderDer, term.Gender)
				assert.Equal(t, "", term.IPA)
				assert.Equal(t, "https://a/tisch.mp3", term.AudioURL)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTermRepo_CreateTerm(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTermRepo(db)

	mock.ExpectQuery("INSERT INTO terms").
		WithArgs(int64(123), "Tisch", "noun", "der", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := repo.CreateTerm(context.Background(), &domain.Term{
		OwnerID: 123,
		German:  "Tisch",
		Part:    domain.PartNoun,
		Gender:  domain.GenderDer,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepo_CreateTerm_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTermRepo(db)

	mock.ExpectQuery("INSERT INTO terms").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "terms_owner_id_german_key"})

	_, err = repo.CreateTerm(context.Background(), &domain.Term{OwnerID: 123, German: "Tisch"})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepo_UpsertTranslation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTermRepo(db)

	mock.ExpectExec("INSERT INTO term_translations .* ON CONFLICT \\(term_id, lang\\)").
		WithArgs(int64(42), "hebrew", "שולחן").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpsertTranslation(context.Background(), domain.Translation{
		TermID:   42,
		Language: domain.LangHebrew,
		Text:     "שולחן",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepo_ListTranslations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTermRepo(db)

	mock.ExpectQuery("SELECT lang, text FROM term_translations").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"lang", "text"}).
			AddRow("hebrew", "שולחן").
			AddRow("english", "table"))

	translations, err := repo.ListTranslations(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, map[domain.Language]string{
		domain.LangHebrew:  "שולחן",
		domain.LangEnglish: "table",
	}, translations)
	assert.NoError(t, mock.ExpectationsWereMet())
}
