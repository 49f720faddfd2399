package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotebookRepo_GetNotebook(t *testing.T) {
	tests := []struct {
		name        string
		lessonID    *int64
		expectedArg any
		rows        *sqlmock.Rows
		expectedNil bool
	}{
		{
			name:        "lesson notebook",
			lessonID:    int64Ptr(5),
			expectedArg: int64(5),
			rows: sqlmock.NewRows([]string{"id", "owner_id", "lesson_id", "content", "updated_at"}).
				AddRow(1, 123, 5, "Dativ after mit", time.Now()),
		},
		{
			name:        "general notebook missing",
			lessonID:    nil,
			expectedArg: nil,
			rows:        sqlmock.NewRows([]string{"id", "owner_id", "lesson_id", "content", "updated_at"}),
			expectedNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewNotebookRepo(db)

			mock.ExpectQuery("FROM notebooks").
				WithArgs(int64(123), tt.expectedArg).
				WillReturnRows(tt.rows)

			nb, err := repo.GetNotebook(context.Background(), 123, tt.lessonID)

			assert.NoError(t, err)
			if tt.expectedNil {
				assert.Nil(t, nb)
			} else {
				require.NotNil(t, nb)
				assert.Equal(t, "Dativ after mit", nb.Content)
				require.NotNil(t, nb.LessonID)
				assert.Equal(t, int64(5), *nb.LessonID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotebookRepo_SaveNotebook(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNotebookRepo(db)

	mock.ExpectExec("INSERT INTO notebooks .* DO UPDATE SET content = EXCLUDED.content").
		WithArgs(int64(123), nil, "fresh start").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.SaveNotebook(context.Background(), 123, nil, "fresh start")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotebookRepo_AppendNotebook(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNotebookRepo(db)

	mock.ExpectExec("INSERT INTO notebooks .* notebooks.content \\|\\|").
		WithArgs(int64(123), int64(5), "second thought").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.AppendNotebook(context.Background(), 123, int64Ptr(5), "second thought")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func int64Ptr(v int64) *int64 {
	return &v
}
