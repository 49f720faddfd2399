package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"lessonbook/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestUserRepo_IsAuthorized(t *testing.T) {
	tests := []struct {
		name          string
		userID        int64
		mockRows      *sqlmock.Rows
		mockError     error
		expectedAuth  bool
		expectedError error
	}{
		{
			name:         "authorized user",
			userID:       123,
			mockRows:     sqlmock.NewRows([]string{"authorized"}).AddRow(true),
			expectedAuth: true,
		},
		{
			name:         "unauthorized user",
			userID:       456,
			mockRows:     sqlmock.NewRows([]string{"authorized"}).AddRow(false),
			expectedAuth: false,
		},
		{
			name:         "user not exists",
			userID:       789,
			mockError:    sql.ErrNoRows,
			expectedAuth: false,
		},
		{
			name:          "connection lost",
			userID:        789,
			mockError:     &pq.Error{Code: "08006"},
			expectedError: domain.ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewUserRepo(db)

			query := "SELECT authorized FROM users WHERE user_id = \\$1"

			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnRows(tt.mockRows)
			}

			authorized, err := repo.IsAuthorized(context.Background(), tt.userID)

			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedAuth, authorized)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_AuthorizeUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	userID := int64(123)

	// Only userID is a parameter, TRUE is a SQL constant
	mock.ExpectExec("INSERT INTO users").
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.AuthorizeUser(context.Background(), userID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_EnsureUserExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	userID := int64(123)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.EnsureUserExists(context.Background(), userID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "unique violation", err: &pq.Error{Code: "23505"}, expected: domain.ErrAlreadyExists},
		{name: "foreign key violation", err: &pq.Error{Code: "23503"}, expected: domain.ErrNotFound},
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, expected: domain.ErrTransient},
		{name: "admin shutdown", err: &pq.Error{Code: "57P01"}, expected: domain.ErrTransient},
		{name: "no rows", err: sql.ErrNoRows, expected: domain.ErrNotFound},
		{name: "canceled", err: context.Canceled, expected: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err, "thing"), tt.expected)
		})
	}

	assert.NoError(t, mapError(nil, "thing"))

	syntax := mapError(&pq.Error{Code: "42601"}, "thing")
	assert.False(t, errors.Is(syntax, domain.ErrTransient))
	assert.False(t, errors.Is(syntax, domain.ErrAlreadyExists))
}
