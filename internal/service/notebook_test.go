package service

import (
	"context"
	"errors"
	"testing"

	"lessonbook/internal/domain"
	"lessonbook/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotebookService_AppendNote(t *testing.T) {
	store := testutil.NewMemoryStore()
	_, err := newTestImportService(store).ImportBatch(context.Background(), owner, lessonMeta(1), testutil.NewTestRecords(1))
	require.NoError(t, err)

	svc := NewNotebookService(store, store, testutil.NewTestLogger())
	lesson := 1

	require.NoError(t, svc.AppendNote(context.Background(), owner, &lesson, "Dativ after mit"))
	require.NoError(t, svc.AppendNote(context.Background(), owner, &lesson, "  sein takes the nominative "))
	require.NoError(t, svc.AppendNote(context.Background(), owner, nil, "general thought"))

	content, err := svc.GetNotebook(context.Background(), owner, &lesson)
	require.NoError(t, err)
	assert.Equal(t, "Dativ after mit\n\nsein takes the nominative", content)

	general, err := svc.GetNotebook(context.Background(), owner, nil)
	require.NoError(t, err)
	assert.Equal(t, "general thought", general)
}

func TestNotebookService_AppendNote_Validation(t *testing.T) {
	mockNotes := new(testutil.MockNotebookRepository)
	mockLessons := new(testutil.MockLessonRepository)
	svc := NewNotebookService(mockNotes, mockLessons, testutil.NewTestLogger())

	err := svc.AppendNote(context.Background(), owner, nil, " \n ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	missing := 4
	mockLessons.On("FindLessonByNumber", mock.Anything, owner, 4).Return(nil, nil)
	err = svc.AppendNote(context.Background(), owner, &missing, "text")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mockNotes.AssertNotCalled(t, "AppendNotebook", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotebookService_AppendNote_StoreError(t *testing.T) {
	mockNotes := new(testutil.MockNotebookRepository)
	mockNotes.On("AppendNotebook", mock.Anything, owner, (*int64)(nil), "text").Return(errors.New("disk full"))

	svc := NewNotebookService(mockNotes, new(testutil.MockLessonRepository), testutil.NewTestLogger())

	assert.Error(t, svc.AppendNote(context.Background(), owner, nil, "text"))
	mockNotes.AssertExpectations(t)
}

func TestNotebookService_SaveNotebook(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewNotebookService(store, store, testutil.NewTestLogger())

	require.NoError(t, svc.AppendNote(context.Background(), owner, nil, "draft"))
	require.NoError(t, svc.SaveNotebook(context.Background(), owner, nil, "final"))

	content, err := svc.GetNotebook(context.Background(), owner, nil)
	require.NoError(t, err)
	assert.Equal(t, "final", content)
}

func TestNotebookService_GetNotebook_Empty(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewNotebookService(store, store, testutil.NewTestLogger())

	content, err := svc.GetNotebook(context.Background(), owner, nil)

	assert.NoError(t, err)
	assert.Equal(t, "", content)
}
