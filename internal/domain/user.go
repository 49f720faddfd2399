package domain

import "time"

// User represents a bot user. The Telegram user ID doubles as the owner ID of
// every term, lesson and notebook the user creates.
type User struct {
	UserID     int64
	Authorized bool
	CreatedAt  time.Time
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle            UserState = "idle"
	StateWritingNote     UserState = "writing_note"
	StateConfirmConflict UserState = "confirm_conflict"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State UserState
	// NoteLesson is the lesson receiving notes; nil means general notes.
	NoteLesson *int
	// PendingImport waits for a merge/abort decision.
	PendingImport *ParsedBatch
}
