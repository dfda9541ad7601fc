// Package repository defines the storage gateway contracts for the two
// persisted collections, users and notes. The service layer depends on these
// interfaces only; the concrete document store lives in a subpackage
// (repository/sqlite) and is chosen at wiring time.
package repository

import (
	"context"

	"github.com/FredrikNymoen/NoteApp/internal/model"
)

// NoteRepository is the storage gateway for the notes collection.
type NoteRepository interface {
	// Create persists a new note, generating its id and timestamps in-place.
	// It never overwrites an existing note: an id collision surfaces as an
	// error rather than a silent replace.
	Create(ctx context.Context, note *model.Note) error

	// GetByID returns the note with the given id, or apperror.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.Note, error)

	// ListByUser returns all notes whose UserID equals userID.
	ListByUser(ctx context.Context, userID string) ([]model.Note, error)

	// Delete removes the note with the given id, or apperror.ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// UserRepository is the storage gateway for the users collection.
type UserRepository interface {
	// Put writes the profile at users/{uid}, unconditionally replacing any
	// existing record — re-registering the same uid is idempotent.
	Put(ctx context.Context, user *model.User) error

	// GetByUID returns the profile for uid, or apperror.ErrNotFound.
	GetByUID(ctx context.Context, uid string) (*model.User, error)
}
