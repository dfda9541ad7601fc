// Package service contains the business logic layer: the ownership-aware
// note operations and user registration.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP)     → parses requests, maps domain errors to statuses
//	Service (business) → identity checks, validation, ownership rules
//	Repository (data)  → reads/writes the document store
//
// Services take the caller's verified identity as an explicit uid parameter
// rather than digging it out of ambient state — the handler extracts it from
// the request context and passes it down. An empty uid means the request
// carried no verified identity, and every note operation rejects it with
// apperror.ErrUnauthenticated before touching storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FredrikNymoen/NoteApp/internal/apperror"
	"github.com/FredrikNymoen/NoteApp/internal/model"
	"github.com/FredrikNymoen/NoteApp/internal/repository"
)

// UnknownAuthor is the display name substituted when the owning user's
// profile is missing, unreadable, or has an empty name.
const UnknownAuthor = "Unknown user"

// NoteService handles the ownership-aware CRUD logic for notes.
type NoteService struct {
	notes  repository.NoteRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewNoteService creates a NoteService. The caller decides which repository
// implementations to inject (sqlite in production, mocks in tests).
func NewNoteService(notes repository.NoteRepository, users repository.UserRepository, logger *slog.Logger) *NoteService {
	return &NoteService{
		notes:  notes,
		users:  users,
		logger: logger,
	}
}

// List returns every note owned by uid, enriched with the author name.
// It never returns another user's notes — the query itself is scoped to uid.
func (s *NoteService) List(ctx context.Context, uid string) ([]model.NoteWithAuthor, error) {
	if uid == "" {
		return nil, apperror.Unauthenticated()
	}

	notes, err := s.notes.ListByUser(ctx, uid)
	if err != nil {
		s.logger.Error("failed to list notes",
			slog.String("userId", uid),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	enriched := make([]model.NoteWithAuthor, 0, len(notes))
	for _, n := range notes {
		enriched = append(enriched, s.withAuthor(ctx, n))
	}

	return enriched, nil
}

// GetByID returns a single note, enriched with the author name.
//
// A note that exists but belongs to someone else fails with ErrForbidden,
// distinct from ErrNotFound — the caller learns only that the id is off
// limits, not what the note contains.
func (s *NoteService) GetByID(ctx context.Context, uid, id string) (*model.NoteWithAuthor, error) {
	if uid == "" {
		return nil, apperror.Unauthenticated()
	}

	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if note.UserID != uid {
		return nil, apperror.Forbidden("note belongs to another user")
	}

	enriched := s.withAuthor(ctx, *note)
	return &enriched, nil
}

// Create validates and persists a new note owned by uid.
// Blank title or content fails with ErrValidation and performs no write.
func (s *NoteService) Create(ctx context.Context, uid, title, content string) (*model.NoteWithAuthor, error) {
	if uid == "" {
		return nil, apperror.Unauthenticated()
	}

	if strings.TrimSpace(title) == "" {
		return nil, apperror.ValidationFailed("title", "note title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperror.ValidationFailed("content", "note content is required")
	}

	note := &model.Note{
		UserID:  uid,
		Title:   title,
		Content: content,
	}

	// The repository fills in the generated id and timestamps.
	if err := s.notes.Create(ctx, note); err != nil {
		s.logger.Error("failed to create note",
			slog.String("userId", uid),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating note: %w", err)
	}

	s.logger.Info("note created",
		slog.String("id", note.ID),
		slog.String("userId", uid),
	)

	enriched := s.withAuthor(ctx, *note)
	return &enriched, nil
}

// Delete permanently removes a note owned by uid.
//
// This is a read-then-act sequence without a transaction: the ownership
// check and the delete are two store calls. The window between them is a
// benign race — the only concurrent write that could land in it is the
// owner's own delete, and a non-owner is rejected before the delete runs.
func (s *NoteService) Delete(ctx context.Context, uid, id string) error {
	if uid == "" {
		return apperror.Unauthenticated()
	}

	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if note.UserID != uid {
		return apperror.Forbidden("note belongs to another user")
	}

	if err := s.notes.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("note deleted",
		slog.String("id", id),
		slog.String("userId", uid),
	)
	return nil
}

// withAuthor enriches a note with its owner's display name.
//
// Resolution is best-effort: a missing profile, an empty name field, or a
// store error all fall back to UnknownAuthor. Enrichment failures are never
// fatal to the note operation, so genuine store errors are logged and
// swallowed here.
func (s *NoteService) withAuthor(ctx context.Context, note model.Note) model.NoteWithAuthor {
	name := UnknownAuthor

	user, err := s.users.GetByUID(ctx, note.UserID)
	switch {
	case err == nil && user.Name != "":
		name = user.Name
	case err != nil && !errors.Is(err, apperror.ErrNotFound):
		s.logger.Warn("author lookup failed",
			slog.String("userId", note.UserID),
			slog.String("error", err.Error()),
		)
	}

	return model.NoteWithAuthor{Note: note, UserName: name}
}
