package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FredrikNymoen/NoteApp/internal/apperror"
	"github.com/FredrikNymoen/NoteApp/internal/model"
	"github.com/FredrikNymoen/NoteApp/internal/repository"
)

// RegistrationService creates user profile records keyed by the identity
// provider's uid.
//
// Registration itself is unauthenticated: the client calls it right after
// signing in with the identity provider, before it holds anything but the
// provider-issued uid.
type RegistrationService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(users repository.UserRepository, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{
		users:  users,
		logger: logger,
	}
}

// Register validates and persists a user profile at users/{uid}.
//
// The write is an unconditional overwrite: re-registering the same uid
// replaces the profile. No uniqueness check runs against pre-existing data —
// the uid comes from the identity provider, which already guarantees one uid
// per account.
func (s *RegistrationService) Register(ctx context.Context, uid, name, email string) (*model.User, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, apperror.ValidationFailed("uid", "uid is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}

	user := &model.User{
		UID:       uid,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}

	if err := s.users.Put(ctx, user); err != nil {
		s.logger.Error("failed to register user",
			slog.String("uid", uid),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered", slog.String("uid", uid))

	return user, nil
}
