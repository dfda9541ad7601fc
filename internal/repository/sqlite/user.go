package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FredrikNymoen/NoteApp/internal/apperror"
	"github.com/FredrikNymoen/NoteApp/internal/model"
	"github.com/FredrikNymoen/NoteApp/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

// Put writes the profile at users/{uid}, replacing any existing record.
//
// ON CONFLICT DO UPDATE makes registration idempotent: re-registering the
// same uid overwrites the profile (including created_at, which the original
// set-semantics replace wholesale) instead of erroring.
func (db *DB) Put(ctx context.Context, user *model.User) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (uid, name, email, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET
		   name       = excluded.name,
		   email      = excluded.email,
		   created_at = excluded.created_at`,
		user.UID,
		user.Name,
		user.Email,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: putting user %s: %w", user.UID, err)
	}

	return nil
}

// GetByUID retrieves a user profile by its identity-provider uid.
// Returns apperror.ErrNotFound when no profile exists.
func (db *DB) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	var user model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT uid, name, email, created_at
		 FROM users
		 WHERE uid = ?`,
		uid,
	).Scan(
		&user.UID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", uid)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", uid, err)
	}

	return &user, nil
}
