package model

import "time"

// Note is a short text note owned by exactly one user.
//
// UserID is set at creation from the caller's verified identity and is
// immutable — it establishes ownership. A note is visible and deletable only
// to requests whose identity equals UserID.
//
// There is no update operation in this design, so UpdatedAt stays equal to
// CreatedAt in practice; it exists so the schema doesn't change if editing
// is added later.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteWithAuthor is a Note enriched with the owning user's display name for
// presentation. UserName falls back to a placeholder when the owner's
// profile is missing — enrichment is best-effort and never fails a note
// operation.
type NoteWithAuthor struct {
	Note
	UserName string `json:"userName"`
}
