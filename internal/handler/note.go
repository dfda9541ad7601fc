package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FredrikNymoen/NoteApp/internal/apperror"
	"github.com/FredrikNymoen/NoteApp/internal/auth"
	"github.com/FredrikNymoen/NoteApp/internal/service"
)

// NoteHandler exposes the note CRUD endpoints.
//
// Every endpoint requires a verified identity. The Authenticate middleware
// never rejects by itself, so each handler reads the identity from the
// request context and passes it into the service — an anonymous request
// reaches the service with uid "" and comes back as ErrUnauthenticated (401)
// before any storage access.
type NoteHandler struct {
	notes  *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(notes *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// createNoteRequest is the body of POST /api/notes.
type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// deleteNoteResponse is the body of DELETE /api/notes/{id} for every
// outcome: {"success":true} on 200, {"success":false} on 403 and 404.
type deleteNoteResponse struct {
	Success bool `json:"success"`
}

// HandleList returns all notes owned by the caller.
//
// HTTP: GET /api/notes
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	notes, err := h.notes.List(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// HandleGetByID returns a single note owned by the caller.
//
// HTTP: GET /api/notes/{id}
func (h *NoteHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	note, err := h.notes.GetByID(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// HandleCreate saves a new note owned by the caller.
//
// HTTP: POST /api/notes
// BODY: {"title": "...", "content": "..."}
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid note JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	note, err := h.notes.Create(r.Context(), uid, req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// HandleDelete permanently removes a note owned by the caller.
//
// HTTP: DELETE /api/notes/{id}
//
// The response body always reports a success flag: {"success":true} with
// 200, {"success":false} with 403 (not the owner) or 404 (no such note).
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.notes.Delete(r.Context(), uid, id); err != nil {
		status, _ := errorStatus(err)
		if status == http.StatusUnauthorized {
			writeError(w, err)
			return
		}
		writeJSON(w, status, deleteNoteResponse{Success: false})
		return
	}

	writeJSON(w, http.StatusOK, deleteNoteResponse{Success: true})
}
