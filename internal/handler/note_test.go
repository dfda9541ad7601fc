package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FredrikNymoen/NoteApp/internal/auth"
	"github.com/FredrikNymoen/NoteApp/internal/handler"
	"github.com/FredrikNymoen/NoteApp/internal/model"
	"github.com/FredrikNymoen/NoteApp/internal/repository/sqlite"
	"github.com/FredrikNymoen/NoteApp/internal/service"
)

// newTestAPI builds the real route surface on an in-memory database: chi
// router, Authenticate middleware, services, handlers. Returned alongside is
// the TokenService used to mint bearer tokens for test requests.
func newTestAPI(t *testing.T) (http.Handler, *auth.TokenService) {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", "noteapp-test")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	noteHandler := handler.NewNoteHandler(service.NewNoteService(db, db, logger), logger)
	authHandler := handler.NewAuthHandler(service.NewRegistrationService(db, logger), logger)

	r := chi.NewRouter()
	r.Use(auth.Authenticate(tokens, logger))
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.With(auth.RequireIdentity).Get("/auth/verify", authHandler.HandleVerify)
		r.Get("/notes", noteHandler.HandleList)
		r.Get("/notes/{id}", noteHandler.HandleGetByID)
		r.Post("/notes", noteHandler.HandleCreate)
		r.Delete("/notes/{id}", noteHandler.HandleDelete)
	})

	return r, tokens
}

func bearerFor(t *testing.T, tokens *auth.TokenService, uid string) string {
	t.Helper()
	token, err := tokens.Generate(uid)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, api http.Handler, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rr := httptest.NewRecorder()
	api.ServeHTTP(rr, req)
	return rr
}

func TestNotes_AnonymousRejected(t *testing.T) {
	api, _ := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/notes"},
		{http.MethodGet, "/api/notes/some-id"},
		{http.MethodPost, "/api/notes"},
	} {
		rr := doJSON(t, api, tc.method, tc.path, "", `{"title":"t","content":"c"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
	}
}

func TestNotes_CreateAndList(t *testing.T) {
	api, tokens := newTestAPI(t)
	bearer := bearerFor(t, tokens, "user-a")

	// Register user-a so notes resolve a real author name.
	rr := doJSON(t, api, http.MethodPost, "/api/auth/register", "",
		`{"uid":"user-a","name":"Anna","email":"anna@example.com"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, api, http.MethodPost, "/api/notes", bearer,
		`{"title":"Shopping","content":"Milk, bread"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created model.NoteWithAuthor
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-a", created.UserID)
	assert.Equal(t, "Shopping", created.Title)
	assert.Equal(t, "Anna", created.UserName)

	rr = doJSON(t, api, http.MethodGet, "/api/notes", bearer, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var list []model.NoteWithAuthor
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestNotes_CreateValidation(t *testing.T) {
	api, tokens := newTestAPI(t)
	bearer := bearerFor(t, tokens, "user-a")

	rr := doJSON(t, api, http.MethodPost, "/api/notes", bearer, `{"title":"","content":"c"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, api, http.MethodPost, "/api/notes", bearer, `{"title":"t","content":""}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, api, http.MethodPost, "/api/notes", bearer, `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotes_UnknownAuthorPlaceholder(t *testing.T) {
	api, tokens := newTestAPI(t)
	bearer := bearerFor(t, tokens, "user-ghost")

	// user-ghost never registered a profile.
	rr := doJSON(t, api, http.MethodPost, "/api/notes", bearer,
		`{"title":"Orphan","content":"no profile"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created model.NoteWithAuthor
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.Equal(t, service.UnknownAuthor, created.UserName)
}

func TestNotes_GetForbiddenAndNotFound(t *testing.T) {
	api, tokens := newTestAPI(t)
	bearerA := bearerFor(t, tokens, "user-a")
	bearerB := bearerFor(t, tokens, "user-b")

	rr := doJSON(t, api, http.MethodPost, "/api/notes", bearerA,
		`{"title":"Secret","content":"plans"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created model.NoteWithAuthor
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))

	// Another user's note is forbidden, not "not found".
	rr = doJSON(t, api, http.MethodGet, "/api/notes/"+created.ID, bearerB, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, api, http.MethodGet, "/api/notes/no-such-id", bearerB, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNotes_DeleteResponses(t *testing.T) {
	api, tokens := newTestAPI(t)
	bearerA := bearerFor(t, tokens, "user-a")
	bearerB := bearerFor(t, tokens, "user-b")

	rr := doJSON(t, api, http.MethodPost, "/api/notes", bearerA,
		`{"title":"Shopping","content":"Milk, bread"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created model.NoteWithAuthor
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))

	var result struct {
		Success bool `json:"success"`
	}

	// Non-owner delete: 403 with success:false, note stays.
	rr = doJSON(t, api, http.MethodDelete, "/api/notes/"+created.ID, bearerB, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.False(t, result.Success)

	rr = doJSON(t, api, http.MethodGet, "/api/notes/"+created.ID, bearerA, "")
	assert.Equal(t, http.StatusOK, rr.Code, "note must survive a non-owner delete")

	// Owner delete: 200 with success:true.
	rr = doJSON(t, api, http.MethodDelete, "/api/notes/"+created.ID, bearerA, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.True(t, result.Success)

	// Deleting again: 404 with success:false.
	rr = doJSON(t, api, http.MethodDelete, "/api/notes/"+created.ID, bearerA, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.False(t, result.Success)
}
