// Package httpapi exposes the mutation engine over HTTP. It owns the
// route table, the JSON envelopes, and the mapping from engine outcomes
// to status codes; all domain decisions stay in the blog package.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jacentio/quill/blog"
)

// Handler serves the blog API.
type Handler struct {
	engine *blog.Engine
	logger *slog.Logger
}

// New builds the API handler with request logging attached.
func New(engine *blog.Engine, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{engine: engine, logger: logger}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/users", h.listUsers)
	mux.HandleFunc("POST /api/users", h.createUser)
	mux.HandleFunc("GET /api/users/{id}", h.userDetail)
	mux.HandleFunc("PATCH /api/users/{id}", h.updateUser)
	mux.HandleFunc("DELETE /api/users/{id}", h.deleteUser)

	mux.HandleFunc("GET /api/posts", h.listPosts)
	mux.HandleFunc("POST /api/posts", h.createPost)
	mux.HandleFunc("GET /api/posts/{id}", h.postDetail)
	mux.HandleFunc("PATCH /api/posts/{id}", h.updatePost)
	mux.HandleFunc("DELETE /api/posts/{id}", h.deletePost)

	mux.HandleFunc("GET /api/comments", h.listComments)
	mux.HandleFunc("POST /api/comments", h.createComment)
	mux.HandleFunc("GET /api/comments/{id}", h.commentDetail)
	mux.HandleFunc("PATCH /api/comments/{id}", h.updateComment)
	mux.HandleFunc("DELETE /api/comments/{id}", h.deleteComment)

	mux.HandleFunc("GET /api/admin", h.adminIndex)
	mux.HandleFunc("DELETE /api/admin/all", h.adminWipe)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
	})

	return requestLogger(logger, mux)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeFields reads the request body as a flat field map. An empty body
// is a valid empty patch.
func decodeFields(r *http.Request) (map[string]string, error) {
	fields := map[string]string{}
	err := json.NewDecoder(r.Body).Decode(&fields)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return fields, nil
}

// entityLabel capitalizes an entity type name for user-facing messages.
func entityLabel(entity string) string {
	switch entity {
	case blog.TypeUser:
		return "User"
	case blog.TypePost:
		return "Post"
	case blog.TypeComment:
		return "Comment"
	}
	return entity
}

// fail maps engine errors onto the HTTP contract: 400 for a malformed
// id, 404 for a well-formed absent id, 500 for everything else.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, blog.ErrInvalidID) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid ID"})
		return
	}
	var nf *blog.NotFoundError
	if errors.As(err, &nf) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": entityLabel(nf.Entity) + " not found"})
		return
	}
	h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
}

// badRequest rejects an unreadable body.
func badRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request body"})
}
