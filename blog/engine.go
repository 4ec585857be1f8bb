package blog

import (
	"log/slog"
	"regexp"

	"github.com/jacentio/quill/storage"
	"github.com/jacentio/quill/validate"
)

// Identifier and email shapes checked by the field chains. The email
// pattern follows the common word-dot-word address form.
var (
	hexIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
)

// Engine composes the validation pipeline, the entity repositories, and
// the referential-integrity guard into the mutation contract exposed to
// transports.
//
// Every operation re-reads from the store; the engine caches nothing
// between calls. Reads that inform a write (load-then-merge on update,
// dependents-check-then-delete) are sequential within one call but are
// not wrapped in a multi-record transaction — see the Delete methods.
type Engine struct {
	store    storage.Store
	users    *UserRepository
	posts    *PostRepository
	comments *CommentRepository
	guard    *Guard
	logger   *slog.Logger
}

// NewEngine creates an engine over the given store with the default
// relationship registry.
func NewEngine(store storage.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    store,
		users:    NewUserRepository(store),
		posts:    NewPostRepository(store),
		comments: NewCommentRepository(store),
		guard:    NewGuard(store, DefaultRegistry()),
		logger:   logger,
	}
}

// Guard exposes the engine's integrity guard.
func (e *Engine) Guard() *Guard {
	return e.guard
}

// idRules builds the shared rule chain for a 24-hex-character reference
// field. Identifier fields are never HTML-escaped; they are trimmed and
// pattern-checked only.
func idRules(field, label string) validate.Chain {
	return validate.Chain{
		Field: field,
		Rules: []validate.Rule{
			validate.Required(label + " is required."),
			validate.ExactLength(24, label+" must be 24 characters."),
			validate.Pattern(hexIDPattern, label+" must be a hexadecimal id."),
		},
	}
}
