package blog

import (
	"context"
	"errors"

	"github.com/jacentio/quill/internal/objectid"
	"github.com/jacentio/quill/storage"
	"github.com/jacentio/quill/validate"
)

// commentSortField orders comment lists by text.
const commentSortField = "text"

// commentChains builds the comment field chains. The reference chains
// only exist on create: updates force the stored post and user.
func commentChains(patch bool) []validate.Chain {
	chains := []validate.Chain{}
	if !patch {
		chains = append(chains,
			idRules("postId", "Post ID"),
			idRules("userId", "User ID"),
		)
	}
	chains = append(chains, validate.Chain{
		Field:    "text",
		Optional: patch,
		Escape:   true,
		Rules: []validate.Rule{
			validate.Required("Text must not be empty."),
			validate.MinLength(3, "Text must be at least 3 characters."),
		},
	})
	return chains
}

// CommentRepository provides typed access to stored comments.
type CommentRepository struct {
	store storage.Store
}

// NewCommentRepository creates a repository over the given store.
func NewCommentRepository(store storage.Store) *CommentRepository {
	return &CommentRepository{store: store}
}

// List returns all comments ordered by text.
func (r *CommentRepository) List(ctx context.Context) ([]Comment, error) {
	records, err := r.store.FindAll(ctx, CollectionComments, commentSortField)
	if err != nil {
		return nil, err
	}
	comments := make([]Comment, 0, len(records))
	for _, rec := range records {
		comments = append(comments, commentFromRecord(rec))
	}
	return comments, nil
}

// Get returns the comment with the given id.
func (r *CommentRepository) Get(ctx context.Context, id string) (*Comment, error) {
	if !objectid.Valid(id) {
		return nil, ErrInvalidID
	}
	rec, err := r.store.FindByID(ctx, CollectionComments, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Entity: TypeComment}
	}
	if err != nil {
		return nil, err
	}
	c := commentFromRecord(rec)
	return &c, nil
}

// Create persists a new comment with a fresh identity and timestamps.
func (r *CommentRepository) Create(ctx context.Context, c Comment) (*Comment, error) {
	now := nowISO()
	c.CreatedAt = now
	c.UpdatedAt = now
	id, err := r.store.Insert(ctx, CollectionComments, c.record())
	if err != nil {
		return nil, err
	}
	c.ID = id
	return &c, nil
}

// Update replaces the comment's fields and refreshes the update
// timestamp.
func (r *CommentRepository) Update(ctx context.Context, id string, c Comment) (*Comment, error) {
	if !objectid.Valid(id) {
		return nil, ErrInvalidID
	}
	c.UpdatedAt = nowISO()
	rec, err := r.store.UpdateByID(ctx, CollectionComments, id, c.record())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Entity: TypeComment}
	}
	if err != nil {
		return nil, err
	}
	out := commentFromRecord(rec)
	return &out, nil
}

// Delete removes the comment and returns it as stored.
func (r *CommentRepository) Delete(ctx context.Context, id string) (*Comment, error) {
	if !objectid.Valid(id) {
		return nil, ErrInvalidID
	}
	rec, err := r.store.DeleteByID(ctx, CollectionComments, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Entity: TypeComment}
	}
	if err != nil {
		return nil, err
	}
	out := commentFromRecord(rec)
	return &out, nil
}

// ListComments returns all comments ordered by text.
func (e *Engine) ListComments(ctx context.Context) ([]Comment, error) {
	return e.comments.List(ctx)
}

// GetComment returns one comment. Comments have no dependents, so there
// is no detail composition.
func (e *Engine) GetComment(ctx context.Context, id string) (*Comment, error) {
	return e.comments.Get(ctx, id)
}

// CreateComment validates and persists a new comment. Both referenced
// records must exist; a missing one surfaces as that entity's
// NotFoundError.
func (e *Engine) CreateComment(ctx context.Context, fields map[string]string) (*Comment, []validate.FieldError, error) {
	res := validate.Run(fields, commentChains(false))
	comment := Comment{
		PostID: res.Values["postId"],
		UserID: res.Values["userId"],
		Text:   res.Values["text"],
	}
	if len(res.Errors) > 0 {
		return &comment, res.Errors, nil
	}

	if _, err := e.posts.Get(ctx, comment.PostID); err != nil {
		return nil, nil, err
	}
	if _, err := e.users.Get(ctx, comment.UserID); err != nil {
		return nil, nil, err
	}

	created, err := e.comments.Create(ctx, comment)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Info("comment created", "id", created.ID, "postId", created.PostID)
	return created, nil, nil
}

// UpdateComment merges the patch with the stored comment. Both
// references are always forced to the stored values.
func (e *Engine) UpdateComment(ctx context.Context, id string, fields map[string]string) (*Comment, []validate.FieldError, error) {
	existing, err := e.comments.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	res := validate.Run(fields, commentChains(true))
	merged := *existing
	if v, ok := res.Values["text"]; ok {
		merged.Text = v
	}
	merged.PostID = existing.PostID
	merged.UserID = existing.UserID
	if len(res.Errors) > 0 {
		return &merged, res.Errors, nil
	}

	updated, err := e.comments.Update(ctx, id, merged)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Info("comment updated", "id", updated.ID)
	return updated, nil, nil
}

// DeleteComment removes the comment. Comments are always deletable once
// found.
func (e *Engine) DeleteComment(ctx context.Context, id string) (*Comment, error) {
	removed, err := e.comments.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	e.logger.Info("comment deleted", "id", removed.ID)
	return removed, nil
}
