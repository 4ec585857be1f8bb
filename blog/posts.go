package blog

import (
	"context"
	"errors"

	"github.com/jacentio/quill/internal/objectid"
	"github.com/jacentio/quill/storage"
	"github.com/jacentio/quill/validate"
)

// postSortField orders post lists by title.
const postSortField = "title"

// postChains builds the post field chains. The userId chain only exists
// on create: updates force the stored owner regardless of patch content.
func postChains(patch bool) []validate.Chain {
	chains := []validate.Chain{}
	if !patch {
		chains = append(chains, idRules("userId", "User ID"))
	}
	chains = append(chains,
		validate.Chain{
			Field:    "title",
			Optional: patch,
			Escape:   true,
			Rules:    []validate.Rule{validate.Required("Title is required.")},
		},
		validate.Chain{
			Field:    "text",
			Optional: patch,
			Escape:   true,
			Rules:    []validate.Rule{validate.Required("Text is required.")},
		},
	)
	return chains
}

// PostRepository provides typed access to stored posts.
type PostRepository struct {
	store storage.Store
}

// NewPostRepository creates a repository over the given store.
func NewPostRepository(store storage.Store) *PostRepository {
	return &PostRepository{store: store}
}

// List returns all posts ordered by title.
func (r *PostRepository) List(ctx context.Context) ([]Post, error) {
	records, err := r.store.FindAll(ctx, CollectionPosts, postSortField)
	if err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(records))
	for _, rec := range records {
		posts = append(posts, postFromRecord(rec))
	}
	return posts, nil
}

// Get returns the post with the given id.
func (r *PostRepository) Get(ctx context.Context, id string) (*Post, error) {
	if !objectid.Valid(id) {
		return nil, ErrInvalidID
	}
	rec, err := r.store.FindByID(ctx, CollectionPosts, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Entity: TypePost}
	}
	if err != nil {
		return nil, err
	}
	p := postFromRecord(rec)
	return &p, nil
}

// Create persists a new post with a fresh identity and timestamps.
func (r *PostRepository) Create(ctx context.Context, p Post) (*Post, error) {
	now := nowISO()
	p.CreatedAt = now
	p.UpdatedAt = now
	id, err := r.store.Insert(ctx, CollectionPosts, p.record())
	if err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

// Update replaces the post's fields and refreshes the update timestamp.
func (r *PostRepository) Update(ctx context.Context, id string, p Post) (*Post, error) {
	if !objectid.Valid(id) {
		return nil, ErrInvalidID
	}
	p.UpdatedAt = nowISO()
	rec, err := r.store.UpdateByID(ctx, CollectionPosts, id, p.record())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Entity: TypePost}
	}
	if err != nil {
		return nil, err
	}
	out := postFromRecord(rec)
	return &out, nil
}

// Delete removes the post and returns it as stored.
func (r *PostRepository) Delete(ctx context.Context, id string) (*Post, error) {
	if !objectid.Valid(id) {
		return nil, ErrInvalidID
	}
	rec, err := r.store.DeleteByID(ctx, CollectionPosts, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Entity: TypePost}
	}
	if err != nil {
		return nil, err
	}
	out := postFromRecord(rec)
	return &out, nil
}

// ListPosts returns all posts ordered by title.
func (e *Engine) ListPosts(ctx context.Context) ([]Post, error) {
	return e.posts.List(ctx)
}

// PostDetail returns one post plus the ids of the comments that
// reference it.
func (e *Engine) PostDetail(ctx context.Context, id string) (*PostDetail, error) {
	post, err := e.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	deps, err := e.guard.DependentsOf(ctx, TypePost, post.ID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{
		Post:       *post,
		CommentIDs: orEmpty(deps.CommentIDs),
	}, nil
}

// CreatePost validates and persists a new post. The owning user must
// exist; a missing owner surfaces as a user NotFoundError.
func (e *Engine) CreatePost(ctx context.Context, fields map[string]string) (*Post, []validate.FieldError, error) {
	res := validate.Run(fields, postChains(false))
	post := Post{
		UserID: res.Values["userId"],
		Title:  res.Values["title"],
		Text:   res.Values["text"],
	}
	if len(res.Errors) > 0 {
		return &post, res.Errors, nil
	}

	if _, err := e.users.Get(ctx, post.UserID); err != nil {
		return nil, nil, err
	}

	created, err := e.posts.Create(ctx, post)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Info("post created", "id", created.ID, "userId", created.UserID)
	return created, nil, nil
}

// UpdatePost merges the patch with the stored post. The owner reference
// is always forced to the stored value, so a post can never be
// reassigned to a different user.
func (e *Engine) UpdatePost(ctx context.Context, id string, fields map[string]string) (*Post, []validate.FieldError, error) {
	existing, err := e.posts.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	res := validate.Run(fields, postChains(true))
	merged := *existing
	if v, ok := res.Values["title"]; ok {
		merged.Title = v
	}
	if v, ok := res.Values["text"]; ok {
		merged.Text = v
	}
	merged.UserID = existing.UserID
	if len(res.Errors) > 0 {
		return &merged, res.Errors, nil
	}

	updated, err := e.posts.Update(ctx, id, merged)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Info("post updated", "id", updated.ID)
	return updated, nil, nil
}

// DeletePost removes the post unless comments still reference it, in
// which case it returns the post and the blocking comment ids and
// deletes nothing. Same check-then-act caveat as DeleteUser.
func (e *Engine) DeletePost(ctx context.Context, id string) (*Post, *Dependents, error) {
	post, err := e.posts.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	deps, err := e.guard.DependentsOf(ctx, TypePost, post.ID)
	if err != nil {
		return nil, nil, err
	}
	if !deps.Empty() {
		e.logger.Info("post delete blocked", "id", post.ID, "comments", len(deps.CommentIDs))
		return post, &deps, nil
	}

	removed, err := e.posts.Delete(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Info("post deleted", "id", removed.ID)
	return removed, nil, nil
}
