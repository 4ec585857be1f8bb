package blog

import (
	"context"
	"errors"

	"github.com/jacentio/quill/internal/objectid"
	"github.com/jacentio/quill/storage"
	"github.com/jacentio/quill/validate"
)

// userSortField orders user lists by display name.
const userSortField = "name"

// userChains builds the user field chains. With patch set, every field is
// optional-with-fallback: an absent or empty value produces no error and
// the stored value is kept.
func userChains(patch bool) []validate.Chain {
	return []validate.Chain{
		{
			Field:    "name",
			Optional: patch,
			Escape:   true,
			Rules: []validate.Rule{
				validate.Required("Name is required."),
				validate.MinLength(3, "Name must be at least 3 characters."),
			},
		},
		{
			Field:    "email",
			Optional: patch,
			Escape:   true,
			Rules: []validate.Rule{
				validate.Required("Email is required."),
				validate.Pattern(emailPattern, "Please fill a valid email address."),
			},
		},
	}
}

// UserRepository provides typed access to stored users.
type UserRepository struct {
	store storage.Store
}

// NewUserRepository creates a repository over the given store.
func NewUserRepository(store storage.Store) *UserRepository {
	return &UserRepository{store: store}
}

// List returns all users ordered by name.
func (r *UserRepository) List(ctx context.Context) ([]User, error) {
	records, err := r.store.FindAll(ctx, CollectionUsers, userSortField)
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(records))
	for _, rec := range records {
		users = append(users, userFromRecord(rec))
	}
	return users, nil
}

// Get returns the user with the given id. A malformed id yields
// ErrInvalidID without touching the store.
func (r *UserRepository) Get(ctx context.Context, id string) (*User, error) {
	if !objectid.Valid(id) {
		return nil, ErrInvalidID
	}
	rec, err := r.store.FindByID(ctx, CollectionUsers, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Entity: TypeUser}
	}
	if err != nil {
		return nil, err
	}
	u := userFromRecord(rec)
	return &u, nil
}

// Create persists a new user with a fresh identity and timestamps.
func (r *UserRepository) Create(ctx context.Context, u User) (*User, error) {
	now := nowISO()
	u.JoinedAt = now
	u.UpdatedAt = now
	id, err := r.store.Insert(ctx, CollectionUsers, u.record())
	if err != nil {
		return nil, err
	}
	u.ID = id
	return &u, nil
}

// Update replaces the user's fields and refreshes the update timestamp.
func (r *UserRepository) Update(ctx context.Context, id string, u User) (*User, error) {
	if !objectid.Valid(id) {
		return nil, ErrInvalidID
	}
	u.UpdatedAt = nowISO()
	rec, err := r.store.UpdateByID(ctx, CollectionUsers, id, u.record())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Entity: TypeUser}
	}
	if err != nil {
		return nil, err
	}
	out := userFromRecord(rec)
	return &out, nil
}

// Delete removes the user and returns it as stored.
func (r *UserRepository) Delete(ctx context.Context, id string) (*User, error) {
	if !objectid.Valid(id) {
		return nil, ErrInvalidID
	}
	rec, err := r.store.DeleteByID(ctx, CollectionUsers, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Entity: TypeUser}
	}
	if err != nil {
		return nil, err
	}
	out := userFromRecord(rec)
	return &out, nil
}

// ListUsers returns all users ordered by name.
func (e *Engine) ListUsers(ctx context.Context) ([]User, error) {
	return e.users.List(ctx)
}

// UserDetail returns one user plus the ids of the posts and comments that
// reference it.
func (e *Engine) UserDetail(ctx context.Context, id string) (*UserDetail, error) {
	user, err := e.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	deps, err := e.guard.DependentsOf(ctx, TypeUser, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserDetail{
		User:       *user,
		PostIDs:    orEmpty(deps.PostIDs),
		CommentIDs: orEmpty(deps.CommentIDs),
	}, nil
}

// CreateUser validates and persists a new user. On field errors it
// returns the best-effort sanitized, unsaved user together with the
// errors and writes nothing.
func (e *Engine) CreateUser(ctx context.Context, fields map[string]string) (*User, []validate.FieldError, error) {
	res := validate.Run(fields, userChains(false))
	user := User{Name: res.Values["name"], Email: res.Values["email"]}
	if len(res.Errors) > 0 {
		return &user, res.Errors, nil
	}

	created, err := e.users.Create(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Info("user created", "id", created.ID)
	return created, nil, nil
}

// UpdateUser merges the patch with the stored user: an absent or empty
// patch field keeps the stored value.
func (e *Engine) UpdateUser(ctx context.Context, id string, fields map[string]string) (*User, []validate.FieldError, error) {
	existing, err := e.users.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	res := validate.Run(fields, userChains(true))
	merged := *existing
	if v, ok := res.Values["name"]; ok {
		merged.Name = v
	}
	if v, ok := res.Values["email"]; ok {
		merged.Email = v
	}
	if len(res.Errors) > 0 {
		return &merged, res.Errors, nil
	}

	updated, err := e.users.Update(ctx, id, merged)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Info("user updated", "id", updated.ID)
	return updated, nil, nil
}

// DeleteUser removes the user unless posts or comments still reference
// it, in which case it returns the user and the blocking dependent ids
// and deletes nothing.
//
// The dependents check and the delete are separate store calls: a
// dependent created in between survives with a dangling reference.
// Check-then-act, not atomic across records.
func (e *Engine) DeleteUser(ctx context.Context, id string) (*User, *Dependents, error) {
	user, err := e.users.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	deps, err := e.guard.DependentsOf(ctx, TypeUser, user.ID)
	if err != nil {
		return nil, nil, err
	}
	if !deps.Empty() {
		e.logger.Info("user delete blocked",
			"id", user.ID,
			"posts", len(deps.PostIDs),
			"comments", len(deps.CommentIDs),
		)
		return user, &deps, nil
	}

	removed, err := e.users.Delete(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Info("user deleted", "id", removed.ID)
	return removed, nil, nil
}
