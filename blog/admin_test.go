package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/quill/storage"
)

// faultyStore wraps a Store and fails bulk operations on the named
// collections.
type faultyStore struct {
	storage.Store
	failOn map[string]bool
}

func (s *faultyStore) Count(ctx context.Context, collection string) (int64, error) {
	if s.failOn[collection] {
		return 0, fmt.Errorf("simulated %s outage", collection)
	}
	return s.Store.Count(ctx, collection)
}

func (s *faultyStore) DeleteAll(ctx context.Context, collection string) (int64, error) {
	if s.failOn[collection] {
		return 0, fmt.Errorf("simulated %s outage", collection)
	}
	return s.Store.DeleteAll(ctx, collection)
}

func TestCountAll(t *testing.T) {
	e, _ := newTestEngine(t)
	user := mustCreateUser(t, e, "Ada Lovelace", "ada@example.com")
	post := mustCreatePost(t, e, user.ID, "Hello", "World")
	mustCreateComment(t, e, post.ID, user.ID, "Nice!")
	mustCreateComment(t, e, post.ID, user.ID, "Very nice!")

	counts, err := e.CountAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.Users)
	assert.EqualValues(t, 1, counts.Posts)
	assert.EqualValues(t, 2, counts.Comments)
}

func TestWipeAll_BypassesIntegrityGuard(t *testing.T) {
	e, store := newTestEngine(t)
	user := mustCreateUser(t, e, "Ada Lovelace", "ada@example.com")
	post := mustCreatePost(t, e, user.ID, "Hello", "World")
	mustCreateComment(t, e, post.ID, user.ID, "Nice!")

	// The per-entity delete would refuse; the wipe must not.
	result, err := e.WipeAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Users)
	assert.EqualValues(t, 1, result.Posts)
	assert.EqualValues(t, 1, result.Comments)

	for _, collection := range adminCollections {
		n, err := store.Count(context.Background(), collection)
		require.NoError(t, err)
		assert.Zero(t, n, collection)
	}
}

func TestCountAll_ReportsEveryFailure(t *testing.T) {
	store := &faultyStore{
		Store:  storage.NewMemory(),
		failOn: map[string]bool{CollectionUsers: true, CollectionComments: true},
	}
	e := NewEngine(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := e.CountAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users outage")
	assert.Contains(t, err.Error(), "comments outage")
}

func TestWipeAll_FailureInOneDoesNotSuppressOthers(t *testing.T) {
	mem := storage.NewMemory()
	store := &faultyStore{Store: mem, failOn: map[string]bool{CollectionPosts: true}}
	e := NewEngine(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	seed := NewEngine(mem, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mustCreateUser(t, seed, "Ada Lovelace", "ada@example.com")

	_, err := e.WipeAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "posts outage")

	// The healthy collections were still wiped.
	n, countErr := mem.Count(context.Background(), CollectionUsers)
	require.NoError(t, countErr)
	assert.Zero(t, n)
}

func TestGuard_DependentsOf(t *testing.T) {
	e, _ := newTestEngine(t)
	user := mustCreateUser(t, e, "Ada Lovelace", "ada@example.com")
	other := mustCreateUser(t, e, "Grace Hopper", "grace@example.com")
	post := mustCreatePost(t, e, user.ID, "Hello", "World")
	otherPost := mustCreatePost(t, e, other.ID, "Theirs", "Body")
	comment := mustCreateComment(t, e, post.ID, other.ID, "Nice!")

	deps, err := e.Guard().DependentsOf(context.Background(), TypeUser, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{post.ID}, deps.PostIDs)
	assert.Empty(t, deps.CommentIDs)

	deps, err = e.Guard().DependentsOf(context.Background(), TypeUser, other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{otherPost.ID}, deps.PostIDs)
	assert.Equal(t, []string{comment.ID}, deps.CommentIDs)

	// Comments have no registered children.
	deps, err = e.Guard().DependentsOf(context.Background(), TypeComment, comment.ID)
	require.NoError(t, err)
	assert.True(t, deps.Empty())
}

func TestGuard_ReportsQueryFailures(t *testing.T) {
	store := &faultyWhereStore{Store: storage.NewMemory()}
	guard := NewGuard(store, DefaultRegistry())

	_, err := guard.DependentsOf(context.Background(), TypeUser, "65b3f1a0c2d4e6f8a0b2c4d6")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errWhereFailed))
}

var errWhereFailed = errors.New("simulated query failure")

type faultyWhereStore struct {
	storage.Store
}

func (s *faultyWhereStore) FindWhere(ctx context.Context, collection, field, value string, projection []string) ([]storage.Record, error) {
	return nil, errWhereFailed
}
