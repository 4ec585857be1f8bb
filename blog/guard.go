package blog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jacentio/quill/storage"
)

// Dependents enumerates the child record ids that reference a parent,
// partitioned by type. A non-empty value blocks the parent's delete.
type Dependents struct {
	PostIDs    []string `json:"postsId,omitempty"`
	CommentIDs []string `json:"commentsId,omitempty"`
}

// Empty reports whether no dependents exist.
func (d Dependents) Empty() bool {
	return len(d.PostIDs) == 0 && len(d.CommentIDs) == 0
}

// BlockMessage explains why the parent cannot be deleted, naming the
// dependent types that exist.
func (d Dependents) BlockMessage(parentType string) string {
	var what string
	switch {
	case len(d.PostIDs) > 0 && len(d.CommentIDs) > 0:
		what = "posts and comments"
	case len(d.PostIDs) > 0:
		what = "posts"
	default:
		what = "comments"
	}
	return fmt.Sprintf("All %s associated with %s must be deleted prior to deleting %s.", what, parentType, parentType)
}

// Guard computes the dependent children of parent entities.
type Guard struct {
	store    storage.Store
	registry *Registry
}

// NewGuard creates a guard over the given store and registry.
func NewGuard(store storage.Store, registry *Registry) *Guard {
	return &Guard{store: store, registry: registry}
}

// DependentsOf returns the ids of all child records referencing the given
// parent. One query runs per registered child relationship, concurrently;
// every query failure is reported.
func (g *Guard) DependentsOf(ctx context.Context, parentType, id string) (Dependents, error) {
	rels := g.registry.ChildrenOf(parentType)
	if len(rels) == 0 {
		return Dependents{}, nil
	}

	byChild := make([][]string, len(rels))
	errs := make([]error, len(rels))
	var wg sync.WaitGroup

	for i, rel := range rels {
		wg.Add(1)
		go func(i int, rel Relationship) {
			defer wg.Done()
			records, err := g.store.FindWhere(ctx, rel.Collection, rel.ForeignKey, id, []string{"id"})
			if err != nil {
				errs[i] = fmt.Errorf("dependents %s of %s: %w", rel.ChildType, parentType, err)
				return
			}
			ids := make([]string, 0, len(records))
			for _, rec := range records {
				ids = append(ids, rec["id"])
			}
			byChild[i] = ids
		}(i, rel)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return Dependents{}, err
	}

	var deps Dependents
	for i, rel := range rels {
		switch rel.ChildType {
		case TypePost:
			deps.PostIDs = append(deps.PostIDs, byChild[i]...)
		case TypeComment:
			deps.CommentIDs = append(deps.CommentIDs, byChild[i]...)
		}
	}
	return deps, nil
}
