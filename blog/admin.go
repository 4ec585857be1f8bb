package blog

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Counts holds per-entity record totals.
type Counts struct {
	Users    int64 `json:"numUsers"`
	Posts    int64 `json:"numPosts"`
	Comments int64 `json:"numComments"`
}

// WipeResult reports how many records WipeAll removed per entity.
type WipeResult struct {
	Users    int64 `json:"users"`
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
}

// adminCollections lists every collection the admin operations touch.
var adminCollections = []string{CollectionUsers, CollectionPosts, CollectionComments}

// CountAll counts every collection. The three counts run concurrently;
// if several fail, every failure is reported.
func (e *Engine) CountAll(ctx context.Context) (*Counts, error) {
	totals := make([]int64, len(adminCollections))
	errs := make([]error, len(adminCollections))
	var wg sync.WaitGroup

	for i, collection := range adminCollections {
		wg.Add(1)
		go func(i int, collection string) {
			defer wg.Done()
			n, err := e.store.Count(ctx, collection)
			if err != nil {
				errs[i] = fmt.Errorf("count %s: %w", collection, err)
				return
			}
			totals[i] = n
		}(i, collection)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Counts{Users: totals[0], Posts: totals[1], Comments: totals[2]}, nil
}

// WipeAll unconditionally removes every record of every type. It is an
// administrative override that bypasses the integrity guard; it is not
// reachable through the per-entity delete operations.
func (e *Engine) WipeAll(ctx context.Context) (*WipeResult, error) {
	removed := make([]int64, len(adminCollections))
	errs := make([]error, len(adminCollections))
	var wg sync.WaitGroup

	for i, collection := range adminCollections {
		wg.Add(1)
		go func(i int, collection string) {
			defer wg.Done()
			n, err := e.store.DeleteAll(ctx, collection)
			removed[i] = n
			if err != nil {
				errs[i] = fmt.Errorf("wipe %s: %w", collection, err)
			}
		}(i, collection)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	e.logger.Info("all records wiped",
		"users", removed[0],
		"posts", removed[1],
		"comments", removed[2],
	)
	return &WipeResult{Users: removed[0], Posts: removed[1], Comments: removed[2]}, nil
}
