package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/jacentio/quill/internal/objectid"
)

func TestMemoryInsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	id, err := s.Insert(ctx, "users", Record{"name": "Ada", "email": "ada@example.com"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !objectid.Valid(id) {
		t.Fatalf("expected well-formed id, got %q", id)
	}

	rec, err := s.FindByID(ctx, "users", id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec["name"] != "Ada" || rec["email"] != "ada@example.com" || rec["id"] != id {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestMemoryFindByIDNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.FindByID(ctx, "users", objectid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCopyIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	in := Record{"name": "Ada"}
	id, err := s.Insert(ctx, "users", in)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	in["name"] = "mutated"

	out, err := s.FindByID(ctx, "users", id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if out["name"] != "Ada" {
		t.Errorf("stored record aliased caller map: got %q", out["name"])
	}

	out["name"] = "mutated again"
	again, _ := s.FindByID(ctx, "users", id)
	if again["name"] != "Ada" {
		t.Errorf("returned record aliased stored state: got %q", again["name"])
	}
}

func TestMemoryFindAllOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	for _, name := range []string{"Charlie", "Ada", "Bella"} {
		if _, err := s.Insert(ctx, "users", Record{"name": name}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	records, err := s.FindAll(ctx, "users", "name")
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, name := range []string{"Ada", "Bella", "Charlie"} {
		if records[i]["name"] != name {
			t.Errorf("position %d: expected %q, got %q", i, name, records[i]["name"])
		}
	}
}

func TestMemoryFindWhere(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	userID := objectid.New()
	otherID := objectid.New()
	first, _ := s.Insert(ctx, "posts", Record{"userId": userID, "title": "One"})
	second, _ := s.Insert(ctx, "posts", Record{"userId": userID, "title": "Two"})
	if _, err := s.Insert(ctx, "posts", Record{"userId": otherID, "title": "Other"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	records, err := s.FindWhere(ctx, "posts", "userId", userID, []string{"id"})
	if err != nil {
		t.Fatalf("find where: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	got := map[string]bool{}
	for _, rec := range records {
		got[rec["id"]] = true
		if _, ok := rec["title"]; ok {
			t.Errorf("projection leaked field title: %v", rec)
		}
	}
	if !got[first] || !got[second] {
		t.Errorf("expected ids %q and %q, got %v", first, second, got)
	}
}

func TestMemoryUpdateByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	id, _ := s.Insert(ctx, "users", Record{"name": "Ada", "email": "ada@example.com"})

	updated, err := s.UpdateByID(ctx, "users", id, Record{"name": "Ada L.", "email": "ada@example.com"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated["name"] != "Ada L." || updated["id"] != id {
		t.Errorf("unexpected updated record %v", updated)
	}

	_, err = s.UpdateByID(ctx, "users", objectid.New(), Record{"name": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent id, got %v", err)
	}
}

func TestMemoryDeleteByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	id, _ := s.Insert(ctx, "comments", Record{"text": "Nice!"})

	removed, err := s.DeleteByID(ctx, "comments", id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed["text"] != "Nice!" {
		t.Errorf("expected removed record, got %v", removed)
	}

	if _, err := s.FindByID(ctx, "comments", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.DeleteByID(ctx, "comments", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryCountAndDeleteAll(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	for i := 0; i < 4; i++ {
		if _, err := s.Insert(ctx, "posts", Record{"title": "t"}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	n, err := s.Count(ctx, "posts")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Errorf("expected count 4, got %d", n)
	}

	removed, err := s.DeleteAll(ctx, "posts")
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if removed != 4 {
		t.Errorf("expected 4 removed, got %d", removed)
	}

	n, _ = s.Count(ctx, "posts")
	if n != 0 {
		t.Errorf("expected empty collection, got %d", n)
	}
}

func TestMemoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemory()
	if _, err := s.Insert(ctx, "users", Record{"name": "Ada"}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
