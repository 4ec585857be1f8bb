// Package blog implements the integrity-checked mutation engine over
// users, posts, and comments: validated creation, merge-with-fallback
// updates, and deletes guarded against live dependents.
package blog

import (
	"time"

	"github.com/jacentio/quill/storage"
)

// Collection names in the underlying store.
const (
	CollectionUsers    = "users"
	CollectionPosts    = "posts"
	CollectionComments = "comments"
)

// Entity type names used by the relationship registry.
const (
	TypeUser    = "user"
	TypePost    = "post"
	TypeComment = "comment"
)

// User is an author account. Name and email are validated before any
// write; the creation timestamp is exposed as joinedAt.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	JoinedAt  string `json:"joinedAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Post belongs to a User. UserID is immutable after creation.
type Post struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Comment belongs to both a Post and a User. Both references are
// immutable after creation.
type Comment struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	UserID    string `json:"userId"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// UserDetail is a User plus the ids of dependent posts and comments.
// The arrays are read-only composition, not stored fields.
type UserDetail struct {
	User
	PostIDs    []string `json:"postsId"`
	CommentIDs []string `json:"commentsId"`
}

// PostDetail is a Post plus the ids of dependent comments.
type PostDetail struct {
	Post
	CommentIDs []string `json:"commentsId"`
}

func (u User) record() storage.Record {
	return storage.Record{
		"name":      u.Name,
		"email":     u.Email,
		"joinedAt":  u.JoinedAt,
		"updatedAt": u.UpdatedAt,
	}
}

func userFromRecord(rec storage.Record) User {
	return User{
		ID:        rec["id"],
		Name:      rec["name"],
		Email:     rec["email"],
		JoinedAt:  rec["joinedAt"],
		UpdatedAt: rec["updatedAt"],
	}
}

func (p Post) record() storage.Record {
	return storage.Record{
		"userId":    p.UserID,
		"title":     p.Title,
		"text":      p.Text,
		"createdAt": p.CreatedAt,
		"updatedAt": p.UpdatedAt,
	}
}

func postFromRecord(rec storage.Record) Post {
	return Post{
		ID:        rec["id"],
		UserID:    rec["userId"],
		Title:     rec["title"],
		Text:      rec["text"],
		CreatedAt: rec["createdAt"],
		UpdatedAt: rec["updatedAt"],
	}
}

func (c Comment) record() storage.Record {
	return storage.Record{
		"postId":    c.PostID,
		"userId":    c.UserID,
		"text":      c.Text,
		"createdAt": c.CreatedAt,
		"updatedAt": c.UpdatedAt,
	}
}

func commentFromRecord(rec storage.Record) Comment {
	return Comment{
		ID:        rec["id"],
		PostID:    rec["postId"],
		UserID:    rec["userId"],
		Text:      rec["text"],
		CreatedAt: rec["createdAt"],
		UpdatedAt: rec["updatedAt"],
	}
}

// nowISO returns the current time in the stored timestamp format.
func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// orEmpty normalizes a nil id slice to an empty one so detail responses
// always carry arrays.
func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
