package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry written by a user.
type Post struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Body      string
	CreatedAt time.Time
}

// PostWithLikes is a post together with its like count.
type PostWithLikes struct {
	Post
	Likes int
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	UserID    uuid.UUID
	Body      string
	CreatedAt time.Time
}

// Like records that a user liked a post. A user likes a post at most once.
type Like struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// PostSorting controls the order of post listings.
type PostSorting string

const (
	SortNewest    PostSorting = "new"
	SortOldest    PostSorting = "old"
	SortMostLikes PostSorting = "most_likes"
)

// Valid reports whether s is a known sorting.
func (s PostSorting) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortMostLikes:
		return true
	}
	return false
}
