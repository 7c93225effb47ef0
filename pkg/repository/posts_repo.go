package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-blog/pkg/domain"
)

var postOrder = map[domain.PostSorting]string{
	domain.SortNewest:    "p.created_at DESC, p.id",
	domain.SortOldest:    "p.created_at ASC, p.id",
	domain.SortMostLikes: "likes DESC, p.created_at DESC, p.id",
}

// PostsRepository handles post persistence.
type PostsRepository struct {
	db DBTX
}

// NewPostsRepository creates a new posts repository.
func NewPostsRepository(db DBTX) *PostsRepository {
	return &PostsRepository{db: db}
}

// Create inserts a new post.
func (r *PostsRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, user_id, body, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, post.ID, post.UserID, post.Body, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post with its like count.
func (r *PostsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PostWithLikes, error) {
	query := `
		SELECT p.id, p.user_id, p.body, p.created_at, COUNT(l.id) AS likes
		FROM posts p
		LEFT JOIN likes l ON l.post_id = p.id
		WHERE p.id = $1
		GROUP BY p.id
	`
	post := &domain.PostWithLikes{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.UserID, &post.Body, &post.CreatedAt, &post.Likes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// List returns all posts with like counts in the requested order. An unknown
// sorting falls back to newest first.
func (r *PostsRepository) List(ctx context.Context, sorting domain.PostSorting) ([]domain.PostWithLikes, error) {
	order, ok := postOrder[sorting]
	if !ok {
		order = postOrder[domain.SortNewest]
	}

	query := `
		SELECT p.id, p.user_id, p.body, p.created_at, COUNT(l.id) AS likes
		FROM posts p
		LEFT JOIN likes l ON l.post_id = p.id
		GROUP BY p.id
		ORDER BY ` + order

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.PostWithLikes{}
	for rows.Next() {
		var p domain.PostWithLikes
		if err := rows.Scan(&p.ID, &p.UserID, &p.Body, &p.CreatedAt, &p.Likes); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}
