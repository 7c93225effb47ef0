package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-blog/pkg/domain"
)

// CommentsRepository handles comment persistence.
type CommentsRepository struct {
	db DBTX
}

// NewCommentsRepository creates a new comments repository.
func NewCommentsRepository(db DBTX) *CommentsRepository {
	return &CommentsRepository{db: db}
}

// Create inserts a comment. A missing post yields domain.ErrPostNotFound.
func (r *CommentsRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, user_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.UserID, comment.Body, comment.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return domain.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListByPost returns the comments on a post, oldest first.
func (r *CommentsRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	query := `
		SELECT id, post_id, user_id, body, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC, id
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
