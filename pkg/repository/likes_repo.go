package repository

import (
	"context"
	"fmt"

	"github.com/tendant/simple-blog/pkg/domain"
)

// LikesRepository handles like persistence.
type LikesRepository struct {
	db DBTX
}

// NewLikesRepository creates a new likes repository.
func NewLikesRepository(db DBTX) *LikesRepository {
	return &LikesRepository{db: db}
}

// Create records a like and returns the stored row. Liking a post twice
// returns the existing like. A missing post yields domain.ErrPostNotFound.
func (r *LikesRepository) Create(ctx context.Context, like *domain.Like) (*domain.Like, error) {
	query := `
		INSERT INTO likes (id, post_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (post_id, user_id) DO UPDATE SET post_id = EXCLUDED.post_id
		RETURNING id, post_id, user_id, created_at
	`
	stored := &domain.Like{}
	err := r.db.QueryRowContext(ctx, query, like.ID, like.PostID, like.UserID, like.CreatedAt).Scan(
		&stored.ID, &stored.PostID, &stored.UserID, &stored.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create like: %w", err)
	}
	return stored, nil
}
