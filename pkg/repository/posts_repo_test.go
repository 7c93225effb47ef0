package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/domain"
)

var postColumns = []string{"id", "user_id", "body", "created_at", "likes"}

func TestPostsRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostsRepository(db)

	post := &domain.Post{ID: uuid.New(), UserID: uuid.New(), Body: "first post", CreatedAt: time.Now().UTC()}

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+posts\s*\(id,\s*user_id,\s*body,\s*created_at\)`).
		WithArgs(post.ID, post.UserID, post.Body, post.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), post))
}

func TestPostsRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostsRepository(db)

	id, userID := uuid.New(), uuid.New()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT\s+p\.id,.*COUNT\(l\.id\)\s+AS\s+likes\s+FROM\s+posts\s+p\s+LEFT\s+JOIN\s+likes\s+l.*WHERE\s+p\.id\s*=\s*\$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(id.String(), userID.String(), "hello", created, int64(3)))

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "hello", got.Body)
	assert.Equal(t, 3, got.Likes)
}

func TestPostsRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostsRepository(db)

	mock.ExpectQuery(`(?s)FROM\s+posts\s+p`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestPostsRepository_List_Order(t *testing.T) {
	tests := []struct {
		sorting domain.PostSorting
		order   string
	}{
		{sorting: domain.SortNewest, order: `ORDER\s+BY\s+p\.created_at\s+DESC,\s*p\.id$`},
		{sorting: domain.SortOldest, order: `ORDER\s+BY\s+p\.created_at\s+ASC,\s*p\.id$`},
		{sorting: domain.SortMostLikes, order: `ORDER\s+BY\s+likes\s+DESC,\s*p\.created_at\s+DESC,\s*p\.id$`},
		{sorting: "bogus", order: `ORDER\s+BY\s+p\.created_at\s+DESC,\s*p\.id$`},
	}

	for _, tt := range tests {
		t.Run(string(tt.sorting), func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewPostsRepository(db)

			a, b := uuid.New(), uuid.New()
			mock.ExpectQuery(`(?s)FROM\s+posts\s+p.*GROUP\s+BY\s+p\.id\s+` + tt.order).
				WillReturnRows(sqlmock.NewRows(postColumns).
					AddRow(a.String(), uuid.New().String(), "a", time.Now(), int64(2)).
					AddRow(b.String(), uuid.New().String(), "b", time.Now(), int64(0)))

			posts, err := repo.List(context.Background(), tt.sorting)
			require.NoError(t, err)
			require.Len(t, posts, 2)
			assert.Equal(t, a, posts[0].ID)
			assert.Equal(t, 2, posts[0].Likes)
			assert.Equal(t, b, posts[1].ID)
		})
	}
}

func TestPostsRepository_List_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostsRepository(db)

	mock.ExpectQuery(`(?s)FROM\s+posts\s+p`).WillReturnRows(sqlmock.NewRows(postColumns))

	posts, err := repo.List(context.Background(), domain.SortNewest)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestCommentsRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCommentsRepository(db)

	comment := &domain.Comment{ID: uuid.New(), PostID: uuid.New(), UserID: uuid.New(), Body: "nice", CreatedAt: time.Now().UTC()}

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+comments`).
		WithArgs(comment.ID, comment.PostID, comment.UserID, comment.Body, comment.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), comment))
}

func TestCommentsRepository_Create_MissingPost(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCommentsRepository(db)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+comments`).
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

	err := repo.Create(context.Background(), &domain.Comment{ID: uuid.New(), PostID: uuid.New(), UserID: uuid.New(), Body: "x"})
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestCommentsRepository_ListByPost(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCommentsRepository(db)

	postID := uuid.New()
	mock.ExpectQuery(`(?s)FROM\s+comments\s+WHERE\s+post_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+ASC`).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "body", "created_at"}).
			AddRow(uuid.New().String(), postID.String(), uuid.New().String(), "first", time.Now()).
			AddRow(uuid.New().String(), postID.String(), uuid.New().String(), "second", time.Now()))

	comments, err := repo.ListByPost(context.Background(), postID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, postID, comments[1].PostID)
}

func TestLikesRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLikesRepository(db)

	like := &domain.Like{ID: uuid.New(), PostID: uuid.New(), UserID: uuid.New(), CreatedAt: time.Now().UTC()}
	existingID := uuid.New()

	// On conflict the stored row comes back, not the submitted one.
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+likes.*ON\s+CONFLICT\s+\(post_id,\s*user_id\).*RETURNING\s+id,\s*post_id,\s*user_id,\s*created_at`).
		WithArgs(like.ID, like.PostID, like.UserID, like.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "created_at"}).
			AddRow(existingID.String(), like.PostID.String(), like.UserID.String(), time.Now()))

	got, err := repo.Create(context.Background(), like)
	require.NoError(t, err)
	assert.Equal(t, existingID, got.ID)
	assert.Equal(t, like.PostID, got.PostID)
}

func TestLikesRepository_Create_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "missing post", err: &pq.Error{Code: "23503"}, wantErr: domain.ErrPostNotFound},
		{name: "db error", err: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewLikesRepository(db)

			mock.ExpectQuery(`(?s)INSERT\s+INTO\s+likes`).WillReturnError(tt.err)

			_, err := repo.Create(context.Background(), &domain.Like{ID: uuid.New(), PostID: uuid.New(), UserID: uuid.New()})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NotErrorIs(t, err, domain.ErrPostNotFound)
			}
		})
	}
}
