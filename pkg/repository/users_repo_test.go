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

const (
	insertUserQuery  = `(?s)^\s*INSERT\s+INTO\s+users\s*\(id,\s*email,\s*password_hash,\s*confirmed,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`
	selectUserByMail = `(?s)SELECT\s+id,\s*email,\s*password_hash,\s*confirmed,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1`
	confirmUserQuery = `(?s)^UPDATE\s+users\s+SET\s+confirmed\s*=\s*TRUE\s+WHERE\s+email\s*=\s*\$1$`
)

var userColumns = []string{"id", "email", "password_hash", "confirmed", "created_at"}

func newUser() *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestUsersRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepository(db)
	user := newUser()

	mock.ExpectExec(insertUserQuery).
		WithArgs(user.ID, user.Email, user.PasswordHash, false, user.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), user))
}

func TestUsersRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepository(db)
	user := newUser()

	mock.ExpectExec(insertUserQuery).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUsersRepository_Create_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepository(db)

	mock.ExpectExec(insertUserQuery).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), newUser())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.NotErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUsersRepository_GetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepository(db)
	user := newUser()

	mock.ExpectQuery(selectUserByMail).
		WithArgs(user.Email).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(user.ID.String(), user.Email, user.PasswordHash, true, user.CreatedAt))

	got, err := repo.GetByEmail(context.Background(), user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.True(t, got.Confirmed)
	assert.True(t, user.CreatedAt.Equal(got.CreatedAt))
}

func TestUsersRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepository(db)

	mock.ExpectQuery(selectUserByMail).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUsersRepository_MarkConfirmed(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{name: "confirms", rows: 1},
		{name: "unknown email", rows: 0, wantErr: domain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewUsersRepository(db)

			mock.ExpectExec(confirmUserQuery).
				WithArgs("alice@example.com").
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err := repo.MarkConfirmed(context.Background(), "alice@example.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
