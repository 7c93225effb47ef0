package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tendant/simple-blog/pkg/domain"
)

// UserLookup finds credential records. Implementations return
// domain.ErrUserNotFound when no record exists.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Authenticator checks submitted email/password credentials.
type Authenticator struct {
	users  UserLookup
	hasher PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthenticator creates a new credential authenticator.
func NewAuthenticator(users UserLookup, hasher PasswordHasher) *Authenticator {
	return &Authenticator{
		users:  users,
		hasher: hasher,
	}
}

// Authenticate verifies email and password and returns the user on success.
//
// An unknown email and a wrong password both yield domain.ErrInvalidCredentials
// so callers cannot probe for registered addresses. The confirmation check runs
// only after the password matched.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := a.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Spend the same hashing work as for a real account.
			a.hasher.Verify(password, a.dummy())
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Confirmed {
		return nil, domain.ErrUnconfirmedAccount
	}

	return user, nil
}

func (a *Authenticator) dummy() string {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash("dummy-password-for-timing")
		if err == nil {
			a.dummyHash = hash
		}
	})
	return a.dummyHash
}
