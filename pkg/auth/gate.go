package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tendant/simple-blog/pkg/domain"
)

// AccessGate turns a bearer token into the authenticated principal.
type AccessGate struct {
	codec *TokenCodec
	users UserLookup
}

// NewAccessGate creates an access gate.
func NewAccessGate(codec *TokenCodec, users UserLookup) *AccessGate {
	return &AccessGate{
		codec: codec,
		users: users,
	}
}

// Resolve decodes an access token and loads the user it names. Token errors
// from the codec are returned unchanged. A valid token whose subject no longer
// exists yields domain.ErrUnknownSubject.
func (g *AccessGate) Resolve(ctx context.Context, token string) (*domain.User, error) {
	email, err := g.codec.Decode(token, PurposeAccess)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnknownSubject
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	return user, nil
}

// IsAuthError reports whether err is a client-fault authentication failure
// (as opposed to an infrastructure error).
func IsAuthError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidCredentials,
		domain.ErrUnconfirmedAccount,
		domain.ErrTokenExpired,
		domain.ErrTokenMalformed,
		domain.ErrTokenMissingSubject,
		domain.ErrTokenPurposeMismatch,
		domain.ErrUnknownSubject,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
