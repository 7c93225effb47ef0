package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tendant/simple-blog/pkg/domain"
)

// Purpose is the operation a token authorizes.
type Purpose string

const (
	PurposeAccess       Purpose = "access"
	PurposeConfirmation Purpose = "confirmation"
)

// Token lifetimes are fixed policy.
const (
	AccessTokenLifetime       = 30 * time.Minute
	ConfirmationTokenLifetime = 24 * time.Hour

	secretLen = 32
)

// TokenConfig holds token codec configuration.
type TokenConfig struct {
	// Secret signs and verifies tokens. Replicas must share it.
	Secret []byte
	// Issuer is written to the iss claim when set.
	Issuer string
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// TokenClaims are the claims carried by every token.
type TokenClaims struct {
	jwt.RegisteredClaims
	Type Purpose `json:"type,omitempty"`
}

// TokenCodec issues and decodes signed, expiring, typed tokens (HS256 JWTs).
// It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenCodec creates a token codec.
func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &TokenCodec{
		secret: secret,
		issuer: cfg.Issuer,
		now:    cfg.Now,
	}, nil
}

// GenerateSecret returns a random signing secret. Tokens signed with it do not
// survive a process restart.
func GenerateSecret() ([]byte, error) {
	secret := make([]byte, secretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate token secret: %w", err)
	}
	return secret, nil
}

// Issue signs a token for subject that expires lifetime from now.
func (c *TokenCodec) Issue(subject string, purpose Purpose, lifetime time.Duration) (string, error) {
	now := c.now().UTC()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
		Type: purpose,
	}
	return c.sign(claims)
}

// IssueAccess issues an access token with the fixed access lifetime.
func (c *TokenCodec) IssueAccess(subject string) (string, error) {
	return c.Issue(subject, PurposeAccess, AccessTokenLifetime)
}

// IssueConfirmation issues an email confirmation token with the fixed confirmation lifetime.
func (c *TokenCodec) IssueConfirmation(subject string) (string, error) {
	return c.Issue(subject, PurposeConfirmation, ConfirmationTokenLifetime)
}

// Decode validates tokenString and returns its subject. Checks run in order:
// signature, expiry, purpose, subject. The first failure is returned.
func (c *TokenCodec) Decode(tokenString string, expected Purpose) (string, error) {
	claims := &TokenClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenMalformed
	}

	if claims.Type != expected {
		return "", fmt.Errorf("%w, expected '%s'", domain.ErrTokenPurposeMismatch, expected)
	}

	if claims.Subject == "" {
		return "", domain.ErrTokenMissingSubject
	}

	return claims.Subject, nil
}

func (c *TokenCodec) sign(claims TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
