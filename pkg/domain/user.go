package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the stored credential record for an account.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Confirmed    bool
	CreatedAt    time.Time
}
