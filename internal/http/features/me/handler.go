package me

import (
	"net/http"
	"time"

	"github.com/tendant/simple-blog/internal/http/middleware"
	"github.com/tendant/simple-blog/internal/httputil"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

// GetMe returns the authenticated user's profile.
// GET /me
func GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	httputil.JSON(w, http.StatusOK, UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Confirmed: user.Confirmed,
		CreatedAt: user.CreatedAt,
	})
}
