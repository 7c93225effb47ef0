package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tendant/simple-blog/internal/httputil"
	"github.com/tendant/simple-blog/pkg/auth"
	"github.com/tendant/simple-blog/pkg/domain"
)

type contextKey string

// PrincipalKey is the context key for the authenticated user.
const PrincipalKey contextKey = "principal"

// PrincipalResolver resolves an access token to the user it was issued to.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// Auth creates middleware that requires a valid bearer access token and
// stores the resolved user in the request context.
func Auth(resolver PrincipalResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := httputil.BearerToken(r)
			if !ok {
				unauthorized(w, "not authenticated")
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if auth.IsAuthError(err) {
					unauthorized(w, err.Error())
					return
				}
				logger.ErrorContext(r.Context(), "failed to resolve access token", "error", err)
				httputil.Error(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the authenticated user from the request context.
func GetPrincipal(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(PrincipalKey).(*domain.User)
	return user, ok && user != nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	httputil.Error(w, http.StatusUnauthorized, message)
}
