package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-blog/internal/config"
	"github.com/tendant/simple-blog/internal/http/features/me"
	"github.com/tendant/simple-blog/internal/http/features/post"
	"github.com/tendant/simple-blog/internal/http/features/user"
	"github.com/tendant/simple-blog/internal/http/middleware"
	"github.com/tendant/simple-blog/internal/httputil"
	"github.com/tendant/simple-blog/internal/notification"
	"github.com/tendant/simple-blog/pkg/auth"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger *slog.Logger

	Users          user.Store
	Authenticator  user.Authenticator
	Gate           middleware.PrincipalResolver
	TokenCodec     *auth.TokenCodec
	Hasher         auth.PasswordHasher
	PasswordPolicy *auth.PasswordPolicy
	Sender         notification.Sender // nil disables confirmation email

	Posts    post.PostStore
	Comments post.CommentStore
	Likes    post.LikeStore

	AppBaseURL      string
	RateLimitConfig config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	Validation      config.ValidationConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)
	requireAuth := middleware.Auth(cfg.Gate, cfg.Logger)

	// Account routes
	userHandler := user.NewHandler(
		cfg.Logger,
		cfg.Users,
		cfg.Authenticator,
		cfg.TokenCodec,
		cfg.Hasher,
		cfg.PasswordPolicy,
		cfg.Sender,
		user.Config{
			AppBaseURL:            cfg.AppBaseURL,
			StrictEmailValidation: cfg.Validation.StrictEmailValidation,
			BlockDisposableEmail:  cfg.Validation.BlockDisposableEmail,
		},
	)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters.Auth)
		r.Post("/register", userHandler.Register)
		r.Post("/token", userHandler.Token)
	})
	r.With(rateLimiters.Confirm).Get("/confirm/{token}", userHandler.Confirm)
	r.With(requireAuth).Get("/me", me.GetMe)

	// Blog routes
	postHandler := post.NewHandler(cfg.Logger, cfg.Posts, cfg.Comments, cfg.Likes, cfg.Validation.MaxBodyLength)
	r.Get("/post", postHandler.ListPosts)
	r.Get("/post/{id}", postHandler.GetPost)
	r.Get("/post/{id}/comment", postHandler.ListComments)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters.Write)
		r.Use(requireAuth)
		r.Post("/post", postHandler.CreatePost)
		r.Post("/comment", postHandler.CreateComment)
		r.Post("/like", postHandler.Like)
	})

	return r
}
