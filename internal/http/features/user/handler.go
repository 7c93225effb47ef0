package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-blog/internal/httputil"
	"github.com/tendant/simple-blog/internal/notification"
	"github.com/tendant/simple-blog/pkg/auth"
	"github.com/tendant/simple-blog/pkg/domain"
)

const emailSendTimeout = time.Minute

// Store persists accounts.
type Store interface {
	Create(ctx context.Context, user *domain.User) error
	MarkConfirmed(ctx context.Context, email string) error
}

// Authenticator checks login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// Config holds handler settings.
type Config struct {
	AppBaseURL            string
	StrictEmailValidation bool
	BlockDisposableEmail  bool
}

// Handler handles registration, login and email confirmation.
type Handler struct {
	logger *slog.Logger
	users  Store
	authn  Authenticator
	codec  *auth.TokenCodec
	hasher auth.PasswordHasher
	policy *auth.PasswordPolicy
	sender notification.Sender
	cfg    Config

	// background runs fire-and-forget work such as sending email.
	background func(func())
}

// NewHandler creates a new user handler. sender may be nil, in which case no
// confirmation email is sent and clients rely on the returned confirmation_url.
func NewHandler(
	logger *slog.Logger,
	users Store,
	authn Authenticator,
	codec *auth.TokenCodec,
	hasher auth.PasswordHasher,
	policy *auth.PasswordPolicy,
	sender notification.Sender,
	cfg Config,
) *Handler {
	return &Handler{
		logger:     logger,
		users:      users,
		authn:      authn,
		codec:      codec,
		hasher:     hasher,
		policy:     policy,
		sender:     sender,
		cfg:        cfg,
		background: func(f func()) { go f() },
	}
}

// CredentialsRequest is the body of /register and /token.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Detail          string `json:"detail"`
	ConfirmationURL string `json:"confirmation_url"`
}

// TokenResponse carries an access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// DetailResponse is a plain acknowledgement.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// Register creates an unconfirmed account and issues a confirmation link.
// POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if err := auth.ValidateEmail(email, h.cfg.StrictEmailValidation, h.cfg.BlockDisposableEmail); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.policy.ValidatePassword(req.Password); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to hash password", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			httputil.Error(w, http.StatusBadRequest, domain.ErrUserAlreadyExists.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to create user", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	token, err := h.codec.IssueConfirmation(email)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue confirmation token", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}
	confirmURL := h.cfg.AppBaseURL + "/confirm/" + token

	h.logger.InfoContext(r.Context(), "user registered", "user_id", user.ID)
	h.sendConfirmation(r.Context(), email, confirmURL)

	httputil.JSON(w, http.StatusCreated, RegisterResponse{
		Detail:          "User Created. Please confirm your email.",
		ConfirmationURL: confirmURL,
	})
}

// Token exchanges email and password for an access token.
// POST /token
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.authn.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if auth.IsAuthError(err) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			httputil.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to authenticate", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.codec.IssueAccess(user.Email)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue access token", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	httputil.JSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(auth.AccessTokenLifetime.Seconds()),
	})
}

// Confirm marks the account named by a confirmation token as confirmed.
// Confirming twice is harmless.
// GET /confirm/{token}
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	email, err := h.codec.Decode(chi.URLParam(r, "token"), auth.PurposeConfirmation)
	if err != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		httputil.Error(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.users.MarkConfirmed(r.Context(), email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httputil.Error(w, http.StatusUnauthorized, domain.ErrUnknownSubject.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to confirm user", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "confirmation failed")
		return
	}

	httputil.JSON(w, http.StatusOK, DetailResponse{Detail: "User confirmed"})
}

func (h *Handler) sendConfirmation(ctx context.Context, email, confirmURL string) {
	if h.sender == nil {
		return
	}
	// Delivery outlives the request; failures are logged only.
	ctx = context.WithoutCancel(ctx)
	h.background(func() {
		ctx, cancel := context.WithTimeout(ctx, emailSendTimeout)
		defer cancel()
		if err := h.sender.SendConfirmationEmail(ctx, email, confirmURL); err != nil {
			h.logger.ErrorContext(ctx, "failed to send confirmation email", "error", err)
		}
	})
}
