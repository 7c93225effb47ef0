package post

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-blog/internal/http/middleware"
	"github.com/tendant/simple-blog/internal/httputil"
	"github.com/tendant/simple-blog/pkg/auth"
	"github.com/tendant/simple-blog/pkg/domain"
)

// PostStore persists posts.
type PostStore interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PostWithLikes, error)
	List(ctx context.Context, sorting domain.PostSorting) ([]domain.PostWithLikes, error)
}

// CommentStore persists comments.
type CommentStore interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
}

// LikeStore persists likes.
type LikeStore interface {
	Create(ctx context.Context, like *domain.Like) (*domain.Like, error)
}

// Handler handles posts, comments and likes.
type Handler struct {
	logger        *slog.Logger
	posts         PostStore
	comments      CommentStore
	likes         LikeStore
	maxBodyLength int
}

// NewHandler creates a new post handler. maxBodyLength limits post and comment
// bodies in characters; zero disables the limit.
func NewHandler(logger *slog.Logger, posts PostStore, comments CommentStore, likes LikeStore, maxBodyLength int) *Handler {
	return &Handler{
		logger:        logger,
		posts:         posts,
		comments:      comments,
		likes:         likes,
		maxBodyLength: maxBodyLength,
	}
}

// CreatePostRequest is the body of POST /post.
type CreatePostRequest struct {
	Body string `json:"body" validate:"required"`
}

// CreateCommentRequest is the body of POST /comment.
type CreateCommentRequest struct {
	Body   string `json:"body" validate:"required"`
	PostID string `json:"post_id" validate:"required,uuid"`
}

// LikeRequest is the body of POST /like.
type LikeRequest struct {
	PostID string `json:"post_id" validate:"required,uuid"`
}

// PostResponse is the public view of a post.
type PostResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int       `json:"likes"`
}

// CommentResponse is the public view of a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeResponse is the public view of a like.
type LikeResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostDetailResponse is a post with its comments.
type PostDetailResponse struct {
	Post     PostResponse      `json:"post"`
	Comments []CommentResponse `json:"comments"`
}

// CreatePost stores a post authored by the principal.
// POST /post
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req CreatePostRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	body, err := auth.SanitizeBody(req.Body, h.maxBodyLength)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	post := &domain.Post{
		ID:        uuid.New(),
		UserID:    user.ID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.posts.Create(r.Context(), post); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to create post", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	httputil.JSON(w, http.StatusCreated, toPostResponse(domain.PostWithLikes{Post: *post}))
}

// ListPosts lists posts with their like counts.
// GET /post?sorting=new|old|most_likes
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	sorting := domain.SortNewest
	if s := r.URL.Query().Get("sorting"); s != "" {
		sorting = domain.PostSorting(s)
		if !sorting.Valid() {
			httputil.Error(w, http.StatusBadRequest, "sorting must be one of: new, old, most_likes")
			return
		}
	}

	posts, err := h.posts.List(r.Context(), sorting)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list posts", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	resp := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// GetPost returns a post with its comments.
// GET /post/{id}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	comments, err := h.comments.ListByPost(r.Context(), post.ID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list comments", "error", err, "post_id", post.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to load post")
		return
	}

	httputil.JSON(w, http.StatusOK, PostDetailResponse{
		Post:     toPostResponse(*post),
		Comments: toCommentResponses(comments),
	})
}

// ListComments returns the comments on a post, oldest first.
// GET /post/{id}/comment
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	comments, err := h.comments.ListByPost(r.Context(), post.ID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list comments", "error", err, "post_id", post.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to list comments")
		return
	}

	httputil.JSON(w, http.StatusOK, toCommentResponses(comments))
}

// CreateComment attaches a comment by the principal to a post.
// POST /comment
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req CreateCommentRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	body, err := auth.SanitizeBody(req.Body, h.maxBodyLength)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		PostID:    uuid.MustParse(req.PostID),
		UserID:    user.ID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.comments.Create(r.Context(), comment); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrPostNotFound.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to create comment", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to create comment")
		return
	}

	httputil.JSON(w, http.StatusCreated, toCommentResponse(*comment))
}

// Like records that the principal likes a post. Liking twice returns the
// existing like.
// POST /like
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req LikeRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	like, err := h.likes.Create(r.Context(), &domain.Like{
		ID:        uuid.New(),
		PostID:    uuid.MustParse(req.PostID),
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrPostNotFound.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to like post", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to like post")
		return
	}

	httputil.JSON(w, http.StatusCreated, LikeResponse{
		ID:        like.ID.String(),
		PostID:    like.PostID.String(),
		UserID:    like.UserID.String(),
		CreatedAt: like.CreatedAt,
	})
}

// loadPost resolves the {id} path parameter. Unparseable ids are reported as
// missing posts.
func (h *Handler) loadPost(w http.ResponseWriter, r *http.Request) (*domain.PostWithLikes, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusNotFound, domain.ErrPostNotFound.Error())
		return nil, false
	}

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrPostNotFound.Error())
			return nil, false
		}
		h.logger.ErrorContext(r.Context(), "failed to load post", "error", err, "post_id", id)
		httputil.Error(w, http.StatusInternalServerError, "failed to load post")
		return nil, false
	}
	return post, true
}

func toPostResponse(p domain.PostWithLikes) PostResponse {
	return PostResponse{
		ID:        p.ID.String(),
		UserID:    p.UserID.String(),
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		Likes:     p.Likes,
	}
}

func toCommentResponse(c domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		PostID:    c.PostID.String(),
		UserID:    c.UserID.String(),
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func toCommentResponses(comments []domain.Comment) []CommentResponse {
	resp := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, toCommentResponse(c))
	}
	return resp
}
