package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"manova/internal/model"
	"manova/internal/repository"
	"manova/internal/transport/rest/middleware"
)

// PostHandler handles community posts.
type PostHandler struct {
	posts repository.PostRepo
	users repository.UserRepo
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts repository.PostRepo, users repository.UserRepo) *PostHandler {
	return &PostHandler{posts: posts, users: users}
}

type createPostRequest struct {
	Body string `json:"body"`
}

// Create handles POST /v1/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Body == "" {
		writeError(w, http.StatusBadRequest, "body is required")
		return
	}

	author := "anonymous"
	if user, err := h.users.GetByID(r.Context(), userID); err == nil {
		author = user.DisplayName
	}

	post := &model.Post{
		UserID: userID,
		Author: author,
		Body:   req.Body,
	}
	if err := h.posts.Create(r.Context(), post); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// List handles GET /v1/posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	writeJSON(w, http.StatusOK, posts)
}

// Like handles POST /v1/posts/{id}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Like(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"liked": true})
}
