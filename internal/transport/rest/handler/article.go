package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"manova/internal/model"
	"manova/internal/repository"
)

// ArticleHandler serves wellness articles.
type ArticleHandler struct {
	articles repository.ArticleRepo
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(articles repository.ArticleRepo) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// List handles GET /v1/articles
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.List(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load articles")
		return
	}
	if articles == nil {
		articles = []*model.Article{}
	}

	writeJSON(w, http.StatusOK, articles)
}

// Get handles GET /v1/articles/{id}
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}

	writeJSON(w, http.StatusOK, article)
}
