package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sweetcrumb/storefront/internal/middleware"
	"github.com/sweetcrumb/storefront/internal/quiz"
	"go.uber.org/zap"
)

// QuizRecommender defines the quiz methods needed by quiz handlers.
// Satisfied by *quiz.Quiz.
type QuizRecommender interface {
	Questions() []quiz.Question
	Recommend(c quiz.CategoryLister, answers map[string]string, limit int) (quiz.Result, error)
}

// QuizHandler serves the recommendation quiz.
type QuizHandler struct {
	quiz    QuizRecommender
	catalog quiz.CategoryLister
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(q QuizRecommender, c quiz.CategoryLister) *QuizHandler {
	return &QuizHandler{quiz: q, catalog: c}
}

// RegisterRoutes registers quiz endpoints on the given Chi router.
// Expected to be mounted at /quiz.
func (h *QuizHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Questions)
	r.Post("/recommendations", h.Recommend)
}

type recommendRequest struct {
	Answers map[string]string `json:"answers"`
	Limit   int               `json:"limit"`
}

type recommendResponse struct {
	Categories []quiz.CategoryScore `json:"categories"`
	Products   []productResponse    `json:"products"`
}

// Questions returns the quiz questions and their answers.
func (h *QuizHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.quiz.Questions())
}

// Recommend scores the submitted answers.
func (h *QuizHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.quiz.Recommend(h.catalog, req.Answers, req.Limit)
	if err != nil {
		if errors.Is(err, quiz.ErrNoAnswers) ||
			errors.Is(err, quiz.ErrUnknownQuestion) ||
			errors.Is(err, quiz.ErrUnknownAnswer) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		middleware.LoggerFromContext(r.Context()).Error("recommend", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		Categories: res.Categories,
		Products:   toProductList(res.Products),
	})
}
