package assessments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"career-backend/internal/shared/server/middleware"
	"career-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interview/quiz", h.generateQuiz)
	rg.POST("/interview/assessments", h.saveResult)
	rg.GET("/interview/assessments", h.list)
}

func (h *Handler) generateQuiz(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	questions, err := h.Svc.GenerateQuiz(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
		case errors.Is(err, ErrNotOnboarded):
			respond.Error(c, http.StatusBadRequest, "validation_error", "complete onboarding to take a quiz", nil)
		case errors.Is(err, ErrQuizGeneration):
			respond.Error(c, http.StatusBadGateway, "upstream_error", ErrQuizGeneration.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate quiz", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"questions": questions})
}

type saveResultRequest struct {
	Questions []Question `json:"questions"`
	Answers   []string   `json:"answers"`
	Score     float64    `json:"score"`
}

func (h *Handler) saveResult(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req saveResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	assessment, err := h.Svc.SaveResult(c.Request.Context(), userID, req.Questions, req.Answers, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save quiz result", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, assessment)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	assessments, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch assessments", nil)
		return
	}
	respond.JSON(c, http.StatusOK, assessments)
}
