package resumes

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"career-backend/internal/shared/server/middleware"
	"career-backend/internal/shared/server/respond"
)

// maxImportBytes caps uploaded resume PDFs at 10 MiB.
const maxImportBytes = 10 << 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/resume", h.save)
	rg.GET("/resume", h.get)
	rg.POST("/resume/improve", h.improve)
	rg.POST("/resume/import", h.importPDF)
}

type saveRequest struct {
	Content string `json:"content"`
}

func (h *Handler) save(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	resume, err := h.Svc.Save(c.Request.Context(), userID, req.Content)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save resume", nil)
		return
	}
	respond.JSON(c, http.StatusOK, resume)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	resume, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch resume", nil)
		return
	}
	respond.JSON(c, http.StatusOK, resume)
}

func (h *Handler) improve(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req ImproveInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	improved, err := h.Svc.Improve(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrProfileNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
		case errors.Is(err, ErrImprove):
			respond.Error(c, http.StatusBadGateway, "upstream_error", ErrImprove.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to improve content", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"content": improved})
}

func (h *Handler) importPDF(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file field is required", nil)
		return
	}
	defer file.Close()

	if header.Size > maxImportBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds 10MB limit", nil)
		return
	}
	contentType := strings.ToLower(strings.Split(header.Header.Get("Content-Type"), ";")[0])
	if contentType != "" && contentType != "application/pdf" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "only PDF uploads are supported", nil)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImportBytes+1))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	if len(data) > maxImportBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds 10MB limit", nil)
		return
	}

	text, err := h.Svc.Import(c.Request.Context(), userID, data)
	if err != nil {
		if errors.Is(err, ErrExtract) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to import resume", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"content": text})
}
