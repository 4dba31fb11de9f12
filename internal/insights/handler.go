package insights

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"career-backend/internal/shared/server/middleware"
	"career-backend/internal/shared/server/respond"
)

// ProfileReader resolves the caller's industry. Implemented by an adapter
// over the users service.
type ProfileReader interface {
	IndustryFor(ctx context.Context, userID string) (string, error)
}

// ErrProfileNotFound is returned by ProfileReader implementations when the
// caller has no profile row.
var ErrProfileNotFound = errors.New("profile not found")

type Handler struct {
	Svc      *Service
	Profiles ProfileReader
}

func NewHandler(svc *Service, profiles ProfileReader) *Handler {
	return &Handler{Svc: svc, Profiles: profiles}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/insights", h.get)
}

// get serves the dashboard: the caller's industry insight, generated on
// first read for users whose industry predates the stored row.
func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	industry, err := h.Profiles.IndustryFor(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
		return
	}
	if industry == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "complete onboarding to view industry insights", nil)
		return
	}

	insight, err := h.Svc.EnsureForIndustry(c.Request.Context(), industry)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "upstream_error", "failed to load industry insights", nil)
		return
	}
	respond.JSON(c, http.StatusOK, insight)
}
