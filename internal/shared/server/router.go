package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"career-backend/internal/assessments"
	googleauth "career-backend/internal/auth"
	"career-backend/internal/coverletters"
	"career-backend/internal/insights"
	"career-backend/internal/resumes"
	"career-backend/internal/shared/config"
	"career-backend/internal/shared/metrics"
	"career-backend/internal/shared/server/middleware"
	"career-backend/internal/shared/server/respond"
	"career-backend/internal/users"
)

const llmRateLimitGroup = "LLM"

// RouterDeps carries the handlers and shared services the router wires up.
type RouterDeps struct {
	Config              config.Config
	UsersHandler        *users.Handler
	AssessmentsHandler  *assessments.Handler
	InsightsHandler     *insights.Handler
	CoverLettersHandler *coverletters.Handler
	ResumesHandler      *resumes.Handler
	GoogleAuth          *googleauth.GoogleService
	Metrics             *metrics.Collector
	RateLimiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT":         {Rate: rate.Limit(2), Burst: 120},
				llmRateLimitGroup: {Rate: rate.Limit(0.2), Burst: 10},
			},
			GroupFor: rateLimitGroup,
			Limiter:  deps.RateLimiter,
		}),
	)

	if deps.Metrics != nil {
		r.GET("/metrics", deps.Metrics.Handler())
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	deps.UsersHandler.RegisterRoutes(api)
	deps.AssessmentsHandler.RegisterRoutes(api)
	deps.InsightsHandler.RegisterRoutes(api)
	deps.CoverLettersHandler.RegisterRoutes(api)
	deps.ResumesHandler.RegisterRoutes(api)

	return r
}

// rateLimitGroup routes model-backed endpoints into a stricter bucket.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.Request.URL.Path {
	case "/api/v1/interview/quiz",
		"/api/v1/cover-letters",
		"/api/v1/resume/improve":
		return llmRateLimitGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
