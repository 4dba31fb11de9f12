package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"career-backend/internal/assessments"
	googleauth "career-backend/internal/auth"
	"career-backend/internal/coverletters"
	"career-backend/internal/insights"
	"career-backend/internal/llm"
	"career-backend/internal/resumes"
	"career-backend/internal/shared/config"
	"career-backend/internal/shared/metrics"
	"career-backend/internal/shared/server"
	"career-backend/internal/shared/server/middleware"
	"career-backend/internal/shared/storage/db"
	"career-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	Metrics     *metrics.Collector
	LLM         llm.Provider
	RateLimiter *middleware.RateLimiter

	UsersRepo        users.Repo
	InsightsRepo     insights.Repo
	AssessmentsRepo  assessments.Repo
	CoverLettersRepo coverletters.Repo
	ResumesRepo      resumes.Repo

	UsersService        *users.Service
	InsightsService     *insights.Service
	AssessmentsService  *assessments.Service
	CoverLettersService *coverletters.Service
	ResumesService      *resumes.Service

	UsersHandler        *users.Handler
	InsightsHandler     *insights.Handler
	AssessmentsHandler  *assessments.Handler
	CoverLettersHandler *coverletters.Handler
	ResumesHandler      *resumes.Handler
	GoogleAuth          *googleauth.GoogleService
}

// BuildOptions allows tests to substitute pieces of the dependency graph.
type BuildOptions struct {
	// LLM, when set, replaces the provider config would pick.
	LLM llm.Provider
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config, opts ...BuildOptions) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var override BuildOptions
	if len(opts) > 0 {
		override = opts[0]
	}
	provider := override.LLM
	if provider == nil {
		provider, err = buildLLM(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Metrics:     metrics.NewCollector(),
		LLM:         provider,
		RateLimiter: middleware.NewRateLimiter(0),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		UsersHandler:        app.UsersHandler,
		AssessmentsHandler:  app.AssessmentsHandler,
		InsightsHandler:     app.InsightsHandler,
		CoverLettersHandler: app.CoverLettersHandler,
		ResumesHandler:      app.ResumesHandler,
		GoogleAuth:          app.GoogleAuth,
		Metrics:             app.Metrics,
		RateLimiter:         app.RateLimiter,
	})

	return app, nil
}

// Close releases background resources held by the app.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.RateLimiter != nil {
		a.RateLimiter.Stop()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "", "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: GEMINI_API_KEY empty; model calls will fail until configured")
				return llm.WithRetry(unconfiguredProvider{model: cfg.LLMModel}, llm.DefaultRetryConfig()), nil
			}
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		provider, err := llm.NewGeminiProvider(ctx, llm.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.LLMModel,
		})
		if err != nil {
			return nil, fmt.Errorf("build gemini provider: %w", err)
		}
		return llm.WithRetry(provider, llm.DefaultRetryConfig()), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.InsightsRepo = &insights.PGRepo{DB: app.DB}
		app.AssessmentsRepo = &assessments.PGRepo{DB: app.DB}
		app.CoverLettersRepo = &coverletters.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.InsightsRepo = insights.NewMemoryRepo()
		app.AssessmentsRepo = assessments.NewMemoryRepo()
		app.CoverLettersRepo = coverletters.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
	}

	app.InsightsService = &insights.Service{
		Repo:    app.InsightsRepo,
		LLM:     app.LLM,
		Metrics: app.Metrics,
	}

	app.UsersService = &users.Service{
		Repo:      app.UsersRepo,
		Insights:  insightAdapter{svc: app.InsightsService},
		DB:        app.DB,
		TxTimeout: app.Config.ProfileTxTimeout,
	}

	profiles := profileAdapter{svc: app.UsersService}

	app.AssessmentsService = &assessments.Service{
		Repo:     app.AssessmentsRepo,
		Profiles: profiles,
		LLM:      app.LLM,
		Metrics:  app.Metrics,
	}
	app.CoverLettersService = &coverletters.Service{
		Repo:     app.CoverLettersRepo,
		Profiles: profiles,
		LLM:      app.LLM,
		Metrics:  app.Metrics,
	}
	app.ResumesService = &resumes.Service{
		Repo:     app.ResumesRepo,
		Profiles: resumeProfileAdapter{svc: app.UsersService},
		LLM:      app.LLM,
		Metrics:  app.Metrics,
	}

	app.UsersHandler = users.NewHandler(app.UsersService)
	app.InsightsHandler = insights.NewHandler(app.InsightsService, profiles)
	app.AssessmentsHandler = assessments.NewHandler(app.AssessmentsService)
	app.CoverLettersHandler = coverletters.NewHandler(app.CoverLettersService)
	app.ResumesHandler = resumes.NewHandler(app.ResumesService)

	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		registrarAdapter{svc: app.UsersService},
	)
}

// insightAdapter bridges the insights service into the users package
// without a direct dependency between the two.
type insightAdapter struct {
	svc *insights.Service
}

func (a insightAdapter) EnsureForIndustry(ctx context.Context, industry string) (users.InsightRecord, error) {
	insight, err := a.svc.EnsureForIndustry(ctx, industry)
	if err != nil {
		return users.InsightRecord{}, err
	}
	return toInsightRecord(insight), nil
}

func (a insightAdapter) EnsureForIndustryTx(ctx context.Context, tx *sql.Tx, industry string) (users.InsightRecord, error) {
	insight, err := a.svc.EnsureForIndustryTx(ctx, tx, industry)
	if err != nil {
		return users.InsightRecord{}, err
	}
	return toInsightRecord(insight), nil
}

func toInsightRecord(insight insights.IndustryInsight) users.InsightRecord {
	ranges := make([]users.SalaryRange, 0, len(insight.SalaryRanges))
	for _, r := range insight.SalaryRanges {
		ranges = append(ranges, users.SalaryRange{
			Role:     r.Role,
			Min:      r.Min,
			Max:      r.Max,
			Median:   r.Median,
			Location: r.Location,
		})
	}
	return users.InsightRecord{
		Industry:          insight.Industry,
		SalaryRanges:      ranges,
		GrowthRate:        insight.GrowthRate,
		DemandLevel:       insight.DemandLevel,
		TopSkills:         insight.TopSkills,
		MarketOutlook:     insight.MarketOutlook,
		KeyTrends:         insight.KeyTrends,
		RecommendedSkills: insight.RecommendedSkills,
		LastUpdated:       insight.LastUpdated,
		NextUpdate:        insight.NextUpdate,
	}
}

// profileAdapter exposes user profile slices to the domain services.
type profileAdapter struct {
	svc *users.Service
}

func (a profileAdapter) ProfileFor(ctx context.Context, userID string) (assessments.Profile, error) {
	user, err := a.svc.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return assessments.Profile{}, assessments.ErrProfileNotFound
		}
		return assessments.Profile{}, err
	}
	return assessments.Profile{Industry: user.Industry, Skills: user.Skills}, nil
}

func (a profileAdapter) IndustryFor(ctx context.Context, userID string) (string, error) {
	user, err := a.svc.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", insights.ErrProfileNotFound
		}
		return "", err
	}
	return user.Industry, nil
}

func (a profileAdapter) CandidateFor(ctx context.Context, userID string) (coverletters.CandidateProfile, error) {
	user, err := a.svc.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return coverletters.CandidateProfile{}, coverletters.ErrProfileNotFound
		}
		return coverletters.CandidateProfile{}, err
	}
	return coverletters.CandidateProfile{
		FullName:   user.FullName,
		Industry:   user.Industry,
		Experience: user.Experience,
		Bio:        user.Bio,
		Skills:     user.Skills,
	}, nil
}

// resumeProfileAdapter maps profile lookups for the resumes service, whose
// not-found sentinel differs from the insights one.
type resumeProfileAdapter struct {
	svc *users.Service
}

func (a resumeProfileAdapter) IndustryFor(ctx context.Context, userID string) (string, error) {
	user, err := a.svc.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", resumes.ErrProfileNotFound
		}
		return "", err
	}
	return user.Industry, nil
}

// registrarAdapter persists OAuth identities through the users service.
type registrarAdapter struct {
	svc *users.Service
}

func (a registrarAdapter) RegisterIdentity(ctx context.Context, identity googleauth.Identity) error {
	return a.svc.UpsertFromAuth(ctx, users.User{
		ID:         identity.ID,
		Email:      identity.Email,
		FullName:   identity.Name,
		PictureURL: identity.Picture,
	})
}

// unconfiguredProvider fails every call with a provider-unavailable error.
// It keeps dev environments bootable without an API key.
type unconfiguredProvider struct {
	model string
}

func (p unconfiguredProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	_ = ctx
	_ = req
	return nil, &llm.ErrProviderUnavailable{Err: errors.New("llm provider not configured")}
}

func (p unconfiguredProvider) ModelID() string { return p.model }
