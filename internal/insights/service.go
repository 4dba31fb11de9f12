package insights

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"career-backend/internal/llm"
	"career-backend/internal/shared/metrics"
	"career-backend/internal/shared/telemetry"
)

// ErrInvalidEnum reports an LLM-produced enum value outside the allow-list.
// It aborts the whole insight creation (and any enclosing transaction).
var ErrInvalidEnum = errors.New("invalid enum value from model")

const refreshInterval = 7 * 24 * time.Hour

// Service generates and serves cached per-industry market insights.
type Service struct {
	Repo    Repo
	LLM     llm.Provider
	Metrics *metrics.Collector

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// GetByIndustry returns the stored insight for an industry.
func (s *Service) GetByIndustry(ctx context.Context, industry string) (IndustryInsight, error) {
	if strings.TrimSpace(industry) == "" {
		return IndustryInsight{}, ErrNotFound
	}
	return s.Repo.GetByIndustry(ctx, industry)
}

// EnsureForIndustry returns the insight for an industry, generating and
// storing it on first use.
func (s *Service) EnsureForIndustry(ctx context.Context, industry string) (IndustryInsight, error) {
	return s.ensure(ctx, nil, industry)
}

// EnsureForIndustryTx is EnsureForIndustry inside a caller-owned transaction.
func (s *Service) EnsureForIndustryTx(ctx context.Context, tx *sql.Tx, industry string) (IndustryInsight, error) {
	return s.ensure(ctx, tx, industry)
}

func (s *Service) ensure(ctx context.Context, tx *sql.Tx, industry string) (IndustryInsight, error) {
	existing, err := s.get(ctx, tx, industry)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return IndustryInsight{}, err
	}

	insight, err := s.generate(ctx, industry)
	if err != nil {
		return IndustryInsight{}, err
	}

	if err := s.create(ctx, tx, insight); err != nil {
		return IndustryInsight{}, fmt.Errorf("store insight: %w", err)
	}
	s.Metrics.IncInsightGenerated()

	// Re-read after the conflict-tolerant insert so concurrent creators all
	// observe the row that actually won.
	return s.get(ctx, tx, industry)
}

func (s *Service) get(ctx context.Context, tx *sql.Tx, industry string) (IndustryInsight, error) {
	if tx != nil {
		return s.Repo.GetByIndustryTx(ctx, tx, industry)
	}
	return s.Repo.GetByIndustry(ctx, industry)
}

func (s *Service) create(ctx context.Context, tx *sql.Tx, insight IndustryInsight) error {
	if tx != nil {
		return s.Repo.CreateTx(ctx, tx, insight)
	}
	return s.Repo.Create(ctx, insight)
}

type insightPayload struct {
	SalaryRanges      []SalaryRange `json:"salaryRanges"`
	GrowthRate        float64       `json:"growthRate"`
	DemandLevel       string        `json:"demandLevel"`
	TopSkills         []string      `json:"topSkills"`
	MarketOutlook     string        `json:"marketOutlook"`
	KeyTrends         []string      `json:"keyTrends"`
	RecommendedSkills []string      `json:"recommendedSkills"`
}

func (s *Service) generate(ctx context.Context, industry string) (IndustryInsight, error) {
	start := s.now()
	resp, err := s.LLM.Generate(ctx, llm.Request{
		Prompt: insightPrompt(industry),
		Schema: insightSchema(),
	})
	if s.Metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.Metrics.RecordLLMRequest("insight", outcome, time.Since(start))
	}
	if err != nil {
		telemetry.Error("insight.generate_failed", map[string]any{
			"industry": industry,
			"error":    err.Error(),
		})
		return IndustryInsight{}, err
	}

	var payload insightPayload
	if err := json.Unmarshal(resp.Content, &payload); err != nil {
		return IndustryInsight{}, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}

	demand, err := normalizeDemandLevel(payload.DemandLevel)
	if err != nil {
		return IndustryInsight{}, err
	}
	outlook, err := normalizeMarketOutlook(payload.MarketOutlook)
	if err != nil {
		return IndustryInsight{}, err
	}

	now := s.now()
	return IndustryInsight{
		Industry:          industry,
		SalaryRanges:      payload.SalaryRanges,
		GrowthRate:        payload.GrowthRate,
		DemandLevel:       demand,
		TopSkills:         payload.TopSkills,
		MarketOutlook:     outlook,
		KeyTrends:         payload.KeyTrends,
		RecommendedSkills: payload.RecommendedSkills,
		LastUpdated:       now,
		NextUpdate:        now.Add(refreshInterval),
	}, nil
}

func normalizeDemandLevel(raw string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	switch v {
	case DemandHigh, DemandMedium, DemandLow:
		return v, nil
	}
	return "", fmt.Errorf("%w: demand level %q", ErrInvalidEnum, raw)
}

func normalizeMarketOutlook(raw string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	switch v {
	case OutlookPositive, OutlookNeutral, OutlookNegative:
		return v, nil
	}
	return "", fmt.Errorf("%w: market outlook %q", ErrInvalidEnum, raw)
}
