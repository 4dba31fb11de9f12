package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"career-backend/internal/llm"
	"career-backend/internal/shared/metrics"
	"career-backend/internal/shared/telemetry"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProfileNotFound = errors.New("profile not found")
	ErrImprove         = errors.New("failed to improve content")
	ErrExtract         = errors.New("failed to extract resume text")
)

// ProfileReader resolves the caller's industry for prompt construction.
// Implemented by an adapter over the users service.
type ProfileReader interface {
	IndustryFor(ctx context.Context, userID string) (string, error)
}

type Service struct {
	Repo     Repo
	Profiles ProfileReader
	LLM      llm.Provider
	Metrics  *metrics.Collector
}

// Save replaces the user's resume content, creating the row on first save.
func (s *Service) Save(ctx context.Context, userID string, content string) (Resume, error) {
	if strings.TrimSpace(content) == "" {
		return Resume{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	resume, err := s.Repo.Save(ctx, userID, content)
	if err != nil {
		return Resume{}, fmt.Errorf("save resume: %w", err)
	}
	return resume, nil
}

func (s *Service) Get(ctx context.Context, userID string) (Resume, error) {
	return s.Repo.GetByUser(ctx, userID)
}

// Improve rewrites one resume section with the language model. The result
// is returned to the caller without touching the stored resume.
func (s *Service) Improve(ctx context.Context, userID string, input ImproveInput) (string, error) {
	input.Type = strings.TrimSpace(input.Type)
	input.Current = strings.TrimSpace(input.Current)
	if input.Type == "" || input.Current == "" {
		return "", fmt.Errorf("%w: type and current are required", ErrInvalidInput)
	}

	industry, err := s.Profiles.IndustryFor(ctx, userID)
	if err != nil {
		return "", err
	}
	if industry == "" {
		industry = "general"
	}

	start := time.Now()
	resp, err := s.LLM.Generate(ctx, llm.Request{
		Prompt: improvePrompt(industry, input.Type, input.Current),
	})
	if s.Metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.Metrics.RecordLLMRequest("resume_improve", outcome, time.Since(start))
	}
	if err != nil {
		telemetry.Error("resume.improve_failed", map[string]any{
			"user_id": userID,
			"type":    input.Type,
			"error":   err.Error(),
		})
		return "", fmt.Errorf("%w: %v", ErrImprove, err)
	}

	improved := strings.TrimSpace(llm.StripFences(resp.Text()))
	if improved == "" {
		return "", fmt.Errorf("%w: empty response", ErrImprove)
	}
	return improved, nil
}

// Import extracts plain text from an uploaded PDF so the client can load
// it into the resume editor.
func (s *Service) Import(ctx context.Context, userID string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := extractPDFText(data)
	if err != nil {
		telemetry.Error("resume.import_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}
	if text == "" {
		return "", fmt.Errorf("%w: document contains no extractable text", ErrExtract)
	}
	return text, nil
}
