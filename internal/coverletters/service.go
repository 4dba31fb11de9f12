package coverletters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"career-backend/internal/llm"
	"career-backend/internal/shared/metrics"
	"career-backend/internal/shared/telemetry"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProfileNotFound = errors.New("profile not found")
	ErrGeneration      = errors.New("failed to generate cover letter")
)

// CandidateProfile is the slice of the user record letter generation needs.
type CandidateProfile struct {
	FullName   string
	Industry   string
	Experience int
	Bio        string
	Skills     []string
}

// ProfileReader resolves a caller's profile. Implemented by an adapter over
// the users service.
type ProfileReader interface {
	CandidateFor(ctx context.Context, userID string) (CandidateProfile, error)
}

type Service struct {
	Repo     Repo
	Profiles ProfileReader
	LLM      llm.Provider
	Metrics  *metrics.Collector

	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Generate writes a tailored markdown cover letter and persists it.
func (s *Service) Generate(ctx context.Context, userID string, input GenerateInput) (CoverLetter, error) {
	input.CompanyName = strings.TrimSpace(input.CompanyName)
	input.JobTitle = strings.TrimSpace(input.JobTitle)
	input.JobDescription = strings.TrimSpace(input.JobDescription)
	if input.CompanyName == "" || input.JobTitle == "" {
		return CoverLetter{}, fmt.Errorf("%w: companyName and jobTitle are required", ErrInvalidInput)
	}

	profile, err := s.Profiles.CandidateFor(ctx, userID)
	if err != nil {
		return CoverLetter{}, err
	}

	start := time.Now()
	resp, err := s.LLM.Generate(ctx, llm.Request{
		Prompt: letterPrompt(profile, input),
	})
	if s.Metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.Metrics.RecordLLMRequest("cover_letter", outcome, time.Since(start))
	}
	if err != nil {
		telemetry.Error("cover_letter.generate_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return CoverLetter{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	content := strings.TrimSpace(llm.StripFences(resp.Text()))
	if content == "" {
		return CoverLetter{}, fmt.Errorf("%w: empty response", ErrGeneration)
	}

	letter := CoverLetter{
		ID:             uuid.NewString(),
		UserID:         userID,
		Content:        content,
		JobDescription: input.JobDescription,
		CompanyName:    input.CompanyName,
		JobTitle:       input.JobTitle,
		Status:         StatusCompleted,
		CreatedAt:      s.now(),
		UpdatedAt:      s.now(),
	}
	if err := s.Repo.Create(ctx, letter); err != nil {
		return CoverLetter{}, fmt.Errorf("save cover letter: %w", err)
	}
	return letter, nil
}

func (s *Service) Get(ctx context.Context, userID, letterID string) (CoverLetter, error) {
	return s.Repo.GetByID(ctx, userID, letterID)
}

func (s *Service) List(ctx context.Context, userID string) ([]CoverLetter, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, letterID string) error {
	return s.Repo.Delete(ctx, userID, letterID)
}

func letterPrompt(profile CandidateProfile, input GenerateInput) string {
	return fmt.Sprintf(`Write a professional cover letter for a %s position at %s.

About the candidate:
- Industry: %s
- Years of Experience: %d
- Skills: %s
- Professional Background: %s

Job Description:
%s

Requirements:
1. Use a professional, enthusiastic tone
2. Highlight relevant skills and experience
3. Show understanding of the company's needs
4. Keep it concise (max 400 words)
5. Use proper business letter formatting in markdown
6. Include specific examples of achievements
7. Relate candidate's background to job requirements

Format the letter in markdown.`,
		input.JobTitle,
		input.CompanyName,
		profile.Industry,
		profile.Experience,
		strings.Join(profile.Skills, ", "),
		profile.Bio,
		input.JobDescription,
	)
}
