package assessments

import (
	"context"
	"encoding/json"
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
	// ErrQuizGeneration is the single generic failure surfaced for any
	// provider or decode problem during quiz generation.
	ErrQuizGeneration = errors.New("failed to generate quiz questions")

	ErrInvalidInput    = errors.New("invalid input")
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotOnboarded    = errors.New("onboarding required")
)

// Profile is the slice of the user record quiz generation needs.
type Profile struct {
	Industry string
	Skills   []string
}

// ProfileReader resolves a caller's profile. Implemented by an adapter over
// the users service.
type ProfileReader interface {
	ProfileFor(ctx context.Context, userID string) (Profile, error)
}

// Service owns the quiz pipeline: generation, grading/persist, listing.
type Service struct {
	Repo     Repo
	Profiles ProfileReader
	LLM      llm.Provider
	Metrics  *metrics.Collector

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type quizPayload struct {
	Questions []Question `json:"questions"`
}

// GenerateQuiz produces ten multiple-choice questions tailored to the
// caller's industry and skills.
func (s *Service) GenerateQuiz(ctx context.Context, userID string) ([]Question, error) {
	profile, err := s.Profiles.ProfileFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(profile.Industry) == "" {
		return nil, ErrNotOnboarded
	}

	start := time.Now()
	resp, err := s.LLM.Generate(ctx, llm.Request{
		Prompt: quizPrompt(profile.Industry, profile.Skills),
		Schema: quizSchema(),
	})
	if s.Metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.Metrics.RecordLLMRequest("quiz", outcome, time.Since(start))
	}
	if err != nil {
		telemetry.Error("quiz.generate_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrQuizGeneration, err)
	}

	var payload quizPayload
	if err := json.Unmarshal(resp.Content, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuizGeneration, err)
	}

	s.Metrics.IncQuizGenerated()
	return payload.Questions, nil
}

// SaveResult grades a completed quiz and persists the assessment. The score
// is recomputed from the answer pairing; the client-reported value is only
// logged when it disagrees.
func (s *Service) SaveResult(ctx context.Context, userID string, questions []Question, answers []string, reportedScore float64) (Assessment, error) {
	if len(questions) == 0 {
		return Assessment{}, fmt.Errorf("%w: questions are required", ErrInvalidInput)
	}
	if len(answers) != len(questions) {
		return Assessment{}, fmt.Errorf("%w: expected %d answers, got %d", ErrInvalidInput, len(questions), len(answers))
	}

	results := make([]QuestionResult, len(questions))
	correct := 0
	var wrong []QuestionResult
	for i, q := range questions {
		result := QuestionResult{
			Question:    q.Question,
			Answer:      q.CorrectAnswer,
			UserAnswer:  answers[i],
			IsCorrect:   q.CorrectAnswer == answers[i],
			Explanation: q.Explanation,
		}
		if result.IsCorrect {
			correct++
		} else {
			wrong = append(wrong, result)
		}
		results[i] = result
	}

	score := 100 * float64(correct) / float64(len(questions))
	if reportedScore != score {
		telemetry.Warn("assessment.score_mismatch", map[string]any{
			"user_id":  userID,
			"reported": reportedScore,
			"computed": score,
		})
	}

	var tip *string
	if len(wrong) > 0 {
		tip = s.generateTip(ctx, userID, wrong)
	}

	assessment := Assessment{
		ID:             uuid.NewString(),
		UserID:         userID,
		QuizScore:      score,
		Questions:      results,
		Category:       CategoryTechnical,
		ImprovementTip: tip,
		CreatedAt:      s.now(),
	}
	if err := s.Repo.Create(ctx, assessment); err != nil {
		return Assessment{}, fmt.Errorf("save quiz result: %w", err)
	}
	s.Metrics.IncAssessmentSaved()
	return assessment, nil
}

// generateTip asks the model for a short remedial suggestion. This step is
// strictly best-effort: any failure is logged and the assessment is saved
// without a tip.
func (s *Service) generateTip(ctx context.Context, userID string, wrong []QuestionResult) *string {
	industry := ""
	if profile, err := s.Profiles.ProfileFor(ctx, userID); err == nil {
		industry = profile.Industry
	}

	start := time.Now()
	resp, err := s.LLM.Generate(ctx, llm.Request{
		Prompt: tipPrompt(industry, wrong),
	})
	if s.Metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.Metrics.RecordLLMRequest("improvement_tip", outcome, time.Since(start))
	}
	if err != nil {
		telemetry.Warn("assessment.tip_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		s.Metrics.IncTipSkipped()
		return nil
	}

	tip := strings.TrimSpace(resp.Text())
	if tip == "" {
		s.Metrics.IncTipSkipped()
		return nil
	}
	s.Metrics.IncTipGenerated()
	return &tip
}

// List returns the caller's assessments, oldest first.
func (s *Service) List(ctx context.Context, userID string) ([]Assessment, error) {
	return s.Repo.ListByUser(ctx, userID)
}
