package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")

// InsightBootstrapper lazily creates the industry insight row the profile
// update depends on. Implemented by an adapter over the insights service.
type InsightBootstrapper interface {
	EnsureForIndustry(ctx context.Context, industry string) (InsightRecord, error)
	EnsureForIndustryTx(ctx context.Context, tx *sql.Tx, industry string) (InsightRecord, error)
}

const defaultProfileTxTimeout = 10 * time.Second

// Service owns user identity and the onboarding/profile flow.
type Service struct {
	Repo     Repo
	Insights InsightBootstrapper

	// DB, when set, provides the transaction for UpdateProfile. When nil
	// (in-memory mode) the insight bootstrap and profile write run as two
	// sequential steps.
	DB *sql.DB

	// TxTimeout bounds the whole profile update, including the insight
	// generation call. Defaults to 10s.
	TxTimeout time.Duration
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the user identity from OAuth to stabilize history
// and assessment ownership.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("user id and email are required")
	}
	return s.Repo.Upsert(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// OnboardingStatus reports whether the caller has completed onboarding.
func (s *Service) OnboardingStatus(ctx context.Context, userID string) (bool, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsOnboarded(), nil
}

// UpdateProfile applies an onboarding/profile edit. The industry insight for
// the chosen industry is created on first use, and both writes share one
// transaction: an insight that fails enum validation aborts the profile
// update, leaving no row behind.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, InsightRecord, error) {
	if s == nil || s.Repo == nil || s.Insights == nil {
		return User{}, InsightRecord{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(update.Industry) == "" {
		return User{}, InsightRecord{}, fmt.Errorf("%w: industry is required", ErrInvalidInput)
	}
	if update.Experience < 0 {
		return User{}, InsightRecord{}, fmt.Errorf("%w: experience must be non-negative", ErrInvalidInput)
	}

	if _, err := s.Repo.GetByID(ctx, userID); err != nil {
		return User{}, InsightRecord{}, err
	}

	timeout := s.TxTimeout
	if timeout <= 0 {
		timeout = defaultProfileTxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if s.DB == nil {
		return s.updateProfileMemory(ctx, userID, update)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return User{}, InsightRecord{}, fmt.Errorf("update profile: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insight, err := s.Insights.EnsureForIndustryTx(ctx, tx, update.Industry)
	if err != nil {
		return User{}, InsightRecord{}, fmt.Errorf("update profile: %w", err)
	}

	user, err := s.Repo.UpdateProfileTx(ctx, tx, userID, update)
	if err != nil {
		return User{}, InsightRecord{}, fmt.Errorf("update profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return User{}, InsightRecord{}, fmt.Errorf("update profile: commit: %w", err)
	}

	return user, insight, nil
}

func (s *Service) updateProfileMemory(ctx context.Context, userID string, update ProfileUpdate) (User, InsightRecord, error) {
	insight, err := s.Insights.EnsureForIndustry(ctx, update.Industry)
	if err != nil {
		return User{}, InsightRecord{}, fmt.Errorf("update profile: %w", err)
	}
	user, err := s.Repo.UpdateProfile(ctx, userID, update)
	if err != nil {
		return User{}, InsightRecord{}, fmt.Errorf("update profile: %w", err)
	}
	return user, insight, nil
}
