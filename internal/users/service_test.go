package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

type stubInsights struct {
	record InsightRecord
	err    error
	calls  int
}

func (s *stubInsights) EnsureForIndustry(_ context.Context, industry string) (InsightRecord, error) {
	s.calls++
	if s.err != nil {
		return InsightRecord{}, s.err
	}
	record := s.record
	record.Industry = industry
	return record, nil
}

func (s *stubInsights) EnsureForIndustryTx(ctx context.Context, _ *sql.Tx, industry string) (InsightRecord, error) {
	return s.EnsureForIndustry(ctx, industry)
}

func seedUser(t *testing.T, repo Repo) User {
	t.Helper()
	user := User{
		ID:       "google:123",
		Email:    "dev@example.com",
		FullName: "Dev Example",
	}
	if err := repo.Upsert(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestUpsertFromAuth_PreservesProfileFields(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	seedUser(t, repo)

	_, err := repo.UpdateProfile(context.Background(), "google:123", ProfileUpdate{
		Industry:   "tech-software-development",
		Experience: 4,
		Skills:     []string{"Go"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A later login refreshes identity but must not reset the profile.
	err = svc.UpsertFromAuth(context.Background(), User{
		ID:       "google:123",
		Email:    "dev@example.com",
		FullName: "Dev E. Xample",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, err := svc.GetByID(context.Background(), "google:123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.FullName != "Dev E. Xample" {
		t.Fatalf("expected refreshed name, got %q", user.FullName)
	}
	if user.Industry != "tech-software-development" || user.Experience != 4 {
		t.Fatalf("profile fields lost on re-login: %+v", user)
	}
}

func TestUpsertFromAuth_RequiresIDAndEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.UpsertFromAuth(context.Background(), User{ID: "x"}); err == nil {
		t.Fatal("expected error for missing email")
	}
	if err := svc.UpsertFromAuth(context.Background(), User{Email: "x@y.z"}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestOnboardingStatus(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	seedUser(t, repo)

	onboarded, err := svc.OnboardingStatus(context.Background(), "google:123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if onboarded {
		t.Fatal("expected not onboarded before industry is set")
	}

	if _, err := repo.UpdateProfile(context.Background(), "google:123", ProfileUpdate{Industry: "finance-banking"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	onboarded, err = svc.OnboardingStatus(context.Background(), "google:123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !onboarded {
		t.Fatal("expected onboarded after industry is set")
	}
}

func TestUpdateProfile_MemoryPath(t *testing.T) {
	repo := NewMemoryRepo()
	insights := &stubInsights{record: InsightRecord{DemandLevel: "HIGH"}}
	svc := &Service{Repo: repo, Insights: insights}
	seedUser(t, repo)

	user, insight, err := svc.UpdateProfile(context.Background(), "google:123", ProfileUpdate{
		Industry:   "tech-software-development",
		Experience: 4,
		Bio:        "Backend engineer",
		Skills:     []string{"Go", "SQL"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Industry != "tech-software-development" {
		t.Fatalf("industry not applied: %+v", user)
	}
	if insight.Industry != "tech-software-development" {
		t.Fatalf("expected insight for the chosen industry, got %+v", insight)
	}
	if insights.calls != 1 {
		t.Fatalf("expected one insight bootstrap, got %d", insights.calls)
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo, Insights: &stubInsights{}}
	seedUser(t, repo)

	_, _, err := svc.UpdateProfile(context.Background(), "google:123", ProfileUpdate{Industry: ""})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty industry, got: %v", err)
	}

	_, _, err = svc.UpdateProfile(context.Background(), "google:123", ProfileUpdate{Industry: "x", Experience: -1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative experience, got: %v", err)
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Insights: &stubInsights{}}

	_, _, err := svc.UpdateProfile(context.Background(), "missing", ProfileUpdate{Industry: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestUpdateProfile_InsightFailureAbortsUpdate(t *testing.T) {
	repo := NewMemoryRepo()
	bootErr := errors.New("invalid enum value from model")
	svc := &Service{Repo: repo, Insights: &stubInsights{err: bootErr}, TxTimeout: time.Second}
	seedUser(t, repo)

	_, _, err := svc.UpdateProfile(context.Background(), "google:123", ProfileUpdate{Industry: "finance-banking"})
	if !errors.Is(err, bootErr) {
		t.Fatalf("expected bootstrap error, got: %v", err)
	}

	user, err := repo.GetByID(context.Background(), "google:123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Industry != "" {
		t.Fatalf("profile must stay untouched after insight failure, got industry %q", user.Industry)
	}
}
