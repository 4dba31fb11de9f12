package assessments_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"career-backend/internal/bootstrap"
	"career-backend/internal/llm"
	"career-backend/internal/shared/config"
	"career-backend/internal/users"
)

const insightBody = `{
	"salaryRanges": [{"role": "Backend Engineer", "min": 90000, "max": 180000, "median": 130000, "location": "US"}],
	"growthRate": 4.5,
	"demandLevel": "HIGH",
	"topSkills": ["Go", "PostgreSQL"],
	"marketOutlook": "POSITIVE",
	"keyTrends": ["AI tooling"],
	"recommendedSkills": ["Kubernetes"]
}`

func newTestApp(t *testing.T, provider llm.Provider) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		Env:             "dev",
	}
	app, err := bootstrap.Build(cfg, bootstrap.BuildOptions{LLM: provider})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

// seedOnboardedUser provisions the guest principal with a completed profile.
// The mock must have an insight response queued for the profile update.
func seedOnboardedUser(t *testing.T, app *bootstrap.App) {
	t.Helper()
	ctx := context.Background()
	err := app.UsersService.UpsertFromAuth(ctx, users.User{
		ID:    "guest:test-guest",
		Email: "guest@example.com",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	_, _, err = app.UsersService.UpdateProfile(ctx, "guest:test-guest", users.ProfileUpdate{
		Industry:   "tech-software-development",
		Experience: 3,
		Skills:     []string{"Go", "PostgreSQL"},
	})
	if err != nil {
		t.Fatalf("onboard user: %v", err)
	}
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func quizBody(t *testing.T, n int) json.RawMessage {
	t.Helper()
	questions := make([]map[string]any, n)
	for i := range questions {
		questions[i] = map[string]any{
			"question":      fmt.Sprintf("Question %d", i+1),
			"options":       []string{"A", "B", "C", "D"},
			"correctAnswer": "A",
			"explanation":   "A is correct",
		}
	}
	raw, err := json.Marshal(map[string]any{"questions": questions})
	if err != nil {
		t.Fatalf("marshal quiz: %v", err)
	}
	return raw
}

func TestQuizGeneration(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(insightBody)})
	app := newTestApp(t, mock)
	seedOnboardedUser(t, app)
	mock.AddResponse(llm.MockResponse{Content: quizBody(t, 10)})
	router := app.Router

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/quiz", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var quiz struct {
		Questions []struct {
			Question      string   `json:"question"`
			Options       []string `json:"options"`
			CorrectAnswer string   `json:"correctAnswer"`
		} `json:"questions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&quiz); err != nil {
		t.Fatalf("decode quiz response: %v", err)
	}
	if len(quiz.Questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(quiz.Questions))
	}
	if len(quiz.Questions[0].Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(quiz.Questions[0].Options))
	}
}

func TestQuizRequiresOnboarding(t *testing.T) {
	app := newTestApp(t, llm.NewMockProvider())
	err := app.UsersService.UpsertFromAuth(context.Background(), users.User{
		ID:    "guest:test-guest",
		Email: "guest@example.com",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	router := app.Router

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/quiz", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestSaveResultAndList(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(insightBody)})
	app := newTestApp(t, mock)
	seedOnboardedUser(t, app)
	mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`Review SQL joins and indexing before your next interview.`)})
	router := app.Router

	body := `{
		"questions": [
			{"question": "Q1", "options": ["A", "B"], "correctAnswer": "A", "explanation": "because"},
			{"question": "Q2", "options": ["A", "B"], "correctAnswer": "B", "explanation": "because"}
		],
		"answers": ["A", "A"],
		"score": 50
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/assessments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var saved struct {
		ID             string  `json:"id"`
		QuizScore      float64 `json:"quizScore"`
		Category       string  `json:"category"`
		ImprovementTip *string `json:"improvementTip"`
		Questions      []struct {
			IsCorrect bool `json:"isCorrect"`
		} `json:"questions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("decode assessment: %v", err)
	}
	if saved.QuizScore != 50 {
		t.Fatalf("expected score 50, got %v", saved.QuizScore)
	}
	if saved.Category != "Technical" {
		t.Fatalf("expected category Technical, got %s", saved.Category)
	}
	if saved.ImprovementTip == nil || *saved.ImprovementTip == "" {
		t.Fatalf("expected an improvement tip")
	}
	if !saved.Questions[0].IsCorrect || saved.Questions[1].IsCorrect {
		t.Fatalf("unexpected grading: %+v", saved.Questions)
	}

	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/interview/assessments", nil)
	addGuestHeader(reqList)
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, reqList)

	if respList.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respList.Code)
	}
	var list []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != saved.ID {
		t.Fatalf("expected the saved assessment, got %+v", list)
	}
}

func TestSaveResultValidation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(insightBody)})
	app := newTestApp(t, mock)
	seedOnboardedUser(t, app)
	router := app.Router

	body := `{"questions": [{"question": "Q1", "options": ["A"], "correctAnswer": "A", "explanation": ""}], "answers": []}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/assessments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
