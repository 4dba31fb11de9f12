package resumes_test

import (
	"context"
	"encoding/json"
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
	})
	if err != nil {
		t.Fatalf("onboard user: %v", err)
	}
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func TestResumeSaveAndGet(t *testing.T) {
	app := newTestApp(t, llm.NewMockProvider())
	router := app.Router

	// No resume yet.
	reqMissing := httptest.NewRequest(http.MethodGet, "/api/v1/resume", nil)
	addGuestHeader(reqMissing)
	respMissing := httptest.NewRecorder()
	router.ServeHTTP(respMissing, reqMissing)

	if respMissing.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", respMissing.Code)
	}

	// Save, then read back.
	body := `{"content": "# Jane Doe\n\nBackend engineer with 3 years of Go."}`
	reqPut := httptest.NewRequest(http.MethodPut, "/api/v1/resume", strings.NewReader(body))
	reqPut.Header.Set("Content-Type", "application/json")
	addGuestHeader(reqPut)
	respPut := httptest.NewRecorder()
	router.ServeHTTP(respPut, reqPut)

	if respPut.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", respPut.Code, respPut.Body.String())
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/resume", nil)
	addGuestHeader(reqGet)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}
	var resume struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&resume); err != nil {
		t.Fatalf("decode resume: %v", err)
	}
	if !strings.Contains(resume.Content, "Jane Doe") {
		t.Fatalf("unexpected content: %q", resume.Content)
	}
}

func TestResumeSaveRequiresContent(t *testing.T) {
	app := newTestApp(t, llm.NewMockProvider())
	router := app.Router

	req := httptest.NewRequest(http.MethodPut, "/api/v1/resume", strings.NewReader(`{"content": "  "}`))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestResumeImprove(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(insightBody)})
	app := newTestApp(t, mock)
	seedOnboardedUser(t, app)
	mock.AddResponse(llm.MockResponse{Content: json.RawMessage("Designed and shipped Go microservices serving 2M requests per day.")})
	router := app.Router

	body := `{"type": "experience", "current": "Wrote some Go services."}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/improve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var improved struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&improved); err != nil {
		t.Fatalf("decode improve response: %v", err)
	}
	if !strings.Contains(improved.Content, "microservices") {
		t.Fatalf("unexpected content: %q", improved.Content)
	}

	last := mock.Calls[len(mock.Calls)-1]
	if !strings.Contains(last.Prompt, "tech-software-development") {
		t.Fatalf("expected industry in prompt:\n%s", last.Prompt)
	}
}

func TestResumeImproveUpstreamFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(insightBody)})
	app := newTestApp(t, mock)
	seedOnboardedUser(t, app)
	mock.AddResponse(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	router := app.Router

	body := `{"type": "summary", "current": "Engineer."}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/improve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d: %s", resp.Code, resp.Body.String())
	}
}
