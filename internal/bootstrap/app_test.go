package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"salary-backend/internal/batch"
	"salary-backend/internal/shared/config"
)

func devConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		ModelPaths:      []string{filepath.Join("..", "..", "models", "best_salary_model.json")},
	}
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestBuildDevUsesMemoryRepo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(devConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if app.Config.Env != "dev" || app.Config.ObjectStoreType != "local" {
		t.Fatalf("defaults not applied: %+v", app.Config)
	}
	if _, ok := app.RunsRepo.(*batch.MemoryRepo); !ok {
		t.Fatalf("expected memory repo, got %T", app.RunsRepo)
	}
	if app.Queue != nil {
		t.Fatalf("expected no queue without BATCH_EVENTS_QUEUE_URL")
	}
}

func TestStatusEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(devConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	health := get(t, app.Router, "/api/v1/health")
	if health.Code != http.StatusOK || !strings.Contains(health.Body.String(), `"database":"memory"`) {
		t.Fatalf("health = %d %s", health.Code, health.Body.String())
	}
	if health.Header().Get("X-Session-Id") == "" || health.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected session and request id headers")
	}

	modelResp := get(t, app.Router, "/api/v1/model")
	var info struct {
		Loaded bool     `json:"loaded"`
		Name   string   `json:"name"`
		Schema []string `json:"schema"`
	}
	if err := json.NewDecoder(modelResp.Body).Decode(&info); err != nil {
		t.Fatalf("decode model info: %v", err)
	}
	if !info.Loaded || info.Name != "salary-linear" || len(info.Schema) == 0 {
		t.Fatalf("model info = %+v", info)
	}

	marketResp := get(t, app.Router, "/api/v1/market")
	if !strings.Contains(marketResp.Body.String(), `"live":false`) || !strings.Contains(marketResp.Body.String(), `"value":400`) {
		t.Fatalf("market = %s", marketResp.Body.String())
	}

	metricsResp := get(t, app.Router, "/metrics")
	if metricsResp.Code != http.StatusOK || !strings.Contains(metricsResp.Body.String(), "salary_batch_runs_total") {
		t.Fatalf("metrics = %d", metricsResp.Code)
	}
}

func TestModelUnavailableStillServes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := devConfig(t)
	cfg.ModelPaths = []string{filepath.Join(t.TempDir(), "missing.json")}
	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if resp := get(t, app.Router, "/api/v1/health"); resp.Code != http.StatusOK {
		t.Fatalf("health = %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(`{"age":30,"gender":"Male",
		"educationLevel":"PhD","jobTitle":"Data Scientist","yearsOfExperience":4,"industry":"Finance",
		"location":"Abuja","companySize":"Large (251+)"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable || !strings.Contains(resp.Body.String(), "model_unavailable") {
		t.Fatalf("predict = %d %s", resp.Code, resp.Body.String())
	}
}

func TestBuildRejectsIncompleteConfig(t *testing.T) {
	cfg := devConfig(t)
	cfg.Env = "production"
	if _, err := Build(cfg); err == nil {
		t.Fatal("expected DATABASE_URL error in production")
	}

	cfg = devConfig(t)
	cfg.ObjectStoreType = "s3"
	if _, err := Build(cfg); err == nil || !strings.Contains(err.Error(), "S3_BUCKET") {
		t.Fatalf("expected S3_BUCKET error, got %v", err)
	}
}

func TestUploadRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := devConfig(t)
	cfg.BatchRatePerMinute = 1
	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", strings.NewReader(""))
		req.Header.Set("X-Session-Id", "rate-session")
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, req)
		return resp.Code
	}
	if code := post(); code != http.StatusBadRequest {
		t.Fatalf("first upload = %d, want 400 for missing file", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("second upload = %d, want 429", code)
	}
	if resp := get(t, app.Router, "/api/v1/batches/template"); resp.Code != http.StatusOK {
		t.Fatalf("template should not be rate limited, got %d", resp.Code)
	}
}

func TestShippedModelReadsEverySkill(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(devConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	predict := func(skills string) float64 {
		t.Helper()
		body := `{"age":30,"gender":"Male","educationLevel":"PhD","jobTitle":"Data Scientist","yearsOfExperience":4,
			"industry":"Finance","location":"Abuja","companySize":"Large (251+)","skills":` + skills + `}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("predict %s = %d %s", skills, resp.Code, resp.Body.String())
		}
		var out struct {
			PredictedSalary float64 `json:"predictedSalary"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return out.PredictedSalary
	}

	none := predict(`[]`)
	for _, skill := range []string{"AWS/Azure", "Excel", "Power BI", "Tableau"} {
		if got := predict(`["` + skill + `"]`); got <= none {
			t.Fatalf("%s did not change the estimate: %v vs %v", skill, got, none)
		}
	}
}
