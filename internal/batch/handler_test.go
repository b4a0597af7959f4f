package batch_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"salary-backend/internal/bootstrap"
	"salary-backend/internal/shared/config"
)

const sessionHeader = "X-Session-Id"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		ModelPaths:      []string{filepath.Join("..", "..", "models", "best_salary_model.json")},
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func uploadRequest(t *testing.T, fileName, content, useMarket string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if useMarket != "" {
		if err := writer.WriteField("useMarketData", useMarket); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(sessionHeader, "session-a")
	return req
}

const validCSV = "Age,Gender,Education Level,Job Title,Years of Experience,Industry,Location,Company Size,Skill_Python\n" +
	"30,Male,Bachelor's,Data Analyst,5,Technology,Lagos,Medium (51-250),1\n" +
	"45,Female,PhD,Research Lead,20,Healthcare,Abuja,Large (251+),0\n" +
	"24,Other,High School,Clerk,1,Retail,Kano,Small (1-50),0\n"

func TestBatchUploadExportAndReport(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "people.csv", validCSV, ""))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		RunID       string `json:"runId"`
		RecordCount int    `json:"recordCount"`
		ExportURL   string `json:"exportUrl"`
		ReportURL   string `json:"reportUrl"`
		Market      struct {
			Value float64 `json:"value"`
			Live  bool    `json:"live"`
			Used  bool    `json:"used"`
		} `json:"market"`
		Preview struct {
			Columns []string   `json:"columns"`
			Rows    [][]string `json:"rows"`
		} `json:"preview"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.RunID == "" || created.RecordCount != 3 {
		t.Fatalf("unexpected run: %+v", created)
	}
	if created.Market.Value != 400 || created.Market.Live || !created.Market.Used {
		t.Fatalf("expected fallback market index, got %+v", created.Market)
	}
	if n := len(created.Preview.Columns); n == 0 || created.Preview.Columns[n-1] != "Predicted_Salary" {
		t.Fatalf("preview columns = %v", created.Preview.Columns)
	}

	reqExport := httptest.NewRequest(http.MethodGet, created.ExportURL, nil)
	reqExport.Header.Set(sessionHeader, "session-a")
	respExport := httptest.NewRecorder()
	router.ServeHTTP(respExport, reqExport)
	if respExport.Code != http.StatusOK {
		t.Fatalf("export status %d", respExport.Code)
	}
	if cd := respExport.Header().Get("Content-Disposition"); !strings.Contains(cd, "salary_predictions_") {
		t.Fatalf("content disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(respExport.Body.String()), "\n")
	if len(lines) != 4 || !strings.HasSuffix(lines[0], "Predicted_Salary") {
		t.Fatalf("export = %q", respExport.Body.String())
	}

	reqReport := httptest.NewRequest(http.MethodGet, created.ReportURL, nil)
	reqReport.Header.Set(sessionHeader, "session-a")
	respReport := httptest.NewRecorder()
	router.ServeHTTP(respReport, reqReport)
	if respReport.Code != http.StatusOK || !strings.Contains(respReport.Body.String(), "Records Processed: 3") {
		t.Fatalf("report status %d body %q", respReport.Code, respReport.Body.String())
	}

	// Another session cannot see the run.
	reqOther := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+created.RunID, nil)
	reqOther.Header.Set(sessionHeader, "session-b")
	respOther := httptest.NewRecorder()
	router.ServeHTTP(respOther, reqOther)
	if respOther.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other session, got %d", respOther.Code)
	}
}

func TestBatchUploadMissingColumns(t *testing.T) {
	router := newTestRouter(t)

	csv := "Age,Gender,Education Level,Job Title,Years of Experience,Location,Company Size\n30,Male,PhD,Analyst,3,Lagos,Small (1-50)\n"
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "people.csv", csv, "true"))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Missing     []string `json:"missing"`
				Required    []string `json:"required"`
				TemplateURL string   `json:"templateUrl"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "missing_columns" || len(body.Error.Details.Missing) != 1 || body.Error.Details.Missing[0] != "Industry" {
		t.Fatalf("unexpected error body: %+v", body.Error)
	}
	if len(body.Error.Details.Required) != 8 || body.Error.Details.TemplateURL != "/api/v1/batches/template" {
		t.Fatalf("unexpected details: %+v", body.Error.Details)
	}
}

func TestBatchUploadRejectsBadInput(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name     string
		fileName string
		content  string
		market   string
		status   int
		code     string
	}{
		{"unsupported type", "notes.txt", "hello", "", http.StatusUnsupportedMediaType, "unsupported_type"},
		{"header only", "people.csv", "Age,Gender,Education Level,Job Title,Years of Experience,Industry,Location,Company Size\n", "", http.StatusUnprocessableEntity, "empty_batch"},
		{"bad toggle", "people.csv", validCSV, "sometimes", http.StatusBadRequest, "validation_error"},
		{"bad numeric cell", "people.csv", strings.Replace(validCSV, "30,Male", "thirty,Male", 1), "", http.StatusBadGateway, "inference_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, uploadRequest(t, tt.fileName, tt.content, tt.market))
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
			if !strings.Contains(resp.Body.String(), `"code":"`+tt.code+`"`) {
				t.Fatalf("expected code %s in %s", tt.code, resp.Body.String())
			}
		})
	}
}

func TestBatchTemplateDownload(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/batches/template", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "salary_template.csv") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(resp.Body.String(), "Age,Gender,Education Level,Job Title,Years of Experience,Industry,Location,Company Size") {
		t.Fatalf("template = %q", resp.Body.String())
	}
}

func TestBatchListBySession(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "people.csv", validCSV, "false"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload status %d: %s", resp.Code, resp.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches?limit=5", nil)
	req.Header.Set(sessionHeader, "session-a")
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, req)
	if respList.Code != http.StatusOK {
		t.Fatalf("list status %d", respList.Code)
	}
	var runs []struct {
		RunID  string `json:"runId"`
		Market struct {
			Used bool `json:"used"`
		} `json:"market"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&runs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(runs) != 1 || runs[0].Market.Used {
		t.Fatalf("runs = %+v", runs)
	}
}
