package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ecospend/internal/core"
	"ecospend/internal/services"
	"ecospend/internal/storage"
)

const sampleCSV = `date,amount,merchant,category
2024-03-02,5500,스타벅스 강남점,
2024-03-15,32000,쿠팡,
2024-04-01,9000,김밥천국,
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "http_test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	peers := core.NewPeerDistribution([]float64{5, 10, 15, 20, 25})
	svc := services.NewAnalysisService(repo, nil, peers)

	s := NewServer(":0", svc, Options{RequestsPerMinute: 1000, CacheTTL: time.Minute})
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func doRequest(t *testing.T, s *Server, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(w, r)
	return w
}

func multipartCSVRequest(t *testing.T, csv string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "spending.csv")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte(csv)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/predict", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func decodePredict(t *testing.T, w *httptest.ResponseRecorder) predictResponse {
	t.Helper()
	var resp predictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, w.Body.String())
	}
	return resp
}

func TestPredictCSVUpload(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, multipartCSVRequest(t, sampleCSV))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	resp := decodePredict(t, w)
	if resp.AnalysisID <= 0 {
		t.Errorf("analysis_id = %d, want > 0", resp.AnalysisID)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("months = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].Month != "2024-03" || resp.Results[1].Month != "2024-04" {
		t.Errorf("months = %q, %q, want 2024-03, 2024-04",
			resp.Results[0].Month, resp.Results[1].Month)
	}
	if resp.Results[0].TotalAmount != 37500 {
		t.Errorf("2024-03 total = %v, want 37500", resp.Results[0].TotalAmount)
	}
}

func TestPredictFormText(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{}
	form.Set("text", "스타벅스 5500원, 김밥천국 9000원")
	form.Set("date", "2024-03-02")

	r := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := doRequest(t, s, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", w.Code, w.Body.String())
	}

	resp := decodePredict(t, w)
	if len(resp.Results) != 1 || resp.Results[0].Month != "2024-03" {
		t.Fatalf("results = %+v, want one 2024-03 month", resp.Results)
	}
}

func TestPredictRequiresFileOrText(t *testing.T) {
	s := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(""))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := doRequest(t, s, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPredictNoUsableRecordsIs400(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, multipartCSVRequest(t, "date,amount,merchant\nnot-a-date,5500,카페\n"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %q)", w.Code, w.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error != "no usable records" {
		t.Errorf("error = %q, want \"no usable records\"", resp.Error)
	}
}

func TestPredictText(t *testing.T) {
	s := newTestServer(t)

	body := `{"text": "배달의민족 23000원", "date": "2024-05-10"}`
	r := httptest.NewRequest(http.MethodPost, "/predict-text", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	w := doRequest(t, s, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", w.Code, w.Body.String())
	}

	resp := decodePredict(t, w)
	if len(resp.Results) != 1 || resp.Results[0].Month != "2024-05" {
		t.Fatalf("results = %+v, want one 2024-05 month", resp.Results)
	}
	if resp.Results[0].MainType != "배달형" {
		t.Errorf("main_type = %q, want 배달형", resp.Results[0].MainType)
	}
}

func TestPredictTextRejectsEmptyText(t *testing.T) {
	s := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/predict-text", strings.NewReader(`{"text": "  "}`))
	r.Header.Set("Content-Type", "application/json")

	if w := doRequest(t, s, r); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPredictCachesByPayload(t *testing.T) {
	s := newTestServer(t)

	first := decodePredict(t, doRequest(t, s, multipartCSVRequest(t, sampleCSV)))
	second := decodePredict(t, doRequest(t, s, multipartCSVRequest(t, sampleCSV)))

	if first.AnalysisID != second.AnalysisID {
		t.Errorf("repeated payload created new analysis: %d then %d",
			first.AnalysisID, second.AnalysisID)
	}
}

func TestGetAnalysis(t *testing.T) {
	s := newTestServer(t)

	created := decodePredict(t, doRequest(t, s, multipartCSVRequest(t, sampleCSV)))

	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/analyses/%d", created.AnalysisID), nil)
	w := doRequest(t, s, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", w.Code, w.Body.String())
	}

	var resp analysisResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AnalysisID != created.AnalysisID {
		t.Errorf("analysis_id = %d, want %d", resp.AnalysisID, created.AnalysisID)
	}
	if resp.Source != "csv" {
		t.Errorf("source = %q, want csv", resp.Source)
	}
	if len(resp.Results) != len(created.Results) {
		t.Errorf("stored months = %d, want %d", len(resp.Results), len(created.Results))
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	s := newTestServer(t)

	if w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/analyses/9999", nil)); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/analyses/abc", nil)); w.Code != http.StatusBadRequest {
		t.Errorf("status for bad id = %d, want 400", w.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := doRequest(t, s, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, w.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, httptest.NewRequest(http.MethodOptions, "/predict", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
