package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/iwvelando/rent-intel/internal/market"
	"github.com/iwvelando/rent-intel/internal/pricing"
	"github.com/iwvelando/rent-intel/internal/savings"
	"github.com/iwvelando/rent-intel/pkg/testutil"
	"go.uber.org/zap"
)

func TestHandleSavingsSuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performJSON(t, handler, "/api/savings", map[string]interface{}{
		"listing": map[string]interface{}{
			"id":       "atx-1",
			"city":     "Austin",
			"min_rent": 1500,
		},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp savings.Breakdown
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.MarketMedian != 1650 {
		t.Fatalf("expected Austin median 1650, got %v", resp.MarketMedian)
	}
	if resp.MonthlySavings != 150 || resp.AnnualSavings != 1800 {
		t.Fatalf("expected 150/1800 savings, got %v/%v", resp.MonthlySavings, resp.AnnualSavings)
	}
	if resp.DealScore != 59 {
		t.Fatalf("expected deal score 59, got %d", resp.DealScore)
	}
}

func TestHandleSavingsMedianOverride(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performJSON(t, handler, "/api/savings", map[string]interface{}{
		"listing":         map[string]interface{}{"id": "atx-1", "city": "Austin", "min_rent": 1500},
		"median_override": 2000,
	})

	var resp savings.Breakdown
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.MarketMedian != 2000 || resp.MonthlySavings != 500 {
		t.Fatalf("expected override median 2000 and savings 500, got %v/%v", resp.MarketMedian, resp.MonthlySavings)
	}
}

func TestHandleMatchSuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performJSON(t, handler, "/api/match", map[string]interface{}{
		"listing": map[string]interface{}{
			"id":           "atx-1",
			"city":         "Austin",
			"min_rent":     1500,
			"min_bedrooms": 1,
			"max_bedrooms": 2,
			"amenities":    []string{"Pool", "Covered parking"},
		},
		"budget": 1600,
		"preferences": map[string]interface{}{
			"bedrooms":      "2BR",
			"amenities":     []string{"Pool"},
			"deal_breakers": []string{"no pets"},
		},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp matchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Match.ListingID != "atx-1" {
		t.Fatalf("expected listing id atx-1, got %q", resp.Match.ListingID)
	}
	if !resp.Match.BudgetMatch || !resp.Match.BedroomMatch {
		t.Fatalf("expected budget and bedroom match, got %+v", resp.Match)
	}
	if len(resp.Match.DealBreakerViolations) != 1 || resp.Match.DealBreakerViolations[0] != "no pets" {
		t.Fatalf("expected the pet deal-breaker to fire, got %v", resp.Match.DealBreakerViolations)
	}
	if resp.Match.Overall < 0 || resp.Match.Overall > 100 {
		t.Fatalf("overall score out of range: %d", resp.Match.Overall)
	}
	if resp.Savings.MonthlyRent != 1500 {
		t.Fatalf("expected savings to be returned alongside the match, got %+v", resp.Savings)
	}
}

func TestHandlerUsesServerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Market.Medians = []market.Entry{{City: "Reno", Median: 1250}}
	cfg.Scoring.CommuteScore = 100
	cfg.Scoring.ProximityScore = 100
	configured := NewHandler(zap.NewNop(), cfg, "test")
	defaults := NewHandler(zap.NewNop(), nil, "test")

	listing := map[string]interface{}{
		"id":       "reno-1",
		"city":     "Reno",
		"min_rent": 1000,
	}

	rr := performJSON(t, configured, "/api/savings", map[string]interface{}{"listing": listing})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var breakdown savings.Breakdown
	if err := json.Unmarshal(rr.Body.Bytes(), &breakdown); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if breakdown.MarketMedian != 1250 || breakdown.MonthlySavings != 250 {
		t.Errorf("expected configured Reno median 1250 and savings 250, got %v/%v", breakdown.MarketMedian, breakdown.MonthlySavings)
	}

	scores := make([]int, 0, 2)
	for _, handler := range []http.Handler{configured, defaults} {
		rr := performJSON(t, handler, "/api/match", map[string]interface{}{"listing": listing})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp matchResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		scores = append(scores, resp.Match.LocationScore)
	}
	if scores[0] <= scores[1] {
		t.Errorf("configured location score %d should exceed the default %d", scores[0], scores[1])
	}
}

func TestHandleRecommendationsSuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performJSON(t, handler, "/api/recommendations", map[string]interface{}{
		"as_of": "2024-06-01",
		"units": []map[string]interface{}{
			{
				"unit_id":           "cc-101",
				"current_rent":      2000,
				"days_on_market":    45,
				"market_velocity":   "slow",
				"market_position":   "above_market",
				"lease_probability": 0.25,
				"concession_value":  500,
				"confidence_score":  80,
			},
			{
				"unit_id":           "cc-102",
				"current_rent":      1500,
				"days_on_market":    3,
				"market_velocity":   "normal",
				"lease_probability": 0.7,
			},
		},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp recommendationsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(resp.Recommendations))
	}

	reduction := testutil.FindRecommendation(resp.Recommendations, "cc-101")
	if reduction == nil {
		t.Fatal("expected a recommendation for cc-101")
	}
	if reduction.Strategy != pricing.StrategyAggressiveReduction || reduction.SuggestedRent != 1630 {
		t.Fatalf("expected aggressive reduction to 1630, got %s at %v", reduction.Strategy, reduction.SuggestedRent)
	}
	if hold := testutil.FindRecommendation(resp.Recommendations, "cc-102"); hold == nil || hold.Strategy != pricing.StrategyHold {
		t.Fatalf("expected cc-102 to hold, got %+v", hold)
	}
	if resp.Summary.TotalUnits != 2 {
		t.Fatalf("expected summary over 2 units, got %d", resp.Summary.TotalUnits)
	}
}

func TestHandleRecommendationsInvalidDate(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performJSON(t, handler, "/api/recommendations", map[string]interface{}{
		"as_of": "June 1st",
		"units": []map[string]interface{}{},
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "invalid as_of") {
		t.Fatalf("expected as_of error, got %q", resp["error"])
	}
}

func TestHandleJSONMalformedBody(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	for _, path := range []string{"/api/savings", "/api/match", "/api/recommendations"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", path, rr.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: failed to decode error response: %v", path, err)
		}
		if !strings.Contains(resp["error"], "failed to decode request") {
			t.Fatalf("%s: expected decode error, got %q", path, resp["error"])
		}
	}
}

func TestHandleJSONBodyTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), &Config{uploadSizeBytes: 64}, "test")

	payload := `{"listing": {"id": "` + strings.Repeat("a", 128) + `"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/savings", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}
}

func TestHandlersMethodNotAllowed(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/savings"},
		{http.MethodGet, "/api/match"},
		{http.MethodGet, "/api/recommendations"},
		{http.MethodGet, "/api/report"},
		{http.MethodPost, "/api/version"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected status 405, got %d", tt.method, tt.path, rr.Code)
		}
	}
}

func TestHandleReportSuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	configPath := filepath.Join("..", "..", "test", "test_config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read test config: %v", err)
	}

	rr := performUpload(t, handler, string(data), "test_config.yaml")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp reportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Report.Listings) != 3 {
		t.Fatalf("expected 3 listings in report, got %d", len(resp.Report.Listings))
	}
	if testutil.FindListing(resp.Report, "atx-domain") == nil {
		t.Fatal("expected atx-domain in report")
	}
	if len(resp.Report.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations in report, got %d", len(resp.Report.Recommendations))
	}
	if !strings.HasPrefix(resp.CSV, "listing_id,") {
		t.Fatalf("expected CSV data in response, got %q", resp.CSV)
	}
	if len(resp.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", resp.Warnings)
	}
	if resp.Duration == "" {
		t.Fatal("expected duration in response")
	}
	if resp.Config == nil || resp.Config["listings"] == nil {
		t.Fatal("expected config data in response")
	}
}

func TestHandleReportUploadTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), &Config{uploadSizeBytes: 64}, "test")

	rr := performUpload(t, handler, strings.Repeat("a", 128), "config.yaml")

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "upload exceeds limit") {
		t.Fatalf("expected upload limit error message, got %q", resp["error"])
	}
}

func TestHandleReportMissingFile(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/report", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp["error"] != "missing configuration file" {
		t.Fatalf("expected missing file error, got %q", resp["error"])
	}
}

func TestHandleReportInvalidYAML(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performUpload(t, handler, "listings: [", "config.yaml")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "error reading config data") {
		t.Fatalf("expected parse error message, got %q", resp["error"])
	}
}

func TestHandleReportInvalidDate(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performUpload(t, handler, "asOf: next tuesday\n", "config.yaml")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "unable to decode into struct") {
		t.Fatalf("expected decode error message, got %q", resp["error"])
	}
}

func TestHandleVersion(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "  v1.2.3 ")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "v1.2.3" {
		t.Fatalf("expected trimmed version, got %q", resp["version"])
	}
}

func TestHandleVersionDefaultsToDev(t *testing.T) {
	handler := NewHandler(nil, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "dev" {
		t.Fatalf("expected dev version, got %q", resp["version"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	generated := rr.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(generated); err != nil {
		t.Fatalf("expected a generated UUID request id, got %q", generated)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "caller-supplied" {
		t.Fatalf("expected caller request id to be echoed, got %q", got)
	}
}

func TestDecodeYAMLToMap(t *testing.T) {
	empty, err := decodeYAMLToMap([]byte("   \n"))
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty map for blank input, got %v, %v", empty, err)
	}

	decoded, err := decodeYAMLToMap([]byte("output:\n  format: csv\n"))
	if err != nil {
		t.Fatalf("decodeYAMLToMap() error = %v", err)
	}
	outputSection, ok := decoded["output"].(map[string]interface{})
	if !ok || outputSection["format"] != "csv" {
		t.Fatalf("unexpected decoded map: %v", decoded)
	}

	if _, err := decodeYAMLToMap([]byte("output: [")); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func performUpload(t *testing.T, handler http.Handler, content, filename string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/report", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func performJSON(t *testing.T, handler http.Handler, path string, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}
