package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/rent-intel/internal/config"
	"github.com/iwvelando/rent-intel/internal/match"
	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/internal/pricing"
	"github.com/iwvelando/rent-intel/internal/report"
	"github.com/iwvelando/rent-intel/internal/savings"
	"github.com/iwvelando/rent-intel/pkg/datetime"
	"github.com/iwvelando/rent-intel/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RequestIDHeader carries the request id on every response.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	calculator    *savings.Calculator
	scorer        *match.Scorer
	recommender   *pricing.Recommender
}

// NewHandler constructs the HTTP handler that serves the scoring API. The
// single-listing endpoints score against cfg's market medians and location
// signals; a nil cfg means DefaultConfig.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: cfg.UploadSizeBytes(),
		version:       trimmedVersion,
		calculator:    savings.NewCalculator(logger, cfg.MarketTable()),
		scorer:        match.NewScorer(logger, match.WithLocationSignals(cfg.LocationSignals())),
		recommender:   pricing.NewRecommender(logger),
	}

	mux := http.NewServeMux()

	// Single-listing endpoints
	mux.HandleFunc("/api/savings", h.handleSavings)
	mux.HandleFunc("/api/match", h.handleMatch)

	// Portfolio pricing
	mux.HandleFunc("/api/recommendations", h.handleRecommendations)

	// Full report from an uploaded configuration file
	mux.HandleFunc("/api/report", h.handleReport)

	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(mux)
}

// withRequestID tags every request with an id, reusing one supplied by the
// caller.
func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (h *handler) requestLogger(r *http.Request) *zap.Logger {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return h.logger.With(zap.String("requestId", id))
	}
	return h.logger
}

type savingsRequest struct {
	Listing        model.Listing `json:"listing"`
	MedianOverride float64       `json:"median_override,omitempty"`
}

type matchRequest struct {
	Listing        model.Listing             `json:"listing"`
	MedianOverride float64                   `json:"median_override,omitempty"`
	Preferences    *model.PreferenceProfile  `json:"preferences,omitempty"`
	Budget         float64                   `json:"budget,omitempty"`
	Market         *model.MarketContext      `json:"market,omitempty"`
	POIs           []model.PointOfInterest   `json:"pois,omitempty"`
	Commute        *model.CommutePreferences `json:"commute,omitempty"`
}

type matchResponse struct {
	Savings savings.Breakdown `json:"savings"`
	Match   match.Result      `json:"match"`
}

type recommendationsRequest struct {
	Units []model.UnitMarketState `json:"units"`
	AsOf  string                  `json:"as_of,omitempty"`
}

type recommendationsResponse struct {
	Recommendations []pricing.Recommendation `json:"recommendations"`
	Summary         pricing.PortfolioSummary `json:"summary"`
}

type reportResponse struct {
	Report   report.Report          `json:"report"`
	CSV      string                 `json:"csv"`
	Warnings []string               `json:"warnings,omitempty"`
	Duration string                 `json:"duration"`
	Config   map[string]interface{} `json:"config,omitempty"`
}

func (h *handler) handleSavings(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSavings"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req savingsRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, h.calculator.Compute(req.Listing, req.MedianOverride))
}

func (h *handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMatch"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req matchRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}

	breakdown := h.calculator.Compute(req.Listing, req.MedianOverride)
	result := h.scorer.Score(match.Input{
		Listing:     req.Listing,
		Savings:     breakdown,
		Preferences: req.Preferences,
		Budget:      req.Budget,
		Market:      req.Market,
		POIs:        req.POIs,
		Commute:     req.Commute,
	})

	h.requestLogger(r).Debug("match computed",
		zap.String("op", op),
		zap.String("listing", req.Listing.ID),
		zap.Int("overall", result.Overall),
	)
	h.writeJSON(w, http.StatusOK, matchResponse{Savings: breakdown, Match: result})
}

func (h *handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRecommendations"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req recommendationsRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}

	asOf, err := datetime.ParseDate(req.AsOf)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("invalid as_of: %v", err), op)
		return
	}
	recs, err := h.recommender.RecommendAll(r.Context(), req.Units, pricing.Options{AsOf: asOf})
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusServiceUnavailable, fmt.Sprintf("request cancelled: %v", err), op)
		return
	}

	h.requestLogger(r).Info("recommendations computed",
		zap.String("op", op),
		zap.Int("units", len(recs)),
	)
	h.writeJSON(w, http.StatusOK, recommendationsResponse{
		Recommendations: recs,
		Summary:         pricing.Summarize(recs),
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.requestLogger(r).Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	result, err := report.Build(r.Context(), h.requestLogger(r), *cfg)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusServiceUnavailable, fmt.Sprintf("failed to build report: %v", err), op)
		return
	}

	csvText, err := output.CsvString(result)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	h.requestLogger(r).Info("report computed",
		zap.String("op", op),
		zap.Int("listings", len(result.Listings)),
		zap.Int("units", len(result.Recommendations)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, reportResponse{
		Report:   result,
		CSV:      csvText,
		Warnings: result.Warnings,
		Duration: elapsed.String(),
		Config:   configMap,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// errPayloadTooLarge marks a JSON body cut off by the upload limit.
var errPayloadTooLarge = errors.New("payload too large")

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("%w: limit is %d bytes", errPayloadTooLarge, h.maxUploadSize)
		}
		return fmt.Errorf("failed to decode request: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	if errors.Is(err, errPayloadTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.requestLogger(r).Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
