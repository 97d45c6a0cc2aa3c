package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/iwvelando/seasonality-forecast/internal/forecast"
	"github.com/iwvelando/seasonality-forecast/internal/seasonality"
	"github.com/iwvelando/seasonality-forecast/internal/store"
	"github.com/iwvelando/seasonality-forecast/pkg/constants"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	store         *store.Store
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the coefficient and
// forecast API on top of the given store.
func NewHandler(logger *zap.Logger, coefficients *store.Store, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, store: coefficients, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Month reference data
	mux.HandleFunc("/api/months", h.handleMonths)

	// Whole coefficient set
	mux.HandleFunc("/api/coefficients", h.handleCoefficients)

	// Single coefficient edits, e.g. /api/coefficients/12
	mux.HandleFunc("/api/coefficients/", h.handleCoefficient)

	mux.HandleFunc("/api/forecast", h.handleForecast)

	// File style import/export and reset
	mux.HandleFunc("/api/export", h.handleExport)
	mux.HandleFunc("/api/import", h.handleImport)
	mux.HandleFunc("/api/reset", h.handleReset)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type monthInfo struct {
	Month   int     `json:"month"`
	Name    string  `json:"name"`
	Default float64 `json:"default"`
}

type coefficientsResponse struct {
	Coefficients seasonality.Coefficients `json:"coefficients"`
	Message      string                   `json:"message,omitempty"`
}

type forecastResponse struct {
	Message string            `json:"message"`
	Result  *forecast.Result  `json:"result,omitempty"`
	Results []forecast.Result `json:"results,omitempty"`
	Total   *float64          `json:"total,omitempty"`
}

func (h *handler) handleMonths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	months := make([]monthInfo, 0, constants.MonthsPerYear)
	for _, m := range seasonality.Months() {
		months = append(months, monthInfo{Month: int(m), Name: m.String(), Default: seasonality.Default(m)})
	}
	h.writeJSON(w, http.StatusOK, months)
}

func (h *handler) handleCoefficients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, coefficientsResponse{Coefficients: h.store.Coefficients()})
	case http.MethodPut:
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
		if err != nil {
			h.respondReadError(w, err, "server.handleCoefficients")
			return
		}
		resolved, err := seasonality.Decode(data, "request body")
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleCoefficients")
			return
		}
		updated := h.store.Replace(resolved.Candidate())
		h.writeJSON(w, http.StatusOK, coefficientsResponse{Coefficients: updated})
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleCoefficient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	month, err := seasonality.ParseMonth(strings.TrimPrefix(r.URL.Path, "/api/coefficients/"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), "server.handleCoefficient")
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadSize)).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode coefficient: %v", err), "server.handleCoefficient")
		return
	}
	value, ok := payload["value"]
	if !ok {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing value", "server.handleCoefficient")
		return
	}

	updated, err := h.store.Set(month, value)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleCoefficient")
		return
	}
	h.writeJSON(w, http.StatusOK, coefficientsResponse{Coefficients: updated})
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadSize)).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode forecast request: %v", err), "server.handleForecast")
		return
	}

	annualDemand := coerceFloat(payload["annualDemand"])

	if coerceBool(payload["year"]) {
		results, err := h.store.ForecastYear(annualDemand)
		if err != nil {
			h.respondForecastError(w, err)
			return
		}
		total := forecast.Total(results)
		h.writeJSON(w, http.StatusOK, forecastResponse{
			Message: fmt.Sprintf("Forecast for %d months", len(results)),
			Results: results,
			Total:   &total,
		})
		return
	}

	month, err := coerceMonth(payload["month"])
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleForecast")
		return
	}

	result, err := h.store.Forecast(annualDemand, month)
	if err != nil {
		h.respondForecastError(w, err)
		return
	}

	h.logger.Debug("forecast computed",
		zap.String("op", "server.handleForecast"),
		zap.String("month", month.String()),
		zap.Float64("factor", result.Factor),
	)
	h.writeJSON(w, http.StatusOK, forecastResponse{Message: result.String(), Result: &result})
}

func (h *handler) respondForecastError(w http.ResponseWriter, err error) {
	if forecast.IsValidationError(err) {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), "server.handleForecast")
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleForecast")
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := h.store.Export(&buf); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleExport")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": constants.ExportFileName,
	}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write export",
			zap.String("op", "server.handleExport"),
			zap.Error(err),
		)
	}
}

func (h *handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var source io.Reader = r.Body
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			h.respondReadError(w, err, "server.handleImport")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, "missing coefficients file", "server.handleImport")
			return
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				h.logger.Warn("failed to close uploaded file",
					zap.String("op", "server.handleImport"),
					zap.Error(closeErr),
				)
			}
		}()
		source = file
	}

	imported, err := h.store.Import(source)
	if err != nil {
		var parseErr *seasonality.ParseError
		if errors.As(err, &parseErr) {
			h.respondErrorWithOp(w, http.StatusBadRequest, constants.ImportFailureMessage, "server.handleImport")
			return
		}
		h.respondReadError(w, err, "server.handleImport")
		return
	}

	h.logger.Info("coefficients imported",
		zap.String("op", "server.handleImport"),
	)
	h.writeJSON(w, http.StatusOK, coefficientsResponse{Coefficients: imported, Message: constants.ImportSuccessMessage})
}

func (h *handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	defaults := h.store.Reset()
	h.logger.Info("coefficients reset",
		zap.String("op", "server.handleReset"),
	)
	h.writeJSON(w, http.StatusOK, coefficientsResponse{Coefficients: defaults, Message: constants.ResetMessage})
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

func (h *handler) respondReadError(w http.ResponseWriter, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Warn("request failed",
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

// coerceFloat reads an annual demand sent as a JSON number or as text.
// Anything else yields NaN so that validation rejects it.
func coerceFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case string:
		return forecast.ParseAnnualDemand(v)
	case json.Number:
		return forecast.ParseAnnualDemand(v.String())
	}
	return math.NaN()
}

func coerceMonth(value interface{}) (seasonality.Month, error) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v", seasonality.ErrInvalidMonth, v)
		}
		return seasonality.ParseMonth(strconv.Itoa(int(v)))
	case string:
		return seasonality.ParseMonth(v)
	case nil:
		return 0, fmt.Errorf("%w: month is required", seasonality.ErrInvalidMonth)
	}
	return 0, fmt.Errorf("%w: %v", seasonality.ErrInvalidMonth, value)
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed != 0
		}
	}
	return false
}
