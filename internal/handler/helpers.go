package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/boddenberg/lamf-portal-go/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	status := statusFor(err)
	switch {
	case status >= 500:
		logger.Error("service error", zap.Int("status", status), zap.Error(err))
	case status == http.StatusUnauthorized:
		logger.Warn("unauthorized", zap.String("error", err.Error()))
	default:
		logger.Debug("request rejected", zap.Int("status", status), zap.String("error", err.Error()))
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeError(w, status, msg)
}

// statusFor picks the HTTP status a domain error maps to.
func statusFor(err error) int {
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var validation *domain.ErrValidation
	var backend *domain.ErrBackend
	var unauthorized *domain.ErrUnauthorized
	var notImplemented *domain.ErrNotImplemented
	var stale *domain.ErrStaleView
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &circuitOpen):
		return http.StatusServiceUnavailable
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &backend):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &notImplemented):
		return http.StatusNotImplemented
	case errors.As(err, &stale):
		return http.StatusConflict
	case errors.As(err, &external):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// userMessage is the banner text for err on HTML pages. Backend and
// validation messages are shown verbatim; transport failures are not.
func userMessage(err error) string {
	var backend *domain.ErrBackend
	var validation *domain.ErrValidation
	var notImplemented *domain.ErrNotImplemented
	var circuitOpen *domain.ErrCircuitOpen
	var unauthorized *domain.ErrUnauthorized

	switch {
	case errors.As(err, &backend):
		return backend.Error()
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &notImplemented):
		return notImplemented.Error()
	case errors.As(err, &unauthorized):
		return unauthorized.Error()
	case errors.As(err, &circuitOpen):
		return "The LAMF service is temporarily unavailable. Please try again shortly."
	}
	return "Could not reach the LAMF service. Please try again."
}

// formFloat parses an optional numeric form field; empty yields 0.
func formFloat(r *http.Request, field string) (float64, error) {
	v := strings.TrimSpace(r.PostFormValue(field))
	if v == "" {
		return 0, nil
	}
	f, err := parseAmount(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return 0, &domain.ErrValidation{Field: field, Message: "must be a number"}
	}
	return f, nil
}

// parseAmount is strconv.ParseFloat without NaN, Inf and overflow.
func parseAmount(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return f, nil
}

// formInt parses an optional integer form field; empty yields 0.
func formInt(r *http.Request, field string) (int, error) {
	v := strings.TrimSpace(r.PostFormValue(field))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &domain.ErrValidation{Field: field, Message: "must be a whole number"}
	}
	return n, nil
}

// formDecimal parses a money form field exactly; empty yields 0 unless required.
func formDecimal(r *http.Request, field string, required bool) (decimal.Decimal, error) {
	v := strings.TrimSpace(r.PostFormValue(field))
	if v == "" {
		if required {
			return decimal.Zero, &domain.ErrValidation{Field: field, Message: "is required"}
		}
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return decimal.Zero, &domain.ErrValidation{Field: field, Message: "must be a number"}
	}
	return d, nil
}

// queryFloat parses a numeric query parameter, falling back to def.
func queryFloat(r *http.Request, key string, def float64) float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if f, err := parseAmount(v); err == nil {
			return f
		}
	}
	return def
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// withQuery joins path and an encoded query string.
func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
