package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"revcast/internal/analytics"
	"revcast/internal/forecast"
	"revcast/internal/ledger"
)

// Handler serves the analytics views as JSON.
type Handler struct {
	svc        *analytics.Service
	ledgerPath string
}

// NewHandler creates a Handler. When ledgerPath is set, posted entries are persisted there.
func NewHandler(svc *analytics.Service, ledgerPath string) *Handler {
	return &Handler{svc: svc, ledgerPath: ledgerPath}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Sources lists the catalog.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Store().Sources())
}

// Forecast handles GET /api/forecast and GET /api/sources/{id}/forecast.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	req, err := forecastRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Forecast(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Scenarios handles GET /api/forecast/scenarios.
func (h *Handler) Scenarios(w http.ResponseWriter, r *http.Request) {
	req, err := forecastRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req.AllScenarios = true
	res, err := h.svc.Forecast(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Scenarios)
}

// Seasonality handles GET /api/seasonality.
func (h *Handler) Seasonality(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Seasonality(r.Context(), sourceParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Backtest handles GET /api/backtest.
func (h *Handler) Backtest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minTrain, err := intParam(q.Get("min_train"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	horizon, err := intParam(q.Get("horizon"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.Backtest(r.Context(), analytics.BacktestRequest{
		SourceID: sourceParam(r),
		Method:   q.Get("method"),
		MinTrain: minTrain,
		Horizon:  horizon,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type accuracyBody struct {
	Actual    []float64 `json:"actual"`
	Predicted []float64 `json:"predicted"`
}

// Accuracy handles POST /api/accuracy.
func (h *Handler) Accuracy(w http.ResponseWriter, r *http.Request) {
	var body accuracyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, badRequest("invalid JSON body: "+err.Error()))
		return
	}
	metrics, ok := forecast.Accuracy(body.Actual, body.Predicted)
	if !ok {
		writeError(w, r, badRequest("actual and predicted must be non-empty and of equal length"))
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// YTD handles GET /api/ytd.
func (h *Handler) YTD(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.YTDSummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	months, err := h.svc.MonthlyTotals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fiscalYear": h.svc.FiscalYear(),
		"currency":   h.svc.Currency(),
		"summary":    summary,
		"months":     months,
	})
}

// Performance handles GET /api/performance.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.SourcePerformance(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// SourcePerformance handles GET /api/performance/{id}.
func (h *Handler) SourcePerformance(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.SourceDetail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// TopPerformers handles GET /api/performance/top.
func (h *Handler) TopPerformers(w http.ResponseWriter, r *http.Request) {
	top, err := h.svc.TopPerformers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

// Underperformers handles GET /api/performance/under.
func (h *Handler) Underperformers(w http.ResponseWriter, r *http.Request) {
	under, err := h.svc.Underperformers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, under)
}

// Insights handles GET /api/insights.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.svc.Insights(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// Entries handles GET /api/entries.
func (h *Handler) Entries(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.Store().Entries(sourceParam(r))
	if entries == nil {
		entries = []ledger.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// AddEntries handles POST /api/entries with a JSON array of entries.
func (h *Handler) AddEntries(w http.ResponseWriter, r *http.Request) {
	var entries []ledger.Entry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		writeError(w, r, badRequest("invalid JSON body: "+err.Error()))
		return
	}

	added, err := h.svc.Store().Append(entries...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if added > 0 && h.ledgerPath != "" {
		if err := h.svc.Store().Save(h.ledgerPath); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]int{"added": added})
}

func forecastRequest(r *http.Request) (analytics.ForecastRequest, error) {
	q := r.URL.Query()
	req := analytics.ForecastRequest{
		SourceID: sourceParam(r),
		Method:   q.Get("method"),
		Scenario: q.Get("scenario"),
	}
	if v := q.Get("periods"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, badRequest("periods must be an integer")
		}
		req.Periods = &n
	}
	if v := q.Get("seasonal"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, badRequest("seasonal must be a boolean")
		}
		req.Seasonal = b
	}
	return req, nil
}

func sourceParam(r *http.Request) string {
	if id := mux.Vars(r)["id"]; id != "" {
		return id
	}
	return r.URL.Query().Get("source")
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("expected an integer, got " + strconv.Quote(v))
	}
	return n, nil
}

type requestError struct{ msg string }

func (e requestError) Error() string { return e.msg }

func badRequest(msg string) error { return requestError{msg: msg} }

func statusFor(err error) int {
	var reqErr requestError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, forecast.ErrNegativePeriods),
		errors.Is(err, forecast.ErrUnknownScenario),
		errors.Is(err, ledger.ErrInvalidEntry):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrUnknownSource):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Request rejected")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}
