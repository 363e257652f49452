package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// NewRouter registers every route under /api.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/sources", h.Sources).Methods(http.MethodGet)
	api.HandleFunc("/sources/{id}/forecast", h.Forecast).Methods(http.MethodGet)

	api.HandleFunc("/forecast", h.Forecast).Methods(http.MethodGet)
	api.HandleFunc("/forecast/scenarios", h.Scenarios).Methods(http.MethodGet)
	api.HandleFunc("/seasonality", h.Seasonality).Methods(http.MethodGet)
	api.HandleFunc("/backtest", h.Backtest).Methods(http.MethodGet)
	api.HandleFunc("/accuracy", h.Accuracy).Methods(http.MethodPost)

	api.HandleFunc("/ytd", h.YTD).Methods(http.MethodGet)
	// fixed paths before the {id} route
	api.HandleFunc("/performance", h.Performance).Methods(http.MethodGet)
	api.HandleFunc("/performance/top", h.TopPerformers).Methods(http.MethodGet)
	api.HandleFunc("/performance/under", h.Underperformers).Methods(http.MethodGet)
	api.HandleFunc("/performance/{id}", h.SourcePerformance).Methods(http.MethodGet)
	api.HandleFunc("/insights", h.Insights).Methods(http.MethodGet)

	api.HandleFunc("/entries", h.Entries).Methods(http.MethodGet)
	api.HandleFunc("/entries", h.AddEntries).Methods(http.MethodPost)
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("Shutting down HTTP server")
	return server.Shutdown(shutdownCtx)
}
