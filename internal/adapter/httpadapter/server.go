package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/forecast-client/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const contentTypeCBOR = "application/cbor"

// SnapshotReader serves the latest fetched snapshots.
type SnapshotReader interface {
	Latest(loc domain.Location) (domain.Snapshot, bool)
	Snapshots() []domain.Snapshot
}

// Server exposes health, readiness, metrics and forecast HTTP endpoints.
type Server struct {
	httpServer *http.Server
	snapshots  SnapshotReader
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /forecast and /forecasts routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, snapshots SnapshotReader, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		snapshots: snapshots,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /forecast", s.handleForecast)
	mux.HandleFunc("GET /forecasts", s.handleForecasts)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleForecast serves the latest snapshot for ?lat=&lon=. Clients sending
// Accept: application/cbor get the binary document instead of JSON.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocationQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, ok := s.snapshots.Latest(loc)
	if !ok {
		writeError(w, http.StatusNotFound, "no forecast for "+loc.Key())
		return
	}

	if strings.Contains(r.Header.Get("Accept"), contentTypeCBOR) {
		data, err := domain.EncodeBinary(snap.Forecast)
		if err != nil {
			s.logger.Error("encode forecast failed", "location", loc.Key(), "error", err)
			writeError(w, http.StatusInternalServerError, "encode forecast")
			return
		}
		w.Header().Set("Content-Type", contentTypeCBOR)
		w.Header().Set("Last-Modified", snap.FetchedAt.Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		w.Write(data) //nolint:errcheck // client went away
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleForecasts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshots.Snapshots())
}

func parseLocationQuery(r *http.Request) (domain.Location, error) {
	q := r.URL.Query()
	lat, lon := q.Get("lat"), q.Get("lon")
	if lat == "" || lon == "" {
		return domain.Location{}, errMissingCoordinates
	}
	if _, err := strconv.ParseFloat(lat, 64); err != nil {
		return domain.Location{}, errInvalidCoordinates
	}
	if _, err := strconv.ParseFloat(lon, 64); err != nil {
		return domain.Location{}, errInvalidCoordinates
	}
	return domain.ParseLocation(lat + "," + lon)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
