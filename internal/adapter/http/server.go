package adapthttp

import (
	"net/http"

	"bodymetrics/internal/app"
	"bodymetrics/internal/telemetry/metrics"

	"github.com/gorilla/mux"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	metrics *app.MetricService
	charts  *app.ChartsService
	auth    *app.AuthService
	prom    *metrics.Manager
}

// New creates a Server wired to the given application services. auth and
// prom may be nil.
func New(ms *app.MetricService, cs *app.ChartsService, auth *app.AuthService, prom *metrics.Manager) *Server {
	return &Server{metrics: ms, charts: cs, auth: auth, prom: prom}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.panicRecovery)
	r.Use(s.loggingMiddleware)
	r.Use(s.requestMetrics)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet).Name("health")

	api.HandleFunc("/catalog", s.handleCatalog).Methods(http.MethodGet).Name("catalog")
	api.HandleFunc("/overview", s.handleOverview).Methods(http.MethodGet).Name("overview")
	api.HandleFunc("/metrics", s.handleLoadAll).Methods(http.MethodGet).Name("metrics")
	api.HandleFunc("/metrics/{key}", s.handleLoadOne).Methods(http.MethodGet).Name("metric")
	api.HandleFunc("/metrics/{key}/series", s.handleSeries).Methods(http.MethodGet).Name("series")

	write := api.PathPrefix("/metrics/{key}").Subrouter()
	write.Use(s.authMiddleware)
	write.HandleFunc("/entries", s.handleAppend).Methods(http.MethodPost).Name("append")

	return withNoCache(r)
}
