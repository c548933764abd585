package adapthttp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bodymetrics/internal/domain"

	"github.com/gorilla/mux"
)

func metricKey(r *http.Request) domain.MetricTypeKey {
	return domain.MetricTypeKey(mux.Vars(r)["key"])
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.metrics.Catalog().List()})
}

func (s *Server) handleLoadAll(w http.ResponseWriter, r *http.Request) {
	data, err := s.metrics.LoadAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"metrics": data})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	items, err := s.metrics.Overview(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleLoadOne(w http.ResponseWriter, r *http.Request) {
	key := metricKey(r)
	cfg, ok := s.metrics.Catalog().Lookup(key)
	if !ok {
		writeDomainError(w, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, key))
		return
	}

	m, err := s.metrics.LoadOne(r.Context(), key)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var (
		trend *domain.Trend
		stats = domain.StatsOf(nil)
	)
	if m != nil {
		if t, ok := domain.TrendOf(*m); ok {
			trend = &t
		}
		stats = domain.StatsOf(m.Entries)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"config":      cfg,
		"metric":      m,
		"trend":       trend,
		"stats":       stats,
		"meanDisplay": stats.MeanDisplay(),
	})
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	key := metricKey(r)
	if !s.metrics.Catalog().Has(key) {
		writeDomainError(w, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, key))
		return
	}

	var body struct {
		Value json.RawMessage `json:"value"`
	}
	if err := parseJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	value, err := parseRawValue(body.Value)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data, err := s.metrics.AppendEntry(r.Context(), key, value)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"metric": data[key], "metrics": data})
}

// parseRawValue accepts a JSON string ("72.5") or number (72.5).
func parseRawValue(raw json.RawMessage) (float64, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: %s", domain.ErrInvalidValue, err)
		}
		return domain.ParseValue(s)
	}
	return domain.ParseValue(string(raw))
}
