package adapthttp

import (
	"net/http"
)

const defaultSeriesDays = 90

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	key := metricKey(r)
	days := intQuery(r, "days", defaultSeriesDays)

	points, err := s.charts.GetDaily(r.Context(), key, days)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"key":   key,
		"days":  len(points),
		"items": points,
	})
}
