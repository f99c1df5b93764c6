package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/scoremvp/scoremvp/internal/importer"
	"github.com/scoremvp/scoremvp/internal/service"
	"github.com/scoremvp/scoremvp/internal/store"
)

// HealthChecker is a dependency whose reachability /health reports
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Services groups what the handlers call into
type Services struct {
	Stats     *service.StatsService
	Games     *service.GameService
	Players   *service.PlayerService
	Dashboard *service.DashboardService
	Importer  *importer.Importer
	// Checks maps a dependency name to its health probe. Nil entries are skipped.
	Checks map[string]HealthChecker
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	statsService     *service.StatsService
	gameService      *service.GameService
	playerService    *service.PlayerService
	dashboardService *service.DashboardService
	importer         *importer.Importer
	checks           map[string]HealthChecker
}

// NewHandler creates a new handler
func NewHandler(svc Services) *Handler {
	return &Handler{
		statsService:     svc.Stats,
		gameService:      svc.Games,
		playerService:    svc.Players,
		dashboardService: svc.Dashboard,
		importer:         svc.Importer,
		checks:           svc.Checks,
	}
}

// HealthCheck reports the state of every configured dependency
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if check == nil {
			continue
		}
		if err := check.HealthCheck(ctx); err != nil {
			log.WithError(err).WithField("dependency", name).Warn("health check failed")
			deps[name] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "healthy"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	respondJSON(w, status, map[string]interface{}{
		"status":       overall,
		"service":      "scoremvp",
		"dependencies": deps,
	})
}

// pathID reads a positive integer route variable
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return n, nil
}

// dateWindow parses ?from= and ?to= as YYYY-MM-DD. to is inclusive.
func dateWindow(r *http.Request) (from, to time.Time, err error) {
	q := r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		if from, err = time.Parse(dateLayout, raw); err != nil {
			return from, to, err
		}
	}
	if raw := q.Get("to"); raw != "" {
		if to, err = time.Parse(dateLayout, raw); err != nil {
			return from, to, err
		}
		to = to.Add(24 * time.Hour)
	}
	return from, to, nil
}

// decodeJSON decodes the request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// isNotFound reports whether err came from a lookup that matched nothing
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

// respondError logs err with the request id and writes {"error": message}.
// The cause never reaches the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	entry := log.WithFields(log.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     status,
		"request_id": requestID(r),
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	if status >= http.StatusInternalServerError {
		entry.Error(message)
	} else {
		entry.Debug(message)
	}

	respondJSON(w, status, map[string]string{"error": message})
}
