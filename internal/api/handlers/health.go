package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/wonny/finhealth/backend/pkg/logger"
)

const (
	healthOK       = "ok"
	healthDegraded = "degraded"
	healthError    = "error"

	defaultCheckTimeout = 2 * time.Second
)

// ComponentCheck reports one dependency; detail is rendered as-is
type ComponentCheck func(ctx context.Context) (interface{}, error)

// ComponentStatus is one entry of the health payload
type ComponentStatus struct {
	Status string      `json:"status"`
	Detail interface{} `json:"detail,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HealthHandler serves /health with per-component status.
// Redis, database and scheduler are optional, so a failing component
// degrades the status but never the HTTP code.
type HealthHandler struct {
	service string
	checks  map[string]ComponentCheck
	timeout time.Duration
	logger  *logger.Logger
	now     func() time.Time
}

// NewHealthHandler creates a health handler with no components
func NewHealthHandler(service string, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		checks:  make(map[string]ComponentCheck),
		timeout: defaultCheckTimeout,
		logger:  log,
		now:     time.Now,
	}
}

// Register adds a named component check
func (h *HealthHandler) Register(name string, check ComponentCheck) *HealthHandler {
	h.checks[name] = check
	return h
}

// Health runs every check with a shared timeout
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := healthOK
	components := make(map[string]ComponentStatus, len(names))
	for _, name := range names {
		detail, err := h.checks[name](ctx)
		if err != nil {
			status = healthDegraded
			components[name] = ComponentStatus{Status: healthError, Detail: detail, Error: err.Error()}
			h.logger.WithError(err).WithField("component", name).Warn("Health check failed")
			continue
		}
		components[name] = ComponentStatus{Status: healthOK, Detail: detail}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     status,
		"service":    h.service,
		"timestamp":  h.now().UTC().Format(time.RFC3339),
		"components": components,
	})
}
