package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

// BuffettComputer produces the per-country Buffett indicator
type BuffettComputer interface {
	Compute(ctx context.Context) *contracts.BuffettIndicatorResult
}

// MacroHandler handles macro valuation API endpoints
type MacroHandler struct {
	engine BuffettComputer
	logger *logger.Logger
}

// NewMacroHandler creates a new macro handler
func NewMacroHandler(engine BuffettComputer, log *logger.Logger) *MacroHandler {
	return &MacroHandler{
		engine: engine,
		logger: log,
	}
}

// BuffettIndicator returns market cap / GDP per configured country.
// Per-country failures are inside the payload; the endpoint itself always succeeds.
// GET /api/buffett-indicator
func (h *MacroHandler) BuffettIndicator(w http.ResponseWriter, r *http.Request) {
	result := h.engine.Compute(r.Context())

	failed := 0
	for _, c := range result.Countries {
		if c.Error {
			failed++
		}
	}
	if failed > 0 {
		h.logger.WithFields(map[string]interface{}{
			"failed": failed,
			"total":  len(result.Countries),
		}).Warn("Buffett indicator partially unavailable")
	}

	respondJSON(w, http.StatusOK, result)
}
