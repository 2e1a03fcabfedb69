package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/internal/scoreboard"
	"github.com/rs/zerolog"
)

// maxUpdateBody caps the controller payload size.
const maxUpdateBody = 1 << 20

// StateApp defines what the handlers need from the scoreboard app
type StateApp interface {
	Read(ctx context.Context) scoreboard.Record
	Update(ctx context.Context, payload map[string]any) (scoreboard.Record, error)
}

// StateHandler serves the scoreboard record over HTTP
type StateHandler struct {
	app    StateApp
	logger zerolog.Logger
}

// NewStateHandler creates a new state handler
func NewStateHandler(app StateApp, logger zerolog.Logger) *StateHandler {
	return &StateHandler{
		app:    app,
		logger: logger.With().Str("component", "gateway").Logger(),
	}
}

// HandleGetState handles GET /api/state
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	h.writeRecord(w, h.app.Read(r.Context()))
}

// HandleUpdateState handles POST /api/state. A body that is not a JSON object
// is logged and treated as an empty update; the caller always receives the
// full record.
func (h *StateHandler) HandleUpdateState(w http.ResponseWriter, r *http.Request) {
	payload := h.decodePayload(w, r)

	record, err := h.app.Update(r.Context(), payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to persist scoreboard update")
	}

	h.writeRecord(w, record)
}

func (h *StateHandler) decodePayload(w http.ResponseWriter, r *http.Request) map[string]any {
	defer r.Body.Close()

	var payload map[string]any
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBody)).Decode(&payload)
	switch {
	case err == nil:
		return payload
	case errors.Is(err, io.EOF):
		return nil
	default:
		h.logger.Warn().Err(err).Msg("ignoring malformed scoreboard update body")
		return nil
	}
}

func (h *StateHandler) writeRecord(w http.ResponseWriter, record scoreboard.Record) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(record); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode scoreboard response")
	}
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", h.HandleGetState)
	mux.HandleFunc("POST /api/state", h.HandleUpdateState)
}
