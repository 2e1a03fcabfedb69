package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/internal/scoreboard/remotesync"
	"github.com/rs/zerolog"
)

const (
	serviceName    = "scoreboard-gateway"
	serviceVersion = "1.0.0"
)

// SyncStatsProvider exposes the remote sync counters for /info.
type SyncStatsProvider interface {
	Stats() remotesync.Stats
}

// Config holds what the gateway needs beyond the scoreboard app.
type Config struct {
	PublicDir string
	Backend   string
	// SyncStats is nil when remote sync is disabled.
	SyncStats SyncStatsProvider
}

type infoResponse struct {
	Service    string            `json:"service"`
	Version    string            `json:"version"`
	Backend    string            `json:"backend"`
	RemoteSync *remotesync.Stats `json:"remote_sync"`
}

// NewRouter wires the state API, display pages and service endpoints behind
// CORS and request logging.
func NewRouter(app StateApp, cfg Config, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	NewStateHandler(app, logger).RegisterStateRoutes(mux)
	RegisterPageRoutes(mux, cfg.PublicDir)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error().Err(err).Msg("failed to write health check response")
		}
	})

	mux.HandleFunc("GET /info", func(w http.ResponseWriter, r *http.Request) {
		resp := infoResponse{
			Service: serviceName,
			Version: serviceVersion,
			Backend: cfg.Backend,
		}
		if cfg.SyncStats != nil {
			stats := cfg.SyncStats.Stats()
			resp.RemoteSync = &stats
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error().Err(err).Msg("failed to encode info response")
		}
	})

	return CORS(RequestLogger(logger, mux))
}
