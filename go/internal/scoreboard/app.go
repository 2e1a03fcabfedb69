package scoreboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Repository defines what the app layer needs from durable storage
type Repository interface {
	Load(ctx context.Context) Record
	Save(ctx context.Context, record Record) error
}

// RemoteResult describes what a remote snapshot did to the stored record.
type RemoteResult int

const (
	// RemoteNoData means the snapshot carried no recognised field.
	RemoteNoData RemoteResult = iota
	// RemoteUnchanged means the merged record equals the stored one; nothing was written.
	RemoteUnchanged
	// RemoteUpdated means the merged record was persisted.
	RemoteUpdated
)

func (r RemoteResult) String() string {
	switch r {
	case RemoteNoData:
		return "no_data"
	case RemoteUnchanged:
		return "unchanged"
	case RemoteUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// App owns the in-process copy of the scoreboard and every path that writes it.
//
// Each write re-reads the repository, merges and saves while holding mu, so a
// local update and a remote sync never interleave between their read and
// write. The last write to complete wins.
type App struct {
	repo   Repository
	logger zerolog.Logger

	mu    sync.Mutex
	cache Record
}

// NewApp creates a new scoreboard App and primes the cache from repo.
func NewApp(ctx context.Context, repo Repository, logger zerolog.Logger) *App {
	return &App{
		repo:   repo,
		logger: logger.With().Str("component", "scoreboard").Logger(),
		cache:  repo.Load(ctx),
	}
}

// Current returns a copy of the last known record without touching storage.
func (a *App) Current() Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cache.Clone()
}

// Read loads the stored record and refreshes the cache with it.
func (a *App) Read(ctx context.Context) Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.repo.Load(ctx)
	a.cache = current
	return current.Clone()
}

// Update applies a controller payload against freshly loaded state and
// persists the result. The merged record is returned even when the save fails;
// the cache holds it until the next successful read.
func (a *App) Update(ctx context.Context, payload map[string]any) (Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := ApplyLocalUpdate(a.repo.Load(ctx), payload)
	a.cache = next

	if err := a.repo.Save(ctx, next); err != nil {
		return next.Clone(), fmt.Errorf("failed to save local update: %w", err)
	}

	a.logger.Debug().Int("keys", len(payload)).Msg("applied local update")
	return next.Clone(), nil
}

// ApplyRemote merges a decoded remote document into freshly loaded state.
// Nothing is written when the snapshot has no applicable data or when the
// merge leaves the record unchanged.
func (a *App) ApplyRemote(ctx context.Context, raw any) (RemoteResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.repo.Load(ctx)
	next, ok := ApplyRemoteSnapshot(current, raw)
	if !ok {
		return RemoteNoData, nil
	}
	if Equal(current, next) {
		return RemoteUnchanged, nil
	}

	a.cache = next
	if err := a.repo.Save(ctx, next); err != nil {
		return RemoteUpdated, fmt.Errorf("failed to save remote snapshot: %w", err)
	}

	a.logger.Debug().Msg("applied remote snapshot")
	return RemoteUpdated, nil
}
