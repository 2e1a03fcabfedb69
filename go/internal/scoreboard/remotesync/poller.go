package remotesync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/clients"
	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/internal/scoreboard"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const (
	// DefaultInterval is the poll period when none is configured.
	DefaultInterval = time.Second
	// DefaultCycleTimeout bounds a single fetch-and-merge cycle when none is configured.
	DefaultCycleTimeout = 10 * time.Second
)

// Fetcher retrieves one decoded remote snapshot.
type Fetcher interface {
	FetchSnapshot(ctx context.Context) (any, error)
}

// Applier defines what the poller needs from the scoreboard app
type Applier interface {
	ApplyRemote(ctx context.Context, raw any) (scoreboard.RemoteResult, error)
}

// Outcome is the result of a single poll cycle.
type Outcome string

const (
	OutcomeFailed    Outcome = "failed"
	OutcomeNoData    Outcome = "no_data"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeUpdated   Outcome = "updated"
)

// Stats summarises the poller's activity since start.
type Stats struct {
	Cycles        uint64     `json:"cycles"`
	Updates       uint64     `json:"updates"`
	Failures      uint64     `json:"failures"`
	LastOutcome   Outcome    `json:"last_outcome,omitempty"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

// Poller keeps the local scoreboard in step with the remote source.
type Poller struct {
	fetcher  Fetcher
	app      Applier
	clock    clockwork.Clock
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger

	mu    sync.Mutex
	stats Stats
}

// Option customises a Poller.
type Option func(*Poller)

// WithClock replaces the real clock, typically with a clockwork.FakeClock in tests.
func WithClock(clock clockwork.Clock) Option {
	return func(p *Poller) { p.clock = clock }
}

// WithCycleTimeout bounds each cycle. Non-positive values keep DefaultCycleTimeout.
func WithCycleTimeout(timeout time.Duration) Option {
	return func(p *Poller) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// NewPoller creates a poller. A non-positive interval falls back to DefaultInterval.
func NewPoller(fetcher Fetcher, app Applier, interval time.Duration, logger zerolog.Logger, opts ...Option) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		fetcher:  fetcher,
		app:      app,
		clock:    clockwork.NewRealClock(),
		interval: interval,
		timeout:  DefaultCycleTimeout,
		logger:   logger.With().Str("component", "remotesync").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls once immediately and then on every tick until ctx is cancelled.
// Cycles run on this goroutine only, so at most one is ever in flight. Ticks
// that fire while a cycle is still running are coalesced by the ticker, and a
// hung remote holds the loop for at most the cycle timeout.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info().Dur("interval", p.interval).Dur("cycle_timeout", p.timeout).Msg("remote sync started")

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("remote sync stopped")
			return
		case <-ticker.Chan():
			p.PollOnce(ctx)
		}
	}
}

// PollOnce runs a single fetch-and-merge cycle bounded by the cycle timeout.
// Failures are logged and recorded in Stats, never returned.
func (p *Poller) PollOnce(ctx context.Context) Outcome {
	cycleCtx, cancel := clockwork.WithTimeout(ctx, p.clock, p.timeout)
	defer cancel()

	snapshot, err := p.fetcher.FetchSnapshot(cycleCtx)
	if err != nil {
		if ctx.Err() != nil {
			return p.record(OutcomeFailed, ctx.Err())
		}
		event := p.logger.Warn().Err(err)
		var statusErr *clients.StatusError
		if errors.As(err, &statusErr) {
			event = event.Int("status", statusErr.StatusCode)
		}
		event.Msg("remote poll failed")
		return p.record(OutcomeFailed, err)
	}

	result, err := p.app.ApplyRemote(cycleCtx, snapshot)
	if err != nil {
		p.logger.Error().Err(err).Msg("remote poll could not persist snapshot")
		return p.record(OutcomeFailed, err)
	}

	switch result {
	case scoreboard.RemoteNoData:
		return p.record(OutcomeNoData, nil)
	case scoreboard.RemoteUnchanged:
		return p.record(OutcomeUnchanged, nil)
	default:
		p.logger.Info().Msg("scoreboard updated from remote source")
		return p.record(OutcomeUpdated, nil)
	}
}

func (p *Poller) record(outcome Outcome, err error) Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Cycles++
	p.stats.LastOutcome = outcome
	switch {
	case err != nil:
		p.stats.Failures++
		p.stats.LastError = err.Error()
	default:
		now := p.clock.Now()
		p.stats.LastSuccessAt = &now
		p.stats.LastError = ""
		if outcome == OutcomeUpdated {
			p.stats.Updates++
		}
	}
	return outcome
}

// Stats returns a snapshot of the poller counters.
func (p *Poller) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// CycleTimeout returns the bound applied to each cycle.
func (p *Poller) CycleTimeout() time.Duration {
	return p.timeout
}

// Interval returns the configured poll period.
func (p *Poller) Interval() time.Duration {
	return p.interval
}
