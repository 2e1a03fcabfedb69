package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/internal/scoreboard"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by a Backend when no document has been written yet.
var ErrNotFound = errors.New("scoreboard document not found")

// Backend defines what the repository needs from durable storage: a single
// opaque document that is read and overwritten whole.
type Backend interface {
	Name() string
	Exists(ctx context.Context) (bool, error)
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Repository persists the scoreboard record on top of a Backend.
type Repository struct {
	backend Backend
	logger  zerolog.Logger
}

// NewRepository creates a new scoreboard repository
func NewRepository(backend Backend, logger zerolog.Logger) *Repository {
	return &Repository{
		backend: backend,
		logger:  logger.With().Str("component", "store").Str("backend", backend.Name()).Logger(),
	}
}

// BackendName returns the name of the storage backend in use.
func (r *Repository) BackendName() string {
	return r.backend.Name()
}

// Init writes the default record when no document exists yet. It reports
// whether a document was created.
func (r *Repository) Init(ctx context.Context) (bool, error) {
	exists, err := r.backend.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check scoreboard document: %w", err)
	}
	if exists {
		return false, nil
	}

	if err := r.Save(ctx, scoreboard.DefaultRecord()); err != nil {
		return false, err
	}
	r.logger.Info().Msg("initialized scoreboard document with defaults")
	return true, nil
}

// Load returns the stored record. A missing or unreadable document yields the
// default record; the failure is logged and never returned.
func (r *Repository) Load(ctx context.Context) scoreboard.Record {
	data, err := r.backend.Read(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read scoreboard document, falling back to defaults")
		return scoreboard.DefaultRecord()
	}

	record, err := scoreboard.Decode(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to parse scoreboard document, falling back to defaults")
		return scoreboard.DefaultRecord()
	}
	return record
}

// Save overwrites the stored document with record.
func (r *Repository) Save(ctx context.Context, record scoreboard.Record) error {
	data, err := scoreboard.Encode(record)
	if err != nil {
		return err
	}
	if err := r.backend.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to write scoreboard document: %w", err)
	}
	return nil
}
