//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/internal/scoreboard"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func getTestRedisBackend(t *testing.T) *RedisBackend {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	key := "scoreboard:test:" + uuid.NewString()
	backend, err := DialRedisBackend(context.Background(), url, key)
	if err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	t.Cleanup(func() {
		_ = backend.client.Del(context.Background(), key).Err()
		_ = backend.Close()
	})
	return backend
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	repo := NewRepository(getTestRedisBackend(t), zerolog.Nop())
	ctx := context.Background()

	created, err := repo.Init(ctx)
	if err != nil || !created {
		t.Fatalf("Init = (%v, %v), want (true, nil)", created, err)
	}
	if diff := cmp.Diff(scoreboard.DefaultRecord(), repo.Load(ctx)); diff != "" {
		t.Fatalf("Load after Init mismatch (-want +got):\n%s", diff)
	}

	rec := scoreboard.DefaultRecord()
	rec[scoreboard.FieldCurrentGame] = float64(5)
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if diff := cmp.Diff(rec, repo.Load(ctx)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
