package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/bugtrail/bugtrail/internal/config"
)

func TestNewSQLiteAppliesSchema(t *testing.T) {
	ctx := context.Background()
	cfg := config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "tickets.db")}

	store, err := NewSQLite(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	var count int
	row := store.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='tickets'`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("query schema: %v", err)
	}
	if count != 1 {
		t.Fatalf("tickets table count = %d, want 1", count)
	}

	// Reopening must be idempotent.
	again, err := NewSQLite(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	again.Close()
}

func TestNewSQLiteRequiresPath(t *testing.T) {
	if _, err := NewSQLite(context.Background(), config.SQLiteConfig{}, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNilHandlesReportUnconfigured(t *testing.T) {
	ctx := context.Background()
	var pg *Postgres
	if err := pg.Ping(ctx); err == nil {
		t.Error("nil postgres should fail Ping")
	}
	var rd *Redis
	if err := rd.Ping(ctx); err == nil {
		t.Error("nil redis should fail Ping")
	}
	var lite *SQLite
	if err := lite.Ping(ctx); err == nil {
		t.Error("nil sqlite should fail Ping")
	}
	pg.Close()
	rd.Close()
	lite.Close()
}

func TestNewRedisDisabled(t *testing.T) {
	if r := NewRedis(context.Background(), config.RedisConfig{}, zap.NewNop()); r != nil {
		t.Fatal("expected nil Redis when no address configured")
	}
}
