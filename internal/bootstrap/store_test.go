package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bugtrail/bugtrail/internal/config"
	"github.com/bugtrail/bugtrail/internal/domain"
	"github.com/bugtrail/bugtrail/internal/repository"
)

func TestOpenStoreSQLite(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverSQLite},
		SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "store.db")},
	}
	ctx := context.Background()

	store, err := OpenStore(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	if store.Driver != config.DriverSQLite {
		t.Errorf("driver = %q", store.Driver)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	ticket := domain.Ticket{Title: "Login broken", Status: domain.TicketStatusFailed, CreatedAt: time.Now()}
	if err := store.Tickets.Insert(ctx, &ticket); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err := store.Tickets.GetByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Login broken" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "mongo"}}
	if _, err := OpenStore(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenStorePostgresRequiresDSN(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverPostgres}}
	if _, err := OpenStore(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error without a DSN")
	}
}

func TestGenerationsFallsBackToMemory(t *testing.T) {
	gens := Generations(nil, config.RedisConfig{})
	first, err := gens.Next(context.Background(), "viewer")
	if err != nil {
		t.Fatal(err)
	}
	second, _ := gens.Next(context.Background(), "viewer")
	if second <= first {
		t.Fatalf("generations not increasing: %d then %d", first, second)
	}
	var _ repository.GenerationSource = gens
}
