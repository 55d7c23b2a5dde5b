package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bugtrail/bugtrail/internal/config"
	"github.com/bugtrail/bugtrail/internal/persistence"
	"github.com/bugtrail/bugtrail/internal/repository"
)

// GenerationTTL is how long an idle viewer's shared generation counter lives.
const GenerationTTL = 24 * time.Hour

// Store is an opened ticket store together with its connection.
type Store struct {
	Tickets repository.TicketStore
	Driver  string

	ping  func(ctx context.Context) error
	close func()
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the underlying connection.
func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStore connects to the configured storage driver and prepares its schema.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		return &Store{
			Tickets: repository.NewPostgresTicketRepository(pg.PoolHandle()),
			Driver:  config.DriverPostgres,
			ping:    pg.Ping,
			close:   pg.Close,
		}, nil
	case config.DriverSQLite:
		db, err := persistence.NewSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Tickets: repository.NewSQLiteTicketRepository(db.DB),
			Driver:  config.DriverSQLite,
			ping:    db.Ping,
			close:   db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Generations picks the generation source for view sessions: Redis when it is
// configured, otherwise process memory.
func Generations(redis *persistence.Redis, cfg config.RedisConfig) repository.GenerationSource {
	if redis == nil || redis.Client == nil {
		return repository.NewMemoryGenerations()
	}
	return repository.NewRedisGenerations(redis.Client, cfg.KeyPrefix, GenerationTTL)
}
