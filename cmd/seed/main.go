// seed loads ticket fixtures from a YAML file into the configured store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/bugtrail/bugtrail/internal/bootstrap"
	"github.com/bugtrail/bugtrail/internal/config"
	"github.com/bugtrail/bugtrail/internal/fixtures"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var path string
	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVarP(&path, "file", "f", "fixtures/tickets.yaml", "fixture file to load")
	flagSet.StringVar(&cfg.Storage.Driver, "driver", cfg.Storage.Driver, "storage driver (postgres or sqlite)")
	flagSet.StringVar(&cfg.Postgres.DSN, "dsn", cfg.Postgres.DSN, "postgres connection string")
	flagSet.StringVar(&cfg.SQLite.Path, "sqlite-path", cfg.SQLite.Path, "sqlite database file")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	tickets, err := fixtures.ReadFile(path)
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := fixtures.Seed(ctx, store.Tickets, tickets)
	fmt.Fprintf(stdout, "seeded %d of %d tickets into %s\n", n, len(tickets), store.Driver)
	return err
}
