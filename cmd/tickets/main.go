// tickets prints one ticket view as a terminal table, using the same loader and
// view filters as the web pages.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/bugtrail/bugtrail/internal/bootstrap"
	"github.com/bugtrail/bugtrail/internal/config"
	"github.com/bugtrail/bugtrail/internal/domain"
	"github.com/bugtrail/bugtrail/internal/render"
	"github.com/bugtrail/bugtrail/internal/service"
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

	var (
		viewType string
		userID   string
		timeout  time.Duration
		verbose  bool
	)
	flagSet := pflag.NewFlagSet("tickets", pflag.ContinueOnError)
	flagSet.StringVarP(&viewType, "type", "t", string(domain.ViewAll),
		"view to show: "+joinModes())
	flagSet.StringVar(&userID, "user-id", "", "current user id for the my and assigned-to-me views")
	flagSet.StringVar(&cfg.Storage.Driver, "driver", cfg.Storage.Driver, "storage driver (postgres or sqlite)")
	flagSet.StringVar(&cfg.Postgres.DSN, "dsn", cfg.Postgres.DSN, "postgres connection string")
	flagSet.StringVar(&cfg.SQLite.Path, "sqlite-path", cfg.SQLite.Path, "sqlite database file")
	flagSet.BoolVar(&cfg.Storage.PushdownFilters, "pushdown", cfg.Storage.PushdownFilters, "filter in the store query as well")
	flagSet.DurationVar(&timeout, "timeout", 30*time.Second, "overall time limit")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	mode, ok := domain.ParseViewMode(viewType)
	if !ok {
		return fmt.Errorf("unknown view %q (want one of %s)", viewType, joinModes())
	}
	// Without --user-id the my and assigned-to-me views are simply empty.
	var user *domain.User
	if userID != "" {
		user = &domain.User{ID: userID}
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	loader := service.NewTicketLoader(service.LoaderDependencies{
		TicketRepo: store.Tickets,
		Logger:     logger,
		Pushdown:   cfg.Storage.PushdownFilters,
	})
	tickets, err := loader.Collect(ctx, mode, user)
	if err != nil {
		return err
	}
	return render.Terminal(stdout, tickets)
}

func joinModes() string {
	names := make([]string, 0, len(domain.ViewModes))
	for _, m := range domain.ViewModes {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
