package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/bugtrail/bugtrail/internal/api/http"
	"github.com/bugtrail/bugtrail/internal/api/http/handlers"
	"github.com/bugtrail/bugtrail/internal/auth"
	"github.com/bugtrail/bugtrail/internal/bootstrap"
	"github.com/bugtrail/bugtrail/internal/config"
	"github.com/bugtrail/bugtrail/internal/observability"
	"github.com/bugtrail/bugtrail/internal/persistence"
	"github.com/bugtrail/bugtrail/internal/render"
	"github.com/bugtrail/bugtrail/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open ticket store", zap.Error(err))
	}
	defer store.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	loader := service.NewTicketLoader(service.LoaderDependencies{
		TicketRepo: store.Tickets,
		Logger:     logger,
		Metrics:    metrics,
		Pushdown:   cfg.Storage.PushdownFilters,
	})
	sessions := service.NewViewSessions(service.ViewSessionDependencies{
		Loader:      loader,
		Generations: bootstrap.Generations(redis, cfg.Redis),
		Logger:      logger,
		MaxSessions: cfg.Views.MaxSessions,
		IdleTimeout: bootstrap.GenerationTTL,
	})

	html, err := render.NewHTML(cfg.App.Name, cfg.App.BasePath)
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	session := auth.NewSessionMiddleware(tokens, cfg.Auth.SessionCookie, logger)

	deps := map[string]handlers.Pinger{store.Driver: store}
	if redis != nil {
		deps["redis"] = redis
	}

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		BasePath: cfg.App.BasePath,
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps, metrics),
		Views:    handlers.NewViewsHandler(sessions, loader, html, cfg.Views.ViewerCookie, logger),
		Tickets:  handlers.NewTicketsHandler(loader, html, cfg.App.RequestTimeout(), logger),
		Session:  session,
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("driver", store.Driver),
			zap.Bool("pushdown", cfg.Storage.PushdownFilters))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
