package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/torneoops/matchday/internal/core/ports"
	"github.com/torneoops/matchday/internal/core/service"
	"github.com/torneoops/matchday/internal/infrastructure/config"
	"github.com/torneoops/matchday/internal/infrastructure/notify"
	"github.com/torneoops/matchday/internal/infrastructure/rest"
	"github.com/torneoops/matchday/internal/infrastructure/storage"
	"github.com/torneoops/matchday/pkg/logger"
)

// app bundles the wired session core and its collaborators for the CLI
// commands. The controller is a per-process singleton by wiring, not by
// construction: the type itself holds no ambient global state.
type app struct {
	cfg         *config.Config
	session     *service.SessionController
	guard       *service.RouteGuard
	routes      *notify.RouteTracker
	tournaments ports.TournamentService
	detach      ports.Unsubscribe
}

// buildApp wires the application and rehydrates the session from storage.
// The transport is attached to the state feed before Bootstrap runs, so the
// first authenticated request already carries the persisted token.
func buildApp(ctx context.Context) (*app, error) {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	kv, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	transport, err := rest.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger.Component("transport"))
	if err != nil {
		return nil, err
	}

	clock := service.NewSystemClock()
	inspector := service.NewTokenInspector()
	creds := service.NewCredentialStore(kv, logger.Component("credentials"))
	scheduler := service.NewExpirationScheduler(clock, inspector, cfg.WarnLead, logger.Component("scheduler"))
	notifier := notify.NewConsoleNotifier(logger.Component("notify"))
	routes := notify.NewRouteTracker(logger.Component("routes"))

	session := service.NewSessionController(service.SessionControllerDeps{
		Clock:     clock,
		Inspector: inspector,
		Creds:     creds,
		Scheduler: scheduler,
		API:       rest.NewAuthClient(transport),
		Profiles:  rest.NewProfileClient(transport),
		Notifier:  notifier,
		Navigator: routes,
		Log:       logger.Component("session"),
	})

	detach := transport.AttachSession(session.Subscribe)
	session.Bootstrap(ctx)

	return &app{
		cfg:         cfg,
		session:     session,
		guard:       service.NewRouteGuard(session),
		routes:      routes,
		tournaments: rest.NewTournamentClient(transport),
		detach:      detach,
	}, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (ports.KeyValueStore, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "redis":
		client, err := storage.ConnectRedis(ctx, storage.RedisConfig{
			Addr: cfg.Storage.RedisAddr,
			DB:   cfg.Storage.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStore(client), nil
	case "file":
		return storage.NewFileStore(cfg.Storage.FilePath, logger.Component("storage"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
