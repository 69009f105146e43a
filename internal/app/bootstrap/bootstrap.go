package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	pollrelay "quorum/contexts/community/poll-relay"
	postgresadapter "quorum/contexts/community/poll-relay/adapters/postgres"
	"quorum/contexts/community/poll-relay/application/workers"
	"quorum/contexts/community/poll-relay/domain/entities"
	settingspostgres "quorum/contexts/community/settings-store/adapters/postgres"
	settingsapp "quorum/contexts/community/settings-store/application"
	"quorum/internal/platform/config"
	"quorum/internal/platform/db"
	"quorum/internal/platform/gateway"
	"quorum/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// updateOffsetKey is where the dispatcher cursor lives in the option store.
var updateOffsetKey = settingsapp.NewKey[int64]("poll_dispatcher_update_offset")

type BotApp struct {
	server       *httpserver.Server
	dispatcher   workers.UpdateDispatcher
	postgres     *db.Postgres
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildBot(configPath string) (*BotApp, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log).With("service", cfg.ServiceName, "process", "bot")
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if strings.TrimSpace(cfg.Gateway.Token) == "" {
		return nil, errors.New("gateway token is required")
	}

	pg, err := db.Connect(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	if err := pg.Migrate(schemaModels(repo)...); err != nil {
		_ = pg.Close()
		return nil, err
	}

	client := gateway.NewClient(cfg.Gateway.URL, cfg.Gateway.Token)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	me, err := client.Me(ctx)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	logger.Info("bot profile resolved",
		"event", "bootstrap_bot_profile_resolved",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"bot_id", int64(me.ID),
		"bot_username", me.Username,
	)

	authorizer := postgresadapter.NewAuthorizer(pg.DB, adminIDs(cfg.Gateway.Admins), logger)
	settings := settingsapp.Service{
		Rows:   settingspostgres.NewRepository(pg.DB, logger),
		Logger: logger,
	}

	module := pollrelay.NewModule(pollrelay.Dependencies{
		BotID:     me.ID,
		Polls:     repo,
		Residents: repo,
		Roles:     authorizer,
		Messenger: client,
		Logger:    logger,
	})

	dispatcher := workers.UpdateDispatcher{
		Source:    client,
		Relay:     module.Relay,
		Offsets:   settingsOffsetStore{settings: settings},
		BatchSize: cfg.Dispatcher.BatchSize,
		Logger:    logger,
	}

	server := httpserver.New(module, logger, cfg.Server.Addr)
	return &BotApp{
		server:       server,
		dispatcher:   dispatcher,
		postgres:     pg,
		pollInterval: cfg.Dispatcher.Interval(),
		logger:       logger,
	}, nil
}

// Migrate reconciles the database schema and exits, for deployments that
// run schema changes separately from the bot process.
func Migrate(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log).With("service", cfg.ServiceName, "process", "migrate")
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return errors.New("postgres dsn is required")
	}

	pg, err := db.Connect(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() { _ = pg.Close() }()

	repo := postgresadapter.NewRepository(pg.DB, logger)
	if err := pg.Migrate(schemaModels(repo)...); err != nil {
		return err
	}
	logger.Info("schema migrated",
		"event", "bootstrap_schema_migrated",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return nil
}

func (a *BotApp) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Start()
	}()

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	a.logger.Info("bot app started",
		"event", "bootstrap_bot_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", a.pollInterval.String(),
	)

	for {
		// A gateway outage must not take the bot down. The cursor only
		// advances on success, so the next tick retries the same batch.
		if err := a.dispatcher.RunOnce(ctx); err != nil {
			a.logger.Error("update dispatch failed",
				"event", "bootstrap_dispatch_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case err := <-serverErr:
			return err
		case <-ticker.C:
		}
	}
}

func (a *BotApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func schemaModels(repo *postgresadapter.Repository) []any {
	return append(repo.Models(), settingspostgres.Models()...)
}

func adminIDs(ids []int64) []entities.UserID {
	admins := make([]entities.UserID, 0, len(ids))
	for _, id := range ids {
		admins = append(admins, entities.UserID(id))
	}
	return admins
}

// settingsOffsetStore keeps the dispatcher cursor in the shared option
// store, so a restart resumes from the last saved update.
type settingsOffsetStore struct {
	settings settingsapp.Service
}

func (s settingsOffsetStore) LoadOffset(ctx context.Context) (int64, error) {
	offset, _, err := settingsapp.Get(ctx, s.settings, updateOffsetKey)
	return offset, err
}

func (s settingsOffsetStore) SaveOffset(ctx context.Context, offset int64) error {
	return settingsapp.Set(ctx, s.settings, updateOffsetKey, offset)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
