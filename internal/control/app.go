package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/rollgate/rollgate/internal/api"
	"github.com/rollgate/rollgate/internal/core/config"
	"github.com/rollgate/rollgate/internal/infra/coreapi"
	redisclient "github.com/rollgate/rollgate/internal/infra/redis"
	"github.com/rollgate/rollgate/internal/infra/storage/postgres"
	"github.com/rollgate/rollgate/internal/resolve"
	"github.com/rollgate/rollgate/internal/submit"
)

// App is the main application struct that wires storage, the mempool,
// the core client, and the HTTP server together.
type App struct {
	cfg         *config.AppConfig
	db          *postgres.DB
	redisClient *redisclient.Client
	server      *api.Server
	log         *slog.Logger
}

// NewApp creates a new App instance with all dependencies initialized.
func NewApp(cfg *config.AppConfig) (*App, error) {
	log := slog.Default()

	// 1. Initialize Storage
	db, err := postgres.NewDB(context.Background(), cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}

	// Run migrations
	// Note: Goose needs direct *sql.DB which sqlx.DB wraps
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	if err := goose.Up(db.DB.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}

	// 2. Initialize Redis mempool mirror
	redisClient, err := redisclient.NewClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}
	mempool := redisclient.NewMempool(redisClient)

	// 3. Core service client
	core := coreapi.NewClient(cfg.CoreAPI)

	// 4. Resolution and submission services
	resolver := resolve.NewResolver(resolve.ResolverOpts{
		Pool:    db,
		Mempool: mempool,
		Core:    core,
		Logger:  log.With("component", "resolver"),
	})
	sender := submit.NewSender(submit.SenderOpts{
		Core:    core,
		Mempool: mempool,
		Pool:    db,
		Logger:  log.With("component", "sender"),
	})

	// 5. HTTP server
	server := api.NewServer(api.ServerOpts{
		Logger:   log.With("component", "api"),
		Port:     cfg.Server.Port,
		Resolver: resolver,
		Sender:   sender,
	})

	return &App{
		cfg:         cfg,
		db:          db,
		redisClient: redisClient,
		server:      server,
		log:         log,
	}, nil
}

// Start launches the HTTP server. It returns once the server has been
// started; fatal serve errors are logged.
func (a *App) Start(ctx context.Context) error {
	a.log.Info("Starting API server", "port", a.cfg.Server.Port)
	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Error("API server terminated", "error", err)
		}
	}()
	return nil
}

// Stop shuts down the HTTP server and closes backing connections.
func (a *App) Stop(ctx context.Context) error {
	var firstErr error

	if err := a.server.Stop(ctx); err != nil {
		a.log.Error("Failed to stop API server", "error", err)
		firstErr = err
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Failed to close redis client", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("Failed to close database", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
