package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"improved-initiative/core/account"
	"improved-initiative/core/catalog"
	"improved-initiative/core/config"
	"improved-initiative/core/database"
	"improved-initiative/core/logger"
	"improved-initiative/core/storage"
	"improved-initiative/core/store"
	"improved-initiative/core/tasks"
	"improved-initiative/feature/libraries"

	"go.uber.org/zap"
)

// env is what every command needs after configuration is loaded.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	runner *tasks.Runner
	deps   libraries.Deps
}

func loadEnv() (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &env{cfg: cfg, log: l}, nil
}

// wire connects the collaborators. Unreachable backends degrade: the
// database falls back to memory, and a missing catalog or account is skipped.
func (e *env) wire(ctx context.Context) {
	e.runner = tasks.NewRunner(tasks.Options{MaxAttempts: uint(e.cfg.Sync.RetryAttempts)}, e.log.Named("tasks"))
	e.deps = libraries.Deps{
		Store:   e.openStore(ctx),
		Catalog: e.openCatalog(),
		Account: e.openAccount(),
		Runner:  e.runner,
		Logger:  e.log,
	}
}

func (e *env) openStore(ctx context.Context) store.Store {
	logOpt := store.WithLogger(e.log.Named("store"))
	db, err := database.Connect(e.cfg.Database)
	if err != nil {
		e.log.Warn("Database unavailable, keeping local items in memory", zap.Error(err))
		return store.NewMemory(logOpt)
	}
	s := store.NewGormStore(db, logOpt)
	if err := s.Migrate(ctx); err != nil {
		e.log.Warn("Database migration failed, keeping local items in memory", zap.Error(err))
		return store.NewMemory(logOpt)
	}
	e.log.Info("Connected to local item database", zap.String("driver", e.cfg.Database.Driver))
	return s
}

func (e *env) openCatalog() catalog.Source {
	if e.cfg.Sync.CatalogSource == config.CatalogSourceHTTP {
		timeout := time.Duration(e.cfg.Storage.TimeoutSeconds) * time.Second
		return catalog.NewHTTPSource(e.cfg.Sync.CatalogURL, timeout)
	}
	client, err := storage.NewClient(e.cfg.Storage)
	if err != nil {
		e.log.Warn("Catalog storage unavailable, starting without the bundled catalog", zap.Error(err))
		return nil
	}
	return catalog.NewBucketSource(client, e.cfg.Storage.Bucket)
}

func (e *env) openAccount() *account.Client {
	client, err := account.NewClient(e.cfg.Account)
	if errors.Is(err, account.ErrNotConfigured) {
		e.log.Info("No account configured, account sync disabled")
		return nil
	}
	if err != nil {
		e.log.Warn("Account client unavailable", zap.Error(err))
		return nil
	}
	return client
}

// drain waits for detached persistence to finish.
func (e *env) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(e.cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()
	if err := e.runner.Shutdown(ctx); err != nil {
		e.log.Warn("Background tasks did not finish before shutdown", zap.Error(err))
	}
}
