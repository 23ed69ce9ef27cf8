// Package app wires configuration, storage, and the HTTP server into a
// runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/blob"
	"cpnotes/pkg/catalog"
	"cpnotes/pkg/config"
	"cpnotes/pkg/logger"
	"cpnotes/pkg/store"
	"cpnotes/pkg/validation"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	blobs blob.Store
	srv   *http.Server
}

// New initializes everything that does not need a running context:
// logging, auth, limits, the store, and the blob cache. Call Run to
// start the HTTP server and block until shutdown.
func New(ctx context.Context, eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	if err := validateConfig(eff); err != nil {
		return nil, err
	}
	cfg := eff.Config

	logger.Init(cfg.Logging.Level)
	auth.Init(cfg.Auth.JWTSecret)
	validation.SetLimits(validation.Limits{
		MaxTitleLen:     cfg.Limits.MaxTitleLen,
		MaxNoteBytes:    cfg.Limits.MaxNoteBytes.Int64(),
		MaxCommentBytes: cfg.Limits.MaxCommentBytes.Int64(),
		MaxAvatarBytes:  cfg.Limits.MaxAvatarBytes.Int64(),
	})

	if err := store.Open(eff.DBPath); err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
	}

	blobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &App{eff: eff, version: version, commit: commit, buildDate: buildDate, blobs: blobs}, nil
}

// openBlobStore connects to Redis when configured, otherwise falls back
// to the in-process store so single-node setups work out of the box.
func openBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	if addr := cfg.Cache.RedisAddr; addr != "" {
		s, err := blob.NewRedisStore(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
		}
		return s, nil
	}
	logger.Log.Warn("blob_cache_in_memory")
	return blob.NewMemoryStore(), nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails. On cancellation the server gets the configured grace
// period to drain in-flight requests.
func (a *App) Run(ctx context.Context) error {
	a.printBanner()

	errCh := a.startHTTP()

	select {
	case <-ctx.Done():
		grace := a.eff.Config.Server.ShutdownGrace.Duration()
		if grace <= 0 {
			grace, _ = time.ParseDuration(config.DefaultShutdownGrace)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		err := a.srv.Shutdown(shutdownCtx)
		a.closeStores()
		return err
	case err := <-errCh:
		a.closeStores()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (a *App) closeStores() {
	if c, ok := a.blobs.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	if err := store.Close(); err != nil {
		logger.Log.Error("store_close_failed", zap.Error(err))
	}
}

// newCodeforcesClient returns the upstream judge client, or nil when the
// platform integration is disabled.
func (a *App) newCodeforcesClient() *catalog.CodeforcesClient {
	if !a.eff.Config.Platform.Enabled {
		return nil
	}
	return catalog.NewCodeforcesClient()
}
