package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rohits-web03/devfolio/internal/api"
	"github.com/rohits-web03/devfolio/internal/api/services"
	"github.com/rohits-web03/devfolio/internal/auth"
	"github.com/rohits-web03/devfolio/internal/config"
	"github.com/rohits-web03/devfolio/internal/logging"
	"github.com/rohits-web03/devfolio/internal/repositories"
)

// @title Devfolio API
// @version 1.0
// @description Portfolio and talent directory backend: profiles, projects and sessions.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logging.New(cfg.Environment, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	denylist, err := openDenylist(ctx, cfg, log)
	if err != nil {
		return err
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, denylist)

	deps := api.Deps{
		Config: cfg,
		Store:  store,
		Tokens: tokens,
		Log:    log,
	}
	if cfg.R2.Enabled() {
		deps.Resumes = repositories.NewR2Store(cfg.R2)
		log.Info().Str("bucket", cfg.R2.BucketName).Msg("resume uploads enabled")
	}
	if cfg.Google.Enabled() {
		deps.Google = services.NewGoogleOAuth(cfg.Google)
		log.Info().Msg("google sign-in enabled")
	}

	handler, err := api.SetupRouter(deps)
	if err != nil {
		return fmt.Errorf("router setup failed: %w", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting devfolio server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (repositories.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return repositories.NewMemoryStore(), nil
	case config.StoreDriverPostgres:
		db, err := repositories.ConnectDatabase(cfg.DB_URL, log)
		if err != nil {
			return nil, err
		}
		if err := repositories.Migrate(ctx, db); err != nil {
			return nil, err
		}
		return repositories.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func openDenylist(ctx context.Context, cfg config.Config, log zerolog.Logger) (auth.Denylist, error) {
	switch cfg.SessionDenylist {
	case "off":
		log.Warn().Msg("session revocation disabled, logout only clears the cookie")
		return nil, nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return auth.NewRedisDenylist(rdb), nil
	default:
		return auth.NewMemoryDenylist(), nil
	}
}
