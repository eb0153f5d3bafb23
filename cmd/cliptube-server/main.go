// Command cliptube-server runs the ClipTube API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/auth"
	"github.com/cliptube/cliptube/internal/cache"
	memorycache "github.com/cliptube/cliptube/internal/cache/memory"
	rediscache "github.com/cliptube/cliptube/internal/cache/redis"
	"github.com/cliptube/cliptube/internal/config"
	"github.com/cliptube/cliptube/internal/handler"
	"github.com/cliptube/cliptube/internal/repository"
	"github.com/cliptube/cliptube/internal/repository/postgres"
	"github.com/cliptube/cliptube/internal/repository/sqlite"
	"github.com/cliptube/cliptube/internal/service"
	"github.com/cliptube/cliptube/internal/storage"
)

const viewFlushInterval = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}

	blobs, err := storage.NewS3Store(ctx, storage.S3Config{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		AccessKey:     cfg.Storage.AccessKeyID,
		SecretKey:     cfg.Storage.SecretAccessKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}, logger)
	if err != nil {
		return fmt.Errorf("init blob store: %w", err)
	}

	tokens := auth.NewTokenManager(auth.TokenManagerConfig{
		AccessSecret:  cfg.Auth.AccessTokenSecret,
		RefreshSecret: cfg.Auth.RefreshTokenSecret,
		AccessTTL:     cfg.Auth.AccessTokenTTL,
		RefreshTTL:    cfg.Auth.RefreshTokenTTL,
		Issuer:        cfg.Auth.Issuer,
	})

	views := service.NewViewCounter(store.Videos, c, viewFlushInterval, logger)
	defer views.Stop()

	svcs := handler.Services{
		Users:         service.NewUserService(store, blobs, tokens, logger),
		Videos:        service.NewVideoService(store, blobs, views, logger),
		Comments:      service.NewCommentService(store, logger),
		Likes:         service.NewLikeService(store, logger),
		Subscriptions: service.NewSubscriptionService(store, logger),
		Tweets:        service.NewTweetService(store, logger),
		Playlists:     service.NewPlaylistService(store, logger),
		Dashboard:     service.NewDashboardService(store, logger),
	}

	router := handler.NewRouter(handler.Config{
		MaxUploadSize:  cfg.Server.MaxUploadSize,
		CookieSecure:   cfg.Server.CookieSecure,
		CORSOrigin:     cfg.Server.CORSOrigin,
		MetricsEnabled: cfg.Metrics.Enabled,
	}, svcs, tokens, db, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore connects to the configured database, runs migrations, and
// returns the repository bundle along with the raw handle for health checks.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repository.Store, repository.Health, error) {
	if cfg.Database.IsEmbedded() {
		db, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return sqlite.NewStore(db), db, nil
	}

	db, err := postgres.NewDB(ctx, postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return postgres.NewStore(db), db, nil
}

// openCache selects redis when enabled, the in-process cache otherwise.
func openCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cache.Cache, error) {
	if cfg.Redis.Enabled {
		c, err := rediscache.NewCache(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr()).Msg("using redis cache")
		return c, nil
	}
	logger.Info().Msg("using in-memory cache")
	return memorycache.NewCache(), nil
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = cfg.TimeFormat

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}
	return logger
}
