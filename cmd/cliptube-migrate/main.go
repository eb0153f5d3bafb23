// Command cliptube-migrate applies pending schema migrations and exits.
// The server also migrates on startup; this binary exists for deploy
// pipelines that migrate before rolling new processes.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/config"
	"github.com/cliptube/cliptube/internal/repository/postgres"
	"github.com/cliptube/cliptube/internal/repository/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	timeout := flag.Duration("timeout", 2*time.Minute, "migration timeout")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := migrate(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("migrations applied")
}

func migrate(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
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
			return err
		}
		defer db.Close()
		return db.Migrate(ctx)
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
		return err
	}
	defer db.Close()
	return db.Migrate(ctx)
}
