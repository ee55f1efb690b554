package main

import (
	"context"
	"flag"
	"time"

	"jobboard/internal/app"
	"jobboard/internal/config"
	"jobboard/internal/database/migration"
	"jobboard/internal/database/migrations"
	dbpostgres "jobboard/internal/database/postgres"
	"jobboard/internal/database/seeder"

	"github.com/rs/zerolog/log"
)

func main() {
	skipMigrate := flag.Bool("skip-migrate", false, "only run seeders")
	skipSeed := flag.Bool("skip-seed", false, "only run migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := app.NewLogger(cfg.App)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer func() {
		_ = db.Close()
	}()

	if !*skipMigrate {
		n, err := migration.Runner{FS: migrations.FS, Logger: logger}.Run(ctx, db.SQLDB())
		if err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Int("applied", n).Msg("migrations complete")
	}

	if !*skipSeed {
		seeders := seeder.Defaults(cfg.Seed)
		if err := (seeder.Runner{Seeders: seeders}).Run(ctx, db); err != nil {
			logger.Fatal().Err(err).Msg("seed failed")
		}
		logger.Info().Int("seeders", len(seeders)).Msg("seed complete")
	}
}
