package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"golattice/adapters/api"
	"golattice/adapters/catalog"
	"golattice/adapters/montecarlo"
	"golattice/adapters/postgres"
	"golattice/adapters/rng"
	"golattice/app"
	"golattice/internal/config"
	"golattice/ports"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}

	var repo ports.ReportRepository
	if cfg.Database.URL != "" {
		db, err := initDatabase(cfg)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewReportRepository(db)
	} else {
		log.Println("DATABASE_URL not set, running without run archive")
	}

	gin.SetMode(cfg.Server.GinMode)

	baseline := montecarlo.NewSampler(rng.New())
	service := app.NewResonanceService(catalog.NewBuiltin(), baseline)
	server := api.NewServer(service, baseline, repo, cfg.Study)

	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if err := postgres.Migrate(context.Background(), db); err != nil {
		return nil, err
	}
	return db, nil
}
