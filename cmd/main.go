package main

import (
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/estate-service/internal/config"
	"github.com/senyabanana/estate-service/internal/db"
	"github.com/senyabanana/estate-service/internal/handlers"
	"github.com/senyabanana/estate-service/internal/logger"
	"github.com/senyabanana/estate-service/internal/repository"
	"github.com/senyabanana/estate-service/internal/router"
	"github.com/senyabanana/estate-service/internal/services"
	"github.com/senyabanana/estate-service/internal/storage"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	slogger := logger.New(logger.ParseLevel(cfg.LogLevel))

	uploads, err := storage.NewUploads(cfg.UploadDir)
	if err != nil {
		log.Fatalf("error initializing upload storage: %v", err)
	}

	houseRepo := repository.NewPostgresHouseRepository(dbPool)
	brokerRepo := repository.NewPostgresBrokerRepository(dbPool)
	requestRepo := repository.NewPostgresBrokerRequestRepository(dbPool)
	feedbackRepo := repository.NewPostgresFeedbackRepository(dbPool)

	houseService := services.NewHouseService(houseRepo)
	brokerService := services.NewBrokerService(brokerRepo)
	requestService := services.NewRequestService(requestRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo)

	houseHandler := handlers.NewHouseHandler(houseService, uploads, slogger, 5*time.Second)
	brokerHandler := handlers.NewBrokerHandler(brokerService, cfg.BrokerSecret, slogger, 5*time.Second)
	requestHandler := handlers.NewRequestHandler(requestService, brokerService, uploads, slogger, 5*time.Second)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, slogger, 5*time.Second)

	routes := router.InitRoutes(houseHandler, brokerHandler, requestHandler, feedbackHandler, cfg.UploadDir, cfg.AllowedOrigins)

	slogger.Info("server is listening", "address", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
