package main

import (
	"log"

	"github.com/haulworks/gradient-backend-go/internal/api"
	"github.com/haulworks/gradient-backend-go/internal/config"
	"github.com/haulworks/gradient-backend-go/internal/database"
	"github.com/haulworks/gradient-backend-go/internal/handler"
	"github.com/haulworks/gradient-backend-go/internal/repository"
	"github.com/haulworks/gradient-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	runRepo := repository.NewRunRepository(db)
	segmentRepo := repository.NewSegmentRepository(db)

	analysisService := service.NewAnalysisService(runRepo, segmentRepo, cfg)
	exportService := service.NewExportService(runRepo, segmentRepo)

	router := api.SetupRouter(cfg,
		handler.NewAnalysisHandler(analysisService),
		handler.NewExportHandler(exportService),
	)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
