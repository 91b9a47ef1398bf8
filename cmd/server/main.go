package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/pitchforge/backend/config"
	"github.com/pitchforge/backend/internal/eventbus"
	"github.com/pitchforge/backend/internal/handler"
	"github.com/pitchforge/backend/internal/pkg/database"
	"github.com/pitchforge/backend/internal/pkg/layouts"
	"github.com/pitchforge/backend/internal/pkg/llm"
	"github.com/pitchforge/backend/internal/repository"
	"github.com/pitchforge/backend/internal/router"
	"github.com/pitchforge/backend/internal/service"
	"github.com/pitchforge/backend/internal/service/generator"
	"github.com/pitchforge/backend/internal/service/merger"
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("Server starting...")

	cfg := config.GetConfig()

	if cfg.Database.Type == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	catalog, err := layouts.NewCatalog()
	if err != nil {
		log.Fatalf("Failed to load layout catalog: %v", err)
	}

	pbRepo := repository.NewPitchbookRepository(db)
	runRepo := repository.NewGenerationRunRepository(db)

	llmService := llm.NewService(llm.NewClient(cfg))
	bus := eventbus.NewGenerationEventBus()

	orch := generator.New(llmService, catalog, cfg.Generation)
	merge := merger.New(llmService, cfg.Generation.CallTimeout)

	pitchbookService := service.NewPitchbookService(cfg, pbRepo, catalog)
	generationService := service.NewGenerationService(cfg, pbRepo, runRepo, orch, merge, bus)

	pitchbookHandler := handler.NewPitchbookHandler(pitchbookService)
	generationHandler := handler.NewGenerationHandler(generationService)
	layoutHandler := handler.NewLayoutHandler(pitchbookService)
	configHandler := handler.NewConfigHandler(cfg)

	r := router.Setup(cfg, pitchbookHandler, generationHandler, layoutHandler, configHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
