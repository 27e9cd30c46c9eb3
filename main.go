package main

import (
	"log"

	api "worksync-backend/cmd/api"
	workspacedomain "worksync-backend/internal/workspace/domain"
	workspaceRepo "worksync-backend/internal/workspace/repository"
	workspaceUsecase "worksync-backend/internal/workspace/usecase"
	"worksync-backend/pkg/config"
	"worksync-backend/pkg/database"
	"worksync-backend/pkg/graph"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize the workspace store. Without a DSN the engine still runs,
	// serving live sync results without persistence.
	var repo workspaceRepo.WorkspaceRepository
	if cfg.DatabaseDSN == "" {
		log.Printf("[WARN] DATABASE_DSN not configured, persistence disabled")
		repo = workspaceRepo.NewNullRepository()
	} else {
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		// Auto-migrate database schemas
		if err := db.AutoMigrate(
			&workspacedomain.Email{},
			&workspacedomain.Contact{},
			&workspacedomain.Meeting{},
			&workspacedomain.Folder{},
			&workspacedomain.SyncStatus{},
		); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}

		repo = workspaceRepo.NewGormRepository(db, cfg.PageSize, cfg.BatchSize)
	}

	// Initialize the remote workspace provider
	provider := graph.NewService(cfg.GraphBaseURL, cfg.GraphAccessToken)

	// Initialize the sync engine (dependency injection)
	workspaceUc, err := workspaceUsecase.NewWorkspaceUsecase(repo, provider, workspaceUsecase.Options{
		CacheTimeout:     cfg.CacheTimeout,
		InitialWeeks:     cfg.InitialWeeks,
		MaxWeeks:         cfg.MaxWeeks,
		BackfillDelay:    cfg.BackfillDelay,
		NotifyEveryWeeks: cfg.NotifyEveryWeeks,
		BackgroundLoad:   true,
	})
	if err != nil {
		log.Fatal("Failed to initialize workspace usecase:", err)
	}
	defer workspaceUc.Close()

	// Initialize HTTP handler
	handler := api.NewHandler(workspaceUc, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
