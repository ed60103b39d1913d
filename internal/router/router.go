package router

import (
	"database/sql"
	"fmt"
	"net/http"

	"physio_records_backend/internal/config"
	"physio_records_backend/internal/handlers"
	"physio_records_backend/internal/middleware"
	"physio_records_backend/internal/repositories"
	"physio_records_backend/internal/search"
	"physio_records_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers onto the engine.
func Setup(engine *gin.Engine, db *sql.DB, cfg *config.Config) error {
	// Initialize Repositories
	clientRepo := repositories.NewClientRepository(db)
	visitRepo := repositories.NewVisitRepository(db)
	pendingRepo := repositories.NewPendingRecordRepository(db)

	// Initialize Services
	clientService := services.NewClientService(clientRepo, visitRepo, pendingRepo, db)
	pendingService := services.NewPendingRecordService(pendingRepo, db)

	sessions, err := search.NewSessions(cfg.SearchSessions, cfg.SearchDebounce, clientService.SearchClients)
	if err != nil {
		return fmt.Errorf("failed to set up live search: %w", err)
	}

	// Initialize Handlers
	clientHandler := handlers.NewClientHandler(clientService, sessions)
	pendingHandler := handlers.NewPendingRecordHandler(pendingService)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", middleware.MetricsHandler())

	api := engine.Group("/api")
	SetupPendingRecordRoutes(api, pendingHandler)
	SetupClientRoutes(api, clientHandler)
	return nil
}
