package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/SeanZhang02/crm-api/internal/api"
	"github.com/SeanZhang02/crm-api/internal/config"
	"github.com/SeanZhang02/crm-api/internal/db"
	"github.com/SeanZhang02/crm-api/internal/export"
	"github.com/SeanZhang02/crm-api/internal/middleware"
	"github.com/SeanZhang02/crm-api/internal/repository"
)

// defaultOwnerID is used when no X-Owner-ID header is present, which is
// the normal case for local single-user deployments.
var defaultOwnerID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	companyRepo := repository.NewCompanyRepository(conn.Pool)
	contactRepo := repository.NewContactRepository(conn.Pool)
	dealRepo := repository.NewDealRepository(conn.Pool)
	activityRepo := repository.NewActivityRepository(conn.Pool)
	stageRepo := repository.NewPipelineStageRepository(conn.Pool)
	savedFilterRepo := repository.NewSavedFilterRepository(conn.Pool)
	queryRepo := repository.NewEntityQueryRepository(conn.Pool)

	// Create export service
	exportService := export.NewService(queryRepo, export.WithPageSize(cfg.ExportPageSize))

	// Register handlers
	mux := http.NewServeMux()
	api.NewCompanyHandler(companyRepo).Register(mux)
	api.NewContactHandler(contactRepo).Register(mux)
	api.NewDealHandler(dealRepo).Register(mux)
	api.NewActivityHandler(activityRepo).Register(mux)
	api.NewStageHandler(stageRepo).Register(mux)
	api.NewSavedFilterHandler(savedFilterRepo).Register(mux)
	api.NewPreviewHandler(queryRepo).Register(mux)
	export.NewHTTPHandler(exportService).Register(mux)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	handler := corsHandler.Handler(
		middleware.LoggingMiddleware(
			middleware.OwnerMiddleware(defaultOwnerID)(
				middleware.CompanyLoaderMiddleware(companyRepo)(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting CRM API server on %s", cfg.ListenAddr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
