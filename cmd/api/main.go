package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/codehercare/clinic-api/internal/config"
	"github.com/codehercare/clinic-api/internal/email"
	"github.com/codehercare/clinic-api/internal/handler"
	analyticsHandler "github.com/codehercare/clinic-api/internal/handler/analytics"
	assessmentHandler "github.com/codehercare/clinic-api/internal/handler/assessment"
	authHandler "github.com/codehercare/clinic-api/internal/handler/auth"
	chatbotHandler "github.com/codehercare/clinic-api/internal/handler/chatbot"
	costHandler "github.com/codehercare/clinic-api/internal/handler/cost"
	importerHandler "github.com/codehercare/clinic-api/internal/handler/importer"
	inventoryHandler "github.com/codehercare/clinic-api/internal/handler/inventory"
	patientHandler "github.com/codehercare/clinic-api/internal/handler/patient"
	roomHandler "github.com/codehercare/clinic-api/internal/handler/room"
	"github.com/codehercare/clinic-api/internal/importer"
	"github.com/codehercare/clinic-api/internal/middleware"
	"github.com/codehercare/clinic-api/internal/repository/postgres"
	"github.com/codehercare/clinic-api/internal/riskmodel"
	"github.com/codehercare/clinic-api/internal/router"
	analyticsService "github.com/codehercare/clinic-api/internal/service/analytics"
	assessmentService "github.com/codehercare/clinic-api/internal/service/assessment"
	authService "github.com/codehercare/clinic-api/internal/service/auth"
	chatbotService "github.com/codehercare/clinic-api/internal/service/chatbot"
	costService "github.com/codehercare/clinic-api/internal/service/cost"
	inventoryService "github.com/codehercare/clinic-api/internal/service/inventory"
	patientService "github.com/codehercare/clinic-api/internal/service/patient"
	roomService "github.com/codehercare/clinic-api/internal/service/room"
	"github.com/codehercare/clinic-api/pkg/auth"
	"github.com/codehercare/clinic-api/pkg/metrics"
	"github.com/codehercare/clinic-api/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := validator.RegisterCustomValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validations")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Load the classifier artifact. A missing artifact degrades the
	// assessment endpoints only; the rest of the API keeps working.
	gateway := riskmodel.Load(cfg.Model.ArtifactPath)
	if !gateway.Available() {
		log.Warn().Str("path", cfg.Model.ArtifactPath).Msg("model artifact unavailable, assessments disabled")
	}

	// Initialize repositories
	patientRepo := postgres.NewPatientRepository(db)
	assessmentRepo := postgres.NewAssessmentRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	costRepo := postgres.NewCostRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	m := metrics.NewMetrics("clinic", "api")

	// The email notifier is nil when alerts are disabled; the assessment
	// service treats a nil notifier as a no-op.
	var notifier assessmentService.Notifier
	if n := email.NewNotifier(&cfg.Alerts); n != nil {
		notifier = n
	}

	// Initialize services
	jwtSvc := auth.NewJWTService(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour,
		time.Duration(cfg.JWT.RefreshExpiryHours)*time.Hour,
	)
	authSvc := authService.NewService(userRepo, jwtSvc)
	patientSvc := patientService.NewService(patientRepo, outboxRepo)
	assessmentSvc := assessmentService.NewService(assessmentRepo, patientRepo, outboxRepo, gateway, notifier, m)
	analyticsSvc := analyticsService.NewService(patientRepo, assessmentRepo, inventoryRepo, costRepo)
	roomSvc := roomService.NewService(roomRepo)
	inventorySvc := inventoryService.NewService(inventoryRepo)
	costSvc := costService.NewService(costRepo)
	chatbotSvc := chatbotService.NewService(patientRepo, assessmentRepo, roomRepo, inventoryRepo)
	importSvc := importer.NewService(inventoryRepo, costRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Initialize handlers
	h := handler.NewHandler(db, gateway)

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		patientHandler.NewHandler(patientSvc),
		assessmentHandler.NewHandler(assessmentSvc),
		analyticsHandler.NewHandler(analyticsSvc),
		roomHandler.NewHandler(roomSvc),
		inventoryHandler.NewHandler(inventorySvc),
		costHandler.NewHandler(costSvc),
		chatbotHandler.NewHandler(chatbotSvc),
		importerHandler.NewHandler(importSvc),
		h,
		router.RouterConfig{
			RateLimit:     rate.Limit(100),
			RateBurst:     200,
			CacheTTL:      cacheTTL,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "clinic_api",
		},
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
