package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ministrydocs/internal/auth"
	"ministrydocs/internal/config"
	"ministrydocs/internal/database"
	"ministrydocs/internal/database/migration"
	handlers "ministrydocs/internal/http/handler"
	"ministrydocs/internal/http/middleware"
	"ministrydocs/internal/ocr"
	"ministrydocs/internal/otel"
	"ministrydocs/internal/report"
	"ministrydocs/internal/repository/postgres"
	"ministrydocs/internal/service"
	"ministrydocs/internal/storage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	signer, err := auth.NewHMACSigner(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("failed to initialize token signer", zap.Error(err))
	}
	hasher := auth.NewBcryptHasher(0)

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	divisionRepo := postgres.NewDivisionPostgres(db)
	assignmentRepo := postgres.NewAssignmentPostgres(db)
	auditRepo := postgres.NewAuditPostgres(db)
	settingsRepo := postgres.NewSettingsPostgres(db)
	reportRepo := postgres.NewReportPostgres(db)

	authSvc := service.NewAuthService(userRepo, auditRepo, signer, hasher, cfg.Auth.TokenTTL)
	docSvc := service.NewDocumentService(docRepo, divisionRepo, settingsRepo, auditRepo, objStore, ocr.StubExtractor{})
	assignmentSvc := service.NewAssignmentService(assignmentRepo, docRepo, userRepo)
	divisionSvc := service.NewDivisionService(divisionRepo)
	userSvc := service.NewUserService(userRepo, hasher)
	auditSvc := service.NewAuditService(auditRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	reportSvc := service.NewReportService(reportRepo, auditRepo, report.NewRenderer())

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// Structured request logs
	app.Use(middleware.Logger(logger))
	app.Use(otelfiber.Middleware())

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	h := handlers.New(authSvc, docSvc, assignmentSvc, divisionSvc, userSvc, auditSvc, settingsSvc, reportSvc)
	h.RegisterRoutes(app, db, signer)

	addr := ":" + cfg.Port

	go func() {
		if err := app.Listen(addr); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("addr", addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("tracing shutdown failed", zap.Error(err))
	}
}
