package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/handlers"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
	"alfredoptarigan/ai-interviewer/internal/tracer"
	zaplogger "alfredoptarigan/ai-interviewer/pkg/logger"
	"alfredoptarigan/ai-interviewer/pkg/metrics"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	appLog := zaplogger.NewZapLogger(cfg.Log.FilePath, cfg.IsProduction())
	defer func() { _ = appLog.Sync() }()

	shutdownTracer := tracer.InitTracer(cfg.Tracing, zaplogger.Module(appLog, "tracer"))

	// Initialize session store
	sessionRepo, closeStore, err := newSessionRepository(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize session store: %v", err)
	}
	log.Printf("✅ Session store initialized (%s)", cfg.Session.Store)

	// Initialize Gemini AI
	ctx := context.Background()
	client, err := services.NewGeminiClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}

	telemetryWorker := services.NewTelemetryWorker(
		client.Models,
		cfg.Telemetry.Workers,
		cfg.Telemetry.QueueSize,
		zaplogger.Module(appLog, "telemetry"),
	)
	telemetryWorker.Start(ctx)
	log.Println("✅ Telemetry worker started successfully")

	generator := services.NewGeminiService(
		client,
		services.GeminiOptionsFromConfig(cfg.Gemini),
		telemetryWorker,
		zaplogger.Module(appLog, "gemini"),
	)
	log.Println("✅ Gemini AI initialized successfully")

	interviewService := services.NewInterviewService(
		sessionRepo,
		generator,
		services.NewDocumentParserService(zaplogger.Module(appLog, "parser")),
		zaplogger.Module(appLog, "interview"),
	)
	log.Println("✅ Interview service initialized")

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(interviewService, cfg.Storage.MaxFileSize)
	interviewHandler := handlers.NewInterviewHandler(interviewService)
	resultHandler := handlers.NewResultHandler(interviewService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "AI Interviewer API",
		// session ids and request fields are kept past the request
		Immutable: true,
		// generation calls can take most of a minute per attempt
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		// room for multipart framing around a maximum size resume
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(otelfiber.Middleware())
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + handlers.HeaderSessionID,
	}))
	app.Use(handlers.MetricsMiddleware())

	// Health check
	health := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	}
	app.Get("/health", health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})))

	// API endpoints, at the root and versioned
	handlers.RegisterRoutes(app, uploadHandler, interviewHandler, resultHandler)

	api := app.Group("/api/v1")
	api.Get("/health", health)
	handlers.RegisterRoutes(api, uploadHandler, interviewHandler, resultHandler)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interviewer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /upload_resume",
				"POST /setup_interview",
				"POST /submit_answer",
				"GET /get_assessment",
				"GET /session",
				"DELETE /session",
				"GET /health",
				"GET /metrics",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Printf("❌ Failed to start server: %v", err)
	}

	telemetryWorker.Stop()
	if err := closeStore(); err != nil {
		appLog.Warn("failed to close session store", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracer(shutdownCtx); err != nil {
		appLog.Warn("failed to shut down tracer", zap.Error(err))
	}
	log.Println("👋 Server stopped")
}

func newSessionRepository(cfg *config.Config) (repositories.SessionRepository, func() error, error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		rdb, err := config.InitRedis(cfg)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewRedisSessionRepository(rdb, cfg.Session.TTL), rdb.Close, nil
	case config.SessionStoreMemory, "":
		repo := repositories.NewMemorySessionRepository(cfg.Session.TTL, cfg.Session.CleanupInterval)
		return repo, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}
