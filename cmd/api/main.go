package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/config"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/database"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/handlers"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/logger"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/middleware"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/telemetry"
	"github.com/joho/godotenv"
)

// @title Naver Shopping API Collector
// @version 1.0.0
// @description 네이버 쇼핑 API를 활용한 상품 데이터 수집 및 관리 시스템
// @BasePath /
// @schemes http
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize structured logger
	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize OpenTelemetry Tracer
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, "naver-shopping-collector", cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if tracerShutdown == nil {
			return
		}
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry Metrics
	meterShutdown, err := telemetry.InitMeter(ctx, "naver-shopping-collector", cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if meterShutdown == nil {
			return
		}
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connection pool 메트릭 주기 수집
	go database.StartConnectionPoolMetricsCollector(ctx, db.DB, 15*time.Second)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Naver Shopping Collector",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	// JSON 구조화 액세스 로깅
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		TimeZone:   "Asia/Seoul",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: "naver-shopping-collector",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
		AllowHeaders: "Accept, Accept-Encoding, Content-Type, Origin, User-Agent, X-Requested-With",
	}))
	app.Use(middleware.PrometheusMiddleware())

	// Setup routes
	setupRoutes(app, db, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	addr := cfg.ServerHost + ":" + cfg.ServerPort
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config) {
	// Prometheus scrape endpoint
	app.Get("/metrics", middleware.PrometheusHandler())

	// Health check endpoints for k8s probes
	app.Get("/health", handlers.HealthCheck(db))
	app.Get("/healthz", handlers.HealthCheck(db))

	// API root info
	app.Get("/api", handlers.APIRoot)

	// Products routes (collect, search, stats, CRUD)
	products := app.Group("/products")
	handlers.SetupProductRoutes(products, db, cfg)

	// Faceted listing routes
	search := app.Group("/search")
	handlers.SetupSearchRoutes(search, db)
}
