package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"searchapi/docs"
	"searchapi/internal/bjtime"
	"searchapi/internal/config"
	"searchapi/internal/database"
	"searchapi/internal/database/migration"
	handlers "searchapi/internal/http/handler"
	"searchapi/internal/http/middleware"
	"searchapi/internal/otel"
	"searchapi/internal/registry"
	"searchapi/internal/repository/postgres"
	"searchapi/internal/service"
	"searchapi/internal/storage"
)

// @title Search API
// @version 1.0
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Tracing degrades to noop when the exporter is unreachable
	shutdownTracing, err := otel.Init(ctx, bjtime.Zone, "searchapi")
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, bjtime.Zone, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Session registry: Redis when configured, in-process memory otherwise
	sessions, err := newSessionStore(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("failed to initialize session registry: %v", err)
	}

	// Initialize repositories and services
	dictRepo := postgres.NewDictionaryPostgres(db)
	snapRepo := postgres.NewSnapshotPostgres(db)
	dictSvc := service.NewDictionaryService(dictRepo)
	snapSvc := service.NewSnapshotService(objStore, snapRepo)
	searcherSvc := service.NewSearcherService(sessions, dictRepo, snapSvc,
		time.Duration(cfg.Session.DefaultTTLSec)*time.Second)

	// Expired sessions are swept in the background until shutdown
	go registry.Sweep(ctx, sessions,
		time.Duration(cfg.Session.SweepIntervalSec)*time.Second,
		func(err error) { log.Printf("session sweep: %v", err) })

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(bjtime.Zone))
	app.Use(otelfiber.Middleware())

	prom, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(prom.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Session responses carry mutable server state
	app.Use("/searchers", middleware.NoCache())

	if cfg.PprofEnabled {
		app.Use(pprof.New())
	}

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, searcherSvc, dictSvc, snapSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// newSessionStore picks the registry backend. Without REDIS_ADDR sessions
// stay in process memory and cannot survive a restart.
func newSessionStore(ctx context.Context, cfg config.RedisConfig) (registry.Store, error) {
	if cfg.Addr == "" {
		return registry.NewMemoryStore(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return registry.NewRedisStore(ctx, client)
}
