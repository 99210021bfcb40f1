package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Drivers
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	// PostgreSQL
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// Interne
	"github.com/jupiterclapton/cenackle/services/follow-service/config"
	"github.com/jupiterclapton/cenackle/services/follow-service/internal/adapters/primary/events"
	httpadapter "github.com/jupiterclapton/cenackle/services/follow-service/internal/adapters/primary/http"
	"github.com/jupiterclapton/cenackle/services/follow-service/internal/adapters/secondary/avatar"
	"github.com/jupiterclapton/cenackle/services/follow-service/internal/adapters/secondary/cache"
	"github.com/jupiterclapton/cenackle/services/follow-service/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	initLogger(cfg)
	slog.Info("🚀 Starting Follow Service", "env", cfg.Env, "port", cfg.HTTPPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Télémétrie (Tracing)
	tp, err := initTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// 3. Infrastructure : Neo4j (edge store)
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		slog.Error("Failed to create neo4j driver", "error", err)
		os.Exit(1)
	}
	defer driver.Close(context.Background())

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := driver.VerifyConnectivity(pingCtx); err != nil {
		pingCancel()
		slog.Error("Failed to connect to Neo4j", "error", err)
		os.Exit(1)
	}
	pingCancel()
	slog.Info("✅ Connected to Neo4j")

	followRepo := repository.NewFollowNeo4jRepo(driver)
	if err := followRepo.EnsureSchema(ctx); err != nil {
		slog.Warn("Schema init failed (might be fine if already exists)", "error", err)
	}

	// 4. Infrastructure : Postgres (stores d'entités)
	dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		slog.Error("Unable to parse DB config", "error", err)
		os.Exit(1)
	}
	dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		slog.Error("Database ping failed", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Database connected")

	// 5. Infrastructure : Redis (cache d'existence)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		slog.Error("Failed to instrument redis", "error", err)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Redis")

	cachedFollowRepo := cache.NewFollowRedisCache(followRepo, rdb)

	// 6. Wiring du Core
	followService := services.NewFollowQueryService(
		cachedFollowRepo,
		repository.NewUserPostgresRepo(dbPool),
		repository.NewTagPostgresRepo(dbPool),
		repository.NewArticlePostgresRepo(dbPool),
		avatar.NewGravatarService(),
	)

	// 7. NATS : invalidation du cache sur mutation du graphe (Driving - Async)
	nc, err := nats.Connect(cfg.NatsUrl)
	if err != nil {
		slog.Error("Unable to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()

	handler := events.NewEventHandler(cachedFollowRepo)
	for _, subject := range []string{events.SubjectFollowCreated, events.SubjectFollowRemoved} {
		if _, err := nc.Subscribe(subject, handler.HandleFollowChanged); err != nil {
			slog.Error("Failed to subscribe to NATS", "subject", subject, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("👂 Listening for follow events (NATS)")

	// 8. Serveur HTTP (Driving - Sync)
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpadapter.NewServer(followService).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("📡 Follow Service HTTP listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// 9. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit
	slog.Info("⚠️  Signal received, shutting down...", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("⏳ Timeout reached, forcing server stop", "error", err)
	}
	slog.Info("👋 Service stopped")
}

// --- HELPERS ---

func initLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg *config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String("1.0.0"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
