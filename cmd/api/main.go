package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"schemeagent/docs"
	"schemeagent/internal/agent"
	"schemeagent/internal/config"
	"schemeagent/internal/database"
	"schemeagent/internal/database/migration"
	handlers "schemeagent/internal/http/handler"
	"schemeagent/internal/http/middleware"
	"schemeagent/internal/llm"
	"schemeagent/internal/logger"
	"schemeagent/internal/metrics"
	"schemeagent/internal/otel"
	"schemeagent/internal/repository/postgres"
	"schemeagent/internal/rules"
	"schemeagent/internal/service"
	"schemeagent/internal/storage"
)

const (
	serviceName     = "schemeagent"
	bodyLimit       = 10 * 1024 * 1024
	shutdownTimeout = 10 * time.Second
)

// @title Scheme Eligibility API
// @version 1.0
// @BasePath /
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, serviceName, zl)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			zl.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database, zl)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, zl); err != nil {
		return err
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, zl)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	llmMetrics, err := metrics.NewLLM(reg)
	if err != nil {
		return err
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	backends := llm.NewBackends(cfg.LLM, zl)
	if len(backends) == 0 {
		zl.Warn("no llm backends configured; agents will report unavailable")
	}
	zl.Info("llm fallback chain", zap.Strings("backends", llm.Names(backends)))
	orch := llm.NewOrchestrator(backends, llm.WithLogger(zl), llm.WithMetrics(llmMetrics))

	agentOpts := []agent.Option{agent.WithLogger(zl), agent.WithMetrics(llmMetrics)}
	var evaluator service.EligibilityEvaluator = agent.NewEligibilityAgent(orch, agentOpts...)
	if cfg.EligibilityMode == config.EligibilityModeRules {
		evaluator = rules.Evaluator{}
	}
	zl.Info("eligibility mode", zap.String("mode", cfg.EligibilityMode))

	profileRepo := postgres.NewProfilePostgres(db)
	docRepo := postgres.NewDocumentPostgres(db)
	schemeRepo := postgres.NewSchemePostgres(db)

	profileSvc := service.NewProfileService(profileRepo)
	docSvc := service.NewDocumentService(objStore, docRepo, profileRepo,
		agent.NewExtractor(orch, agentOpts...),
		agent.NewVerifier(orch, agentOpts...),
	)
	schemeSvc := service.NewSchemeService(schemeRepo, profileRepo, docRepo,
		evaluator,
		agent.NewDiscoverer(orch, agentOpts...),
		agent.NewLetterDrafter(orch, agentOpts...),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(zl))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, profileSvc, docSvc, schemeSvc)

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

	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", ":"+cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
