package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/api"
	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	metrics.Register()

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("Failed to close adapters", "error", closeErr)
		}
	}()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	if consumer := app.CreateOrderIntakeConsumer(); consumer != nil {
		go func() {
			if runErr := consumer.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
				logger.Error("Order intake consumer stopped", "error", runErr)
			}
		}()
		defer func() { _ = consumer.Close() }()
	}

	e, err := newWebServer(ctx, app, configs)
	if err != nil {
		log.Fatalf("Error building web server: %v", err)
	}
	startWebServer(ctx, e, configs.HTTPPort, logger)
}

func newWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config) (*echo.Echo, error) {
	doc, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}

	server := httpin.NewServer(app.HTTPHandlers(), slog.Default())
	return httpin.NewRouter(server, httpin.RouterConfig{
		JWTSecret: []byte(configs.JWTSecret),
		Doc:       doc,
	})
}

func startWebServer(ctx context.Context, e *echo.Echo, port string, logger *slog.Logger) {
	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()
	logger.Info("HTTP server started", "port", port)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped")
}
