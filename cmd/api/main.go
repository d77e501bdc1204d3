package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsHttp "booking-attribution-service/internal/analytics/adapters/http/fiber"
	analyticsPorts "booking-attribution-service/internal/analytics/core/ports"
	analyticsUsecase "booking-attribution-service/internal/analytics/core/usecase"

	bookingsRepoPg "booking-attribution-service/internal/bookings/adapters/postgres"
	"booking-attribution-service/internal/bookings/adapters/snapshot"
	bookingsDomain "booking-attribution-service/internal/bookings/core/domain"

	"booking-attribution-service/internal/config"
	"booking-attribution-service/internal/logger"
	"booking-attribution-service/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	_ "booking-attribution-service/docs"
)

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	joinLoc, err := config.Location(cfg.JoinTimezone)
	if err != nil {
		log.Fatal("bad JOIN_TIMEZONE", zap.Error(err))
	}
	displayLoc, err := config.Location(cfg.DisplayTimezone)
	if err != nil {
		log.Fatal("bad DISPLAY_TIMEZONE", zap.Error(err))
	}

	// Snapshot reader: postgres when configured, otherwise the CSV export
	paths := bookingsDomain.DefaultFieldPaths()
	var reader analyticsPorts.SnapshotReaderPort
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to open postgres", zap.Error(err))
		}
		defer db.Close()

		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)

		if err := db.Ping(); err != nil {
			log.Fatal("failed to ping postgres", zap.Error(err))
		}
		reader = bookingsRepoPg.NewSnapshotRepository(bookingsRepoPg.NewSQLDB(db), paths, joinLoc)
	} else {
		reader = snapshot.NewCSVReader(cfg.SnapshotCSVPath, paths, joinLoc)
	}

	// Usecases
	getAnalyticsUC := analyticsUsecase.NewGetAnalyticsUseCase(reader, displayLoc)
	if n, err := getAnalyticsUC.Load(context.Background()); err != nil {
		log.Warn("snapshot not loaded; views answer 503 until it is", zap.Error(err))
	} else {
		log.Info("snapshot loaded", zap.Int("bookings", n))
	}

	// HTTP (Fiber) app + handlers
	app := fiber.New()
	app.Use(recover.New())
	app.Use(analyticsHttp.RequestMetrics(log))

	analyticsHandler := analyticsHttp.NewAnalyticsHandler(getAnalyticsUC, log)
	analyticsHandler.Register(app.Group("/analytics"))

	// Prometheus
	app.Get("/prometheus", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Info("fiber stopped", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("addr", cfg.HTTPAddr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("fiber shutdown error", zap.Error(err))
	}

	log.Info("server exiting")
}
