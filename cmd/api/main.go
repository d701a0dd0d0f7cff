package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"facility-kpi-service/config"

	kpiHttp "facility-kpi-service/internal/kpi/adapters/http/fiber"
	kpiRepoPg "facility-kpi-service/internal/kpi/adapters/postgres"
	kpiPorts "facility-kpi-service/internal/kpi/core/ports"
	kpiUsecase "facility-kpi-service/internal/kpi/core/usecase"

	syncHttp "facility-kpi-service/internal/sync/adapters/http/fiber"
	"facility-kpi-service/internal/sync/adapters/keylock"
	syncRepoPg "facility-kpi-service/internal/sync/adapters/postgres"
	"facility-kpi-service/internal/sync/adapters/restlist"
	syncPorts "facility-kpi-service/internal/sync/core/ports"
	syncUsecase "facility-kpi-service/internal/sync/core/usecase"

	reportsHttp "facility-kpi-service/internal/reports/adapters/http/fiber"
	reportsPorts "facility-kpi-service/internal/reports/core/ports"
	reportsUsecase "facility-kpi-service/internal/reports/core/usecase"

	"facility-kpi-service/pkg/database"
	"facility-kpi-service/pkg/logger"
	"facility-kpi-service/pkg/redis"

	_ "facility-kpi-service/docs"
)

// summaryStore is what both backends provide for monthly summaries.
type summaryStore interface {
	syncPorts.SummaryStorePort
	reportsPorts.SummaryQueryPort
}

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	// Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Storage backends
	var (
		dailyReader kpiPorts.DailyRecordReaderPort
		summaries   summaryStore
	)

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.NewDB(&cfg.Database, zl)
		if err != nil {
			zl.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer db.Close()

		if cfg.Database.Migrate {
			if err := database.RunMigrations(db, zl); err != nil {
				zl.Fatal("failed to migrate postgres", zap.Error(err))
			}
		}

		dailyReader = kpiRepoPg.NewDailyRecordRepository(kpiRepoPg.NewSQLDB(db))
		summaries = syncRepoPg.NewSummaryRepository(syncRepoPg.NewSQLDB(db))

	case config.BackendList:
		client := restlist.NewClient(restlist.Config{
			BaseURL:       cfg.List.BaseURL,
			Token:         cfg.List.Token,
			Timeout:       cfg.List.Timeout,
			PageSize:      cfg.List.PageSize,
			DailyListName: cfg.Store.DailyListName,
		})
		dailyReader = client
		summaries = client
	}

	zl.Info("storage backend ready", zap.String("backend", cfg.Store.Backend))

	// Usecases
	builderOpts := kpiUsecase.Options{
		UseCalendarDays: !cfg.KPI.UseWorkingDays,
		RowsPerDay:      kpiUsecase.Rows(cfg.KPI.RowsPerDay),
	}
	builder := kpiUsecase.NewSummaryBuilder(builderOpts)

	upsertUC := syncUsecase.NewUpsertSummaryUseCase(summaries, cfg.Store.SummaryListName, zl)
	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(&cfg.Redis, zl)
		if err != nil {
			zl.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()

		locker := keylock.NewKeyLocker(rdb.Locker(), cfg.Redis.LockTTL, cfg.Redis.LockRetries, cfg.Redis.LockBackoff, zl)
		upsertUC = upsertUC.WithLocker(locker)
	}

	syncMonthUC := syncUsecase.NewSyncMonthUseCase(dailyReader, builder, upsertUC, zl)
	getReportUC := reportsUsecase.NewGetMonthlyReportUseCase(summaries, cfg.Store.SummaryListName, zl)
	exportReportUC := reportsUsecase.NewExportMonthlyReportUseCase(getReportUC, zl)

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// kpi endpoints
	kpiHandler := kpiHttp.NewKpiHandler(builderOpts, func(opts kpiUsecase.Options) kpiHttp.Aggregator {
		return kpiUsecase.NewSummaryBuilder(opts)
	}, zl)
	app.Post("/kpi/aggregate", kpiHandler.Aggregate)

	// sync endpoints
	syncHandler := syncHttp.NewSyncHandler(syncMonthUC, cfg.KPI.OnlyChanged)
	app.Post("/sync/monthly", syncHandler.SyncMonthly)

	// report endpoints
	reportHandler := reportsHttp.NewReportHandler(getReportUC, exportReportUC)
	app.Get("/reports/monthly", reportHandler.GetMonthly)
	app.Get("/reports/monthly/export", reportHandler.ExportMonthly)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			zl.Error("fiber stopped", zap.Error(err))
		}
	}()

	zl.Info("server started", zap.String("addr", cfg.Server.Addr()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	zl.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		zl.Error("fiber shutdown error", zap.Error(err))
	}

	zl.Info("server exiting")
}
