package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/config"
	"github.com/mamadbah2/chickenfarm/internal/metrics"
	"github.com/mamadbah2/chickenfarm/internal/registry"
	"github.com/mamadbah2/chickenfarm/internal/repository/mongodb"
	"github.com/mamadbah2/chickenfarm/internal/repository/sheets"
	"github.com/mamadbah2/chickenfarm/internal/scheduler"
	"github.com/mamadbah2/chickenfarm/internal/server/handlers"
	"github.com/mamadbah2/chickenfarm/internal/server/router"
	commandsvc "github.com/mamadbah2/chickenfarm/internal/service/commands"
	reportingsvc "github.com/mamadbah2/chickenfarm/internal/service/reporting"
	setupsvc "github.com/mamadbah2/chickenfarm/internal/service/setup"
	"github.com/mamadbah2/chickenfarm/internal/store"
	"github.com/mamadbah2/chickenfarm/internal/transport/mqtt"
	"github.com/mamadbah2/chickenfarm/pkg/clients/notify"
	"github.com/mamadbah2/chickenfarm/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.NewMemory()
	fields := registry.New(st, baseLogger.Named("registry"))
	if err := fields.Register(registry.DefaultFields()...); err != nil {
		baseLogger.Fatal("failed to register fields", zap.Error(err))
	}

	engine, err := metrics.NewEngine(baseLogger.Named("metrics"), metrics.DefaultMetrics()...)
	if err != nil {
		baseLogger.Fatal("failed to build metrics engine", zap.Error(err))
	}
	reader := metrics.NewReader(engine, st)

	var (
		farmRepo   setupsvc.ConfigRepository = setupsvc.NewMemoryRepository()
		reportRepo reportingsvc.ReportRepository
		archive    commandsvc.CollectionArchive
		ledger     commandsvc.Ledger
		notifier   notify.Client
	)

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		farmRepo, reportRepo, archive = mongoRepo, mongoRepo, mongoRepo
	} else {
		baseLogger.Warn("MONGODB_URI is empty, farm config is kept in memory and collections are not archived")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		ledger = sheets.NewLedger(sheetsRepo)
	}

	if cfg.Notify.Enabled() {
		notifier = notify.NewClient(cfg.Notify)
	}

	setupService := setupsvc.NewService(farmRepo, baseLogger.Named("svc.setup"))
	if cfg.Farm.ImportFile != "" {
		importFarmConfig(ctx, setupService, cfg.Farm.ImportFile, baseLogger)
	}

	commandService := commandsvc.NewService(fields, st, archive, ledger, baseLogger.Named("svc.commands"))
	reportingService := reportingsvc.NewService(reader, setupService, reportRepo, baseLogger.Named("svc.reporting"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingService, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to schedule daily report", zap.Error(err))
	}
	defer sched.Stop()

	if cfg.MQTT.Enabled() {
		bridge, closeMQTT, err := startBridge(ctx, cfg.MQTT, setupService, fields, reader, st, baseLogger)
		if err != nil {
			baseLogger.Fatal("failed to start mqtt bridge", zap.Error(err))
		}
		defer closeMQTT()
		defer bridge.Stop()
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewCollector(reader, fields),
	)

	engineHTTP := router.New(router.Handlers{
		Field:   handlers.NewFieldHandler(fields, baseLogger.Named("handlers.fields")),
		Sensor:  handlers.NewSensorHandler(reader),
		Command: handlers.NewCommandHandler(commandService, baseLogger.Named("handlers.commands")),
		Setup:   handlers.NewSetupHandler(setupService, baseLogger.Named("handlers.setup")),
	}, cfg.Server.AdminToken, promRegistry, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engineHTTP,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func importFarmConfig(ctx context.Context, svc *setupsvc.Service, path string, log *zap.Logger) {
	in, err := setupsvc.LoadImportFile(path)
	if err != nil {
		log.Fatal("failed to read farm import file", zap.String("path", path), zap.Error(err))
	}

	_, err = svc.Import(ctx, in)
	var verr *setupsvc.ValidationError
	switch {
	case err == nil:
		log.Info("farm config imported", zap.String("path", path))
	case errors.Is(err, setupsvc.ErrAlreadyConfigured):
		log.Info("farm already configured, import skipped", zap.String("path", path))
	case errors.As(err, &verr):
		log.Fatal("farm import file is invalid", zap.String("path", path), zap.Any("fields", verr.Fields))
	default:
		log.Fatal("failed to import farm config", zap.Error(err))
	}
}

func startBridge(ctx context.Context, cfg config.MQTTConfig, farm *setupsvc.Service, fields *registry.Registry, reader *metrics.Reader, st store.Store, log *zap.Logger) (*mqtt.Bridge, func(), error) {
	device := mqtt.Device{
		Identifiers:  []string{"chickenfarm_" + cfg.ClientID},
		Name:         "Chicken Farm",
		Manufacturer: "chickenfarm",
		Model:        "Farm Tracker",
	}
	if current, ok, err := farm.Current(ctx); err != nil {
		log.Warn("failed to load farm config for device name", zap.Error(err))
	} else if ok {
		device.Name = current.Name
	}

	client, err := mqtt.Connect(cfg, log.Named("mqtt"))
	if err != nil {
		return nil, nil, err
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			log.Error("failed to close mqtt client", zap.Error(err))
		}
	}

	topics := mqtt.Topics{Prefix: cfg.TopicPrefix, Discovery: cfg.DiscoveryPrefix}
	bridge := mqtt.NewBridge(client, fields, reader, st, topics, device, log.Named("mqtt.bridge"))
	if err := bridge.Start(); err != nil {
		closeClient()
		return nil, nil, err
	}
	return bridge, closeClient, nil
}
