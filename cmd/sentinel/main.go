package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"TankSentinel/internal/alert"
	"TankSentinel/internal/api"
	"TankSentinel/internal/collector"
	"TankSentinel/internal/config"
	"TankSentinel/internal/coordinator"
	"TankSentinel/internal/logging"
	"TankSentinel/internal/notifier"
	"TankSentinel/internal/recorder"
	"TankSentinel/internal/scheduler"
	"TankSentinel/internal/sensor"
	"TankSentinel/internal/statestore"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("[FATAL] init logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("config validation", zap.Error(err))
	}
	logger.Info("TankSentinel starting", zap.String("entry_id", cfg.EntryID), zap.String("data_source", cfg.DataSource))

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource == "mock" {
		fetcher = &collector.MockFetcher{Tanks: collector.DemoTanks(), PriceHTML: collector.DemoPriceHTML, PriceOK: true}
	} else {
		fetcher = collector.NewNeevoFetcher(cfg.Neevo.APIURL, cfg.Neevo.Username, cfg.Neevo.Password, cfg.Neevo.Timeout, cfg.Proxy, logger)
	}

	pricingURL := cfg.PricingURL()
	coord := coordinator.New(fetcher, coordinator.Options{
		PricingURL:     pricingURL,
		RequestTimeout: cfg.Neevo.Timeout,
		PriceTimeout:   cfg.Pricing.Timeout,
	}, logger)
	defer coord.Close()
	logger.Info("pricing", zap.Bool("enabled", pricingURL != ""), zap.String("url", pricingURL))

	// Init recorder
	rec := openRecorder(cfg.Database.SQLitePath, logger)
	defer rec.Close()
	coord.Subscribe(recorder.RefreshListener(rec, logger))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received, stopping...")
		cancel()
	}()

	// Setup refresh; any failure aborts startup.
	if err := coord.FirstRefresh(ctx); err != nil {
		switch {
		case errors.Is(err, collector.ErrInvalidAuth):
			logger.Fatal("invalid Nee-Vo credentials", zap.Error(err))
		case errors.Is(err, collector.ErrCannotConnect):
			logger.Fatal("cannot connect to the Nee-Vo service", zap.Error(err))
		case errors.Is(err, coordinator.ErrNoDevices):
			logger.Fatal("no tanks found on the Nee-Vo account")
		default:
			logger.Fatal("first refresh failed", zap.Error(err))
		}
	}

	registry := sensor.NewRegistry(sensor.Build(coord, cfg.EntryID))
	logger.Info("sensors created", zap.Int("count", len(registry.All())), zap.Int("tanks", coord.Snapshot().TankCount()))

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
	}

	// Low-level alerts
	alertSink := func(a alert.Alert) {
		if err := rec.RecordAlert(&recorder.AlertEvent{
			TankID: a.TankID, TankName: a.TankName, Level: a.Level.String(),
			Reading: a.Reading, Threshold: a.Threshold,
		}); err != nil {
			logger.Error("record alert", zap.Error(err))
		}
		if tn.Enabled() {
			go func() {
				if err := tn.SendWithRetry(ctx, notifier.FormatAlert(a), 3); err != nil {
					logger.Error("send alert", zap.Error(err))
				}
			}()
		}
	}
	alerts, err := alert.NewManager(cfg.Alerts.StateFile, logger, alertSink)
	if err != nil {
		logger.Fatal("init alert manager", zap.Error(err))
	}
	alerts.Check(coord.Snapshot())
	coord.Subscribe(alerts.Listener())

	// Redis mirror
	if cfg.Redis.Addr != "" {
		client, err := statestore.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			logger.Warn("redis unavailable, state mirror disabled", zap.Error(err))
		} else {
			defer client.Close()
			store := statestore.NewStore(client, cfg.Redis.TTL, logger)
			if err := store.Publish(ctx, registry.States(), coord.Status()); err != nil {
				logger.Warn("initial redis publish failed", zap.Error(err))
			}
			coord.Subscribe(store.Listener(registry, coord))
			logger.Info("redis state mirror enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, coord, rec, cfg.Schedule.Interval, logger)
	if err := sched.Register(); err != nil {
		logger.Fatal("register refresh task", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	var wg sync.WaitGroup

	// HTTP API
	srv := api.New(api.Options{Addr: cfg.HTTP.Addr, Token: cfg.HTTP.Token}, coord, registry, rec, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil {
			logger.Error("http server", zap.Error(err))
			cancel()
		}
	}()

	// Start Telegram polling
	if tn.Enabled() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tn.StartPolling(ctx, sched.HandleCommand)
		}()
		logger.Info("telegram polling started")
	}

	logger.Info("TankSentinel is running", zap.Duration("interval", cfg.Schedule.Interval))
	<-ctx.Done()
	wg.Wait()
	logger.Info("TankSentinel stopped")
}

func openRecorder(path string, logger *zap.Logger) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Warn("create database directory failed, using noop recorder", zap.Error(err))
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path, logger)
	if err != nil {
		logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		return recorder.NewNoopRecorder()
	}
	return sr
}
