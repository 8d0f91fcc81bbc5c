package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"booking-service/internal/app"
	"booking-service/internal/availability"
	"booking-service/internal/booking"
	"booking-service/internal/cache"
	"booking-service/internal/calendar"
	"booking-service/internal/clock"
	"booking-service/internal/config"
	"booking-service/internal/jobs"
	"booking-service/internal/ledger"
	"booking-service/internal/logging"
	"booking-service/internal/ratelimit"
	"booking-service/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.ConfigFile != "" {
		logger.Info("config file loaded", zap.String("path", cfg.ConfigFile))
	}
	if missing := cfg.Missing(); len(missing) > 0 {
		logger.Warn("calendar credentials missing, calendar calls will fail", zap.Strings("keys", missing))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	clk := clock.System()

	var (
		entryStore  cache.EntryStore      = cache.NewMemoryStore()
		windowStore ratelimit.WindowStore = ratelimit.NewMemoryStore()
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.Fatal("redis ping failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
		entryStore = cache.NewRedisStore(rdb)
		windowStore = ratelimit.NewRedisStore(rdb)
		logger.Info("using redis for slots cache and rate limits", zap.String("addr", cfg.RedisAddr))
	}

	var bookingLedger *ledger.Postgres
	if cfg.DatabaseURL != "" {
		pool, l, err := ledger.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("booking ledger unavailable", zap.Error(err))
		}
		defer pool.Close()
		bookingLedger = l
	}

	tokens := calendar.NewTokenCache(
		calendar.NewRefreshFetcher(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken),
		clk,
	)
	gcal := calendar.NewGoogle(tokens)

	slotsCache := cache.NewSlots(entryStore, clk, cache.Options{
		TTL:        cfg.SlotsCacheTTL(),
		MaxEntries: cfg.SlotsCacheMax,
		EvictBatch: cfg.SlotsCacheEvict,
	})
	throttle := ratelimit.NewThrottle(cfg.SlotsRateRPS, cfg.SlotsRateBurst)

	slots := &availability.Service{
		Policy: cfg.Policy,
		Reconciler: availability.Reconciler{
			Location: cfg.Location,
			Step:     cfg.SlotStep(),
			LeadTime: cfg.LeadTime(),
			Clock:    clk,
		},
		Calendar:   gcal,
		CalendarID: cfg.Calendar(),
		Cache:      slotsCache,
		Logger:     logger,
	}
	orchestrator := &booking.Orchestrator{
		Calendar:   gcal,
		CalendarID: cfg.Calendar(),
		Location:   cfg.Location,
		Cache:      slotsCache,
		Logger:     logger,
	}

	a := &app.App{
		Config:   cfg,
		Slots:    slots,
		Bookings: orchestrator,
		Limiter:  ratelimit.NewLimiter(windowStore, clk),
		Throttle: throttle,
		Consent:  calendar.ConsentConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
		Logger:   logger,
	}
	// Assigning a nil *ledger.Postgres would give a non-nil interface.
	if bookingLedger != nil {
		orchestrator.Ledger = bookingLedger
		a.Ledger = bookingLedger
	}

	maintenance, err := jobs.New(cfg.MaintenanceSchedule, logger,
		jobs.Task{Name: "slots-cache", Run: slotsCache.Sweep},
		jobs.Task{Name: "slots-throttle", Run: func(context.Context) (int, error) { return throttle.Cleanup(), nil }},
	)
	if err != nil {
		logger.Fatal("maintenance schedule", zap.Error(err))
	}
	maintenance.Start()
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		maintenance.Stop(stopCtx)
	}()

	logger.Info("booking service starting",
		zap.String("env", cfg.Env),
		zap.String("timezone", cfg.Location.String()),
		zap.String("calendar", cfg.Calendar()),
		zap.Bool("ledger", bookingLedger != nil),
	)
	if err := server.Run(ctx, server.New(cfg.Port, a.Router()), logger); err != nil {
		logger.Error("server error", zap.Error(err))
	}
}
