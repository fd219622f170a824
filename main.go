package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/redis/go-redis/v9"

	"kantorku_backend/internals/configs"
	database "kantorku_backend/internals/databases"
	sessionService "kantorku_backend/internals/features/attendance/sessions/service"
	summaryService "kantorku_backend/internals/features/attendance/summary/service"
	quoteService "kantorku_backend/internals/features/home/quotes/service"
	leaveService "kantorku_backend/internals/features/leave/service"
	authService "kantorku_backend/internals/features/users/auth/service"
	timezone "kantorku_backend/internals/helpers/timezone"
	middlewares "kantorku_backend/internals/middlewares"
	routes "kantorku_backend/internals/route"
	"kantorku_backend/internals/scheduler"
	seeds "kantorku_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"}, // sesuaikan dengan CIDR proxy jika perlu
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                 // 304 caching

	// 🔎 Request-ID + timing (observability ringan)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// HTTP timeout guard (selaras dengan statement_timeout di DB)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	if configs.GetEnv("DB_AUTO_MIGRATE", "false") == "true" {
		if err := database.AutoMigrate(database.DB); err != nil {
			log.Fatalf("❌ AutoMigrate gagal: %v", err)
		}
	}
	if configs.GetEnv("DB_SEED", "false") == "true" {
		seeds.RunAllSeeds(database.DB)
	}

	// 🧰 Service dirakit SEKALI di sini; route dan scheduler berbagi
	// instance yang sama (lock aggregation per karyawan+tanggal hanya
	// bekerja kalau semuanya lewat satu instance).
	agg := summaryService.NewAggregationService(database.DB)
	ledger := sessionService.NewSessionService(database.DB, agg)
	archive := summaryService.NewArchiveService(database.DB)
	coins := leaveService.NewLeaveCoinService(database.DB)
	leave := leaveService.NewLeaveService(database.DB, agg)
	quotes := quoteService.NewQuoteService(database.DB)

	// 🚫 Registry revocation: cache jti in-memory + mirror Redis opsional.
	registry := authService.NewRevocationRegistry(database.DB, openRedis())
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		warmed, err := registry.WarmUp(ctx)
		cancel()
		if err != nil {
			log.Fatalf("❌ Warm-up revocation cache gagal: %v", err)
		}
		log.Printf("✅ Revocation cache warm: %d jti aktif", warmed)
	}

	// ⏱ Job background setelah DB siap
	runner := buildRunner(registry, agg, archive, coins, quotes)
	runner.Start()

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, &routes.Services{
		Registry: registry,
		Ledger:   ledger,
		Archive:  archive,
		Leave:    leave,
		Coins:    coins,
		Quotes:   quotes,
		Runner:   runner,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop scheduler, server, lalu pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	runner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// buildRunner mendaftarkan semua job background. Semuanya idempotent;
// watermark di job_states yang mengatur ritme, lihat package scheduler.
func buildRunner(
	registry *authService.RevocationRegistry,
	agg *summaryService.AggregationService,
	archive *summaryService.ArchiveService,
	coins *leaveService.LeaveCoinService,
	quotes *quoteService.QuoteService,
) *scheduler.Runner {
	runner := scheduler.NewRunner(database.DB)

	// 🧊 Bekukan rekap kemarin tiap lewat midnight lokal.
	runner.Register(scheduler.Job{
		Name:     "attendance_day_rollover",
		Boundary: scheduler.BoundaryDaily,
		Grace:    5 * time.Minute,
		Run: func(ctx context.Context) (scheduler.Stats, error) {
			yesterday := timezone.AddDays(timezone.Today(time.Now()), -1)
			frozen, err := agg.FreezeDay(ctx, yesterday)
			if err != nil {
				return nil, err
			}
			return scheduler.Stats{"date": timezone.FormatDate(yesterday), "frozen": frozen}, nil
		},
	})

	// 🗄 Pindahkan rekap tua ke arsip, lalu buang arsip kedaluwarsa.
	// Grace 1 jam supaya jalan setelah rollover harian selesai.
	runner.Register(scheduler.Job{
		Name:     "attendance_archival",
		Boundary: scheduler.BoundaryDaily,
		Grace:    time.Hour,
		Run: func(ctx context.Context) (scheduler.Stats, error) {
			moved, failed, err := archive.MigrateAging(ctx, configs.HotRetentionDays)
			if err != nil {
				return nil, err
			}
			purged, err := archive.PurgeExpired(ctx, configs.ColdRetentionDays)
			if err != nil {
				return nil, err
			}
			return scheduler.Stats{"moved": moved, "failed": failed, "purged": purged}, nil
		},
	})

	// 🪙 Jatah koin cuti bulanan + kedaluwarsa koin lama.
	runner.Register(scheduler.Job{
		Name:     "leave_coin_allocation",
		Boundary: scheduler.BoundaryMonthly,
		Grace:    30 * time.Minute,
		Run: func(ctx context.Context) (scheduler.Stats, error) {
			granted, skipped, err := coins.GrantMonthly(ctx)
			if err != nil {
				return nil, err
			}
			expired, err := coins.ExpireCoins(ctx)
			if err != nil {
				return nil, err
			}
			return scheduler.Stats{"granted": granted, "skipped": skipped, "expired": expired}, nil
		},
	})

	// 🧹 Sapu token_blacklist dari jti yang sudah mati alami.
	runner.Register(scheduler.Job{
		Name:     "token_blacklist_sweep",
		Boundary: scheduler.BoundaryNone,
		Every:    time.Duration(configs.BlacklistSweepMinutes) * time.Minute,
		Run: func(ctx context.Context) (scheduler.Stats, error) {
			swept, err := registry.SweepExpired(ctx)
			if err != nil {
				return nil, err
			}
			return scheduler.Stats{"swept": swept, "cache": registry.CacheSize()}, nil
		},
	})

	// 🌅 Rotasi kutipan home; cursor-nya numpang di job_states yang sama.
	runner.Register(scheduler.Job{
		Name:     quoteService.RotationJobName,
		Boundary: scheduler.BoundaryDaily,
		Grace:    time.Minute,
		Run: func(ctx context.Context) (scheduler.Stats, error) {
			row, err := quotes.RotateDaily(ctx)
			if err != nil {
				return nil, err
			}
			if row == nil {
				return scheduler.Stats{"pool": "kosong"}, nil
			}
			return scheduler.Stats{"date": timezone.FormatDate(row.DailyQuoteDate)}, nil
		},
	})

	return runner
}

// openRedis buka client dari REDIS_URL (format redis:// atau host:port).
// Kosong berarti mirror revocation ke Redis dimatikan, itu sah.
func openRedis() *redis.Client {
	raw := os.Getenv("REDIS_URL")
	if raw == "" {
		log.Println("ℹ️ REDIS_URL kosong, mirror revocation nonaktif")
		return nil
	}
	if strings.HasPrefix(raw, "redis://") || strings.HasPrefix(raw, "rediss://") {
		opt, err := redis.ParseURL(raw)
		if err != nil {
			log.Printf("⚠️ REDIS_URL tidak valid (%v), mirror nonaktif", err)
			return nil
		}
		return redis.NewClient(opt)
	}
	return redis.NewClient(&redis.Options{Addr: raw})
}
