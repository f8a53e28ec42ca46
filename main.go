package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking-system/api"
	"booking-system/booking"
	"booking-system/config"
	"booking-system/database"
	"booking-system/notify"
	"booking-system/ratelimit"
	"booking-system/telemetry"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "booking-system", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		log.Fatal("telemetry: ", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	log.Printf("opening %s store...", cfg.DBDriver)
	db, err := openStore(cfg)
	if err != nil {
		log.Fatal("database connect: ", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("database migrate: ", err)
	}
	log.Println("successfully connected to database")

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
	}

	publisher, source := notificationQueue(cfg, rdb)
	worker := notify.NewWorker(source, newMailer(cfg), cfg.AdminEmail)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		_ = worker.Run(ctx)
	}()

	globalLimit := ratelimit.NewStore(cfg.RateGlobalMax, cfg.RateGlobalWindow)
	bookingLimit := ratelimit.NewStore(cfg.RateBookingMax, cfg.RateBookingWindow)
	globalLimit.StartJanitor(ctx)
	bookingLimit.StartJanitor(ctx)
	limitOpts := ratelimit.Options{
		KeyHeader:          cfg.RateKeyHeader,
		TrustXForwardedFor: cfg.RateTrustProxy,
	}
	if rdb != nil {
		limitOpts.Stats = ratelimit.NewRedisStatsStore(rdb)
	}

	coordinator := booking.NewCoordinator(db, cfg.Policy(), publisher, booking.WithTimeout(cfg.RequestTimeout))

	service := api.NewAPI(coordinator,
		api.WithAdminKey(cfg.AdminKey),
		api.WithClientURL(cfg.ClientURL),
		api.WithRateLimits(globalLimit, bookingLimit, limitOpts),
	)
	service.RegisterRoutes()
	if cfg.AdminKey == "" {
		log.Println("ADMIN_KEY is not set, admin routes will reject every request")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           service.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("server starting on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	<-workerDone
	log.Println("server stopped")
}

func openStore(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.DBDriver == database.DriverPostgres {
		return database.Connect(cfg.PostgresDSN)
	}
	return database.OpenSQLite(cfg.SQLitePath)
}

// notificationQueue picks where committed bookings wait for the mail worker.
func notificationQueue(cfg *config.Config, rdb *redis.Client) (notify.Publisher, notify.Source) {
	if cfg.NotifyQueue == config.QueueRedis {
		q := notify.NewRedisQueue(rdb)
		log.Printf("notifications queued in redis list %s", q.Key())
		return q, q
	}
	q := notify.NewQueue(cfg.NotifyBuffer)
	return q, q
}

func newMailer(cfg *config.Config) notify.Mailer {
	if cfg.ResendAPIKey == "" {
		log.Println("RESEND_API_KEY is not set, notification mail is only logged")
		return notify.LogMailer{}
	}
	return notify.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
}
