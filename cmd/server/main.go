package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iliyamo/friendly-voice-api/internal/config"
	"github.com/iliyamo/friendly-voice-api/internal/database"
	"github.com/iliyamo/friendly-voice-api/internal/handler"
	"github.com/iliyamo/friendly-voice-api/internal/mail"
	"github.com/iliyamo/friendly-voice-api/internal/metrics"
	"github.com/iliyamo/friendly-voice-api/internal/middleware"
	"github.com/iliyamo/friendly-voice-api/internal/payment"
	"github.com/iliyamo/friendly-voice-api/internal/queue"
	"github.com/iliyamo/friendly-voice-api/internal/repository"
	"github.com/iliyamo/friendly-voice-api/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		zc := zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return zc.Build()
	}
	return zap.NewDevelopment()
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, bookings, closeStore, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()

	sender := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPassword)
	notifier := mail.NewNotifier(sender, cfg.AdminNotifyTo)

	// a nil *queue.Publisher must not reach the interface
	var events handler.EventPublisher
	if cfg.AMQPURL != "" {
		events = queue.NewPublisher(cfg.AMQPURL)
		log.Info("booking events enabled", zap.String("queue", queue.BookingCreatedQueue))
	}

	h := router.Handlers{
		Auth: handler.NewAuthHandler(cfg, users, log),
		Payment: handler.NewPaymentHandler(
			payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
			cfg.Currency, users, bookings, notifier, events, m, log,
		),
		Admin:        handler.NewAdminHandler(users, bookings, cfg.StrictBookingStatus, log),
		UserBookings: handler.NewUserBookingsHandler(bookings, log),
	}

	opts := router.Options{
		FrontendURL: cfg.FrontendURL,
		JWTSecret:   cfg.JWTSecret,
		RequireAuth: cfg.AdminAuthRequired,
	}
	if rl := config.LoadRateLimitConfig(); rl.Enabled {
		rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
		if err != nil {
			log.Warn("rate limiting disabled: redis unavailable", zap.Error(err))
		} else {
			defer func() { _ = rdb.Close() }()
			opts.RateLimit = middleware.NewTokenBucket(rl, rdb, log)
		}
	}

	e := router.New(h, opts, m, log)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("db", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStores connects the configured backend and prepares its schema.
func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (repository.UserStore, repository.BookingStore, func(), error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		db, err := database.OpenMySQL(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.MigrateMySQL(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		log.Info("mysql store ready", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
		return repository.NewUserRepo(db), repository.NewBookingRepo(db), func() { _ = db.Close() }, nil

	default:
		client, err := database.OpenMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(c)
		}
		db := client.Database(cfg.MongoDatabase)
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		log.Info("mongo store ready", zap.String("db", cfg.MongoDatabase))
		return repository.NewMongoUserRepo(db), repository.NewMongoBookingRepo(db), closeFn, nil
	}
}
