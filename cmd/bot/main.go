package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voucherbot/internal/config"
	"voucherbot/internal/handler"
	"voucherbot/internal/httpapi"
	"voucherbot/internal/jobs"
	"voucherbot/internal/lock"
	"voucherbot/internal/mailer"
	"voucherbot/internal/messages"
	"voucherbot/internal/middleware"
	"voucherbot/internal/payment"
	"voucherbot/internal/pdf"
	"voucherbot/internal/repository/postgres"
	"voucherbot/internal/service"

	"github.com/go-redis/redis/v7"
	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	studioName   = "Aleksandr DarkSoul Tattoo"
	chatLockWait = 5 * time.Second
	chatLockTTL  = 45 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Voucher Bot", zap.Int("admins", len(cfg.AdminIDs)))

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	catalog, err := messages.Load()
	if err != nil {
		logger.Fatal("Failed to load messages", zap.Error(err))
	}

	// Initialize repositories
	sessionRepo := postgres.NewSessionRepo(db)
	voucherRepo := postgres.NewVoucherRepo(db)

	// Initialize services
	if cfg.Payment.StripeKey == "" {
		logger.Warn("STRIPE_API_KEY is not set, payments cannot be confirmed")
	}
	if !cfg.MailEnabled() {
		logger.Warn("SMTP credentials are not set, e-mail delivery will fail")
	}
	stripe := payment.NewStripe(cfg.Payment.StripeKey, nil, payment.DefaultMaxEvents, logger)
	smtp := mailer.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, logger)

	svc := handler.Services{
		Flow:     service.NewFlowService(sessionRepo, voucherRepo, service.NewApplier(service.NewConfirmationCode), logger),
		Vouchers: service.NewVoucherService(voucherRepo, sessionRepo, logger),
		Payments: service.NewPaymentService(sessionRepo, voucherRepo, stripe, cfg.Payment.LinkFormat, logger),
		Delivery: service.NewDeliveryService(voucherRepo, pdf.NewVoucherRenderer(studioName), smtp, logger),
		Stats:    service.NewStatsService(sessionRepo, voucherRepo, logger),
		Forms:    service.NewFormService(cfg.FormTTL, logger),
	}

	locker, closeLocker := newLocker(cfg.Redis, logger)
	defer closeLocker()

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Unhandled bot error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}
	bot.Use(
		middleware.Recover(logger),
		middleware.Logging(logger),
		middleware.ChatLock(locker, chatLockWait, logger),
	)

	logger.Info("Telegram bot initialized")

	// Initialize handler
	h := handler.NewHandler(bot, svc, catalog, cfg.AdminIDs, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start background jobs
	loc, _ := time.LoadLocation(cfg.Timezone)
	scheduler := jobs.NewScheduler(loc, svc.Forms, svc.Stats, h.SendDigest, cfg.DigestSchedule, logger)
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Start health and stats endpoints
	server := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewRouter(db, svc.Stats, logger), logger)
	server.Start()

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()
	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	logger.Info("Bot stopped gracefully")
}

// newLogger builds a production logger at the configured level
func newLogger(level string) (*zap.Logger, error) {
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = atomic
	return zcfg.Build()
}

// newLocker uses Redis when configured so several replicas serialize the same chat
func newLocker(cfg config.RedisConfig, logger *zap.Logger) (lock.Locker, func()) {
	if cfg.Addr == "" {
		return lock.NewMemory(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})
	if err := client.Ping().Err(); err != nil {
		logger.Fatal("Failed to connect to redis", zap.String("addr", cfg.Addr), zap.Error(err))
	}

	logger.Info("Using redis chat locks", zap.String("addr", cfg.Addr))
	return lock.NewRedis(client, chatLockTTL, logger), func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sqlx.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db.DB, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Migrations applied successfully")
	}

	return nil
}
