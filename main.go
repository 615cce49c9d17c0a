package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"barber-booking/cmd"
	"barber-booking/internal/data/repository"
	"barber-booking/internal/notification"
	"barber-booking/internal/wire"
	"barber-booking/pkg/database"
	"barber-booking/pkg/middleware"
	"barber-booking/pkg/tracing"
	"barber-booking/pkg/utils"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	if config.JWT.Secret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, config.Tracing, config.App.Name)
	if err != nil {
		logger.Fatal("Failed to set up tracing", zap.Error(err))
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database schema up to date")
	}

	repos := repository.NewRepository(db, logger)

	// Notifications
	var mailer notification.Sender = notification.NewLogSender(logger)
	if config.Email.Host != "" {
		mailer = notification.NewSMTPSender(config.Email.Host, config.Email.Port, config.Email.User, config.Email.Password, config.Email.From)
	}

	sender := mailer
	var worker *notification.Worker
	if strings.EqualFold(config.Notification.Backend, "queue") {
		redisOpt := asynq.RedisClientOpt{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		}
		queueClient := asynq.NewClient(redisOpt)
		defer queueClient.Close()

		sender = notification.NewQueueSender(queueClient, config.Notification.Timeout)
		worker = notification.NewWorker(redisOpt, config.Notification.Concurrency, mailer, logger)
		if err := worker.Start(); err != nil {
			logger.Fatal("Failed to start notification worker", zap.Error(err))
		}
	}

	trigger := notification.NewTrigger(repos.User, sender, config.App.FrontendURL, config.Notification.Timeout, logger)

	// Rate limiting
	var limiter middleware.Limiter = middleware.NewMemoryLimiter(config.RateLimit.Requests, config.RateLimit.Window)
	if strings.EqualFold(config.RateLimit.Backend, "redis") {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer rdb.Close()
		limiter = middleware.NewRedisLimiter(rdb, config.RateLimit.Requests, config.RateLimit.Window, config.App.Name+":rl")
	}

	// Wire all dependencies
	app := wire.Wiring(db, repos, trigger, limiter, config, logger)

	bootstrapCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := app.Service.Auth.BootstrapOwner(bootstrapCtx); err != nil {
		logger.Fatal("Failed to bootstrap owner account", zap.Error(err))
	}
	cancel()

	go cmd.RunSessionJanitor(ctx, repos.Session, time.Hour, logger)

	handler := otelhttp.NewHandler(app.Router, config.App.Name)

	err = cmd.APIServer(ctx, handler, config.App.Port, config.App.ShutdownTimeout, logger,
		trigger.Wait,
		func(context.Context) error {
			if worker != nil {
				worker.Shutdown()
			}
			return nil
		},
		shutdownTracing,
	)
	if err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
