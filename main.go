package main

import (
	"context"
	"log"

	"rental-booking/cmd"
	"rental-booking/internal/cart"
	"rental-booking/internal/data/memstore"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/metrics"
	"rental-booking/internal/notification"
	"rental-booking/internal/realtime"
	"rental-booking/internal/wire"
	"rental-booking/pkg/database"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("storage", config.Storage.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, closeStore := openStorage(ctx, config, logger)
	defer closeStore()

	rdb, err := database.InitRedis(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	var (
		carts cart.Store = cart.NewMemoryStore(config.Redis.CartTTL)
		bus   realtime.Bus
	)
	if rdb != nil {
		defer rdb.Close()
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
		repos.Throttle = repository.NewRedisThrottleRepository(rdb)
		carts = cart.NewRedisStore(rdb, config.Redis.CartTTL)
		bus = realtime.NewRedisBus(rdb, logger)
	} else if repos.Throttle == nil {
		repos.Throttle = memstore.NewThrottle()
	}

	mailer := notification.NewMailer(config.Email, logger)
	dispatcher := notification.NewDispatcher(
		notification.NewEmailNotifier(mailer, config.Email.Support),
		notification.DefaultRetryPolicy(),
		2,
		logger,
	)

	hub := realtime.NewHub(realtime.NewMemoryRegistry(), bus, repos.Session, config.CORS, logger)
	go hub.Run(ctx)

	if config.Metrics.Enabled {
		metrics.Register()
	}

	app := wire.Wiring(wire.Deps{
		Repo:     repos,
		Carts:    carts,
		Notifier: dispatcher,
		Realtime: hub,
		Config:   config,
		Log:      logger,
	})

	err = cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger,
		func(context.Context) { cancel() },
		func(ctx context.Context) {
			if err := dispatcher.Close(ctx); err != nil {
				logger.Warn("Notification queue not drained", zap.Error(err))
			}
		},
	)
	if err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}
}

// openStorage returns the repositories for the configured driver and a
// function that releases them.
func openStorage(ctx context.Context, config *utils.Config, logger *zap.Logger) (*repository.Repository, func()) {
	if config.Storage.Driver == "memory" {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memstore.New(), func() {}
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		logger.Info("Database schema applied")
	}

	return repository.NewRepository(db, logger), db.Close
}
