package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"peram-marketplace-service/internal/adapters/broadcaster"
	"peram-marketplace-service/internal/adapters/db"
	"peram-marketplace-service/internal/adapters/events"
	"peram-marketplace-service/internal/adapters/identity"
	"peram-marketplace-service/internal/adapters/memory"
	"peram-marketplace-service/internal/adapters/mongodb"
	"peram-marketplace-service/internal/adapters/redis"
	"peram-marketplace-service/internal/adapters/rest"
	"peram-marketplace-service/internal/adapters/scheduler"
	"peram-marketplace-service/internal/adapters/token"
	"peram-marketplace-service/internal/adapters/ws"
	"peram-marketplace-service/internal/app"
	"peram-marketplace-service/internal/config"
	"peram-marketplace-service/internal/ports/inbound"
	"peram-marketplace-service/internal/ports/outbound"
)

type closer func(ctx context.Context) error

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	initLogging(cfg)

	log.Info().Msg("Starting Peram Marketplace Service...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var closers []closer

	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to open store")
	}
	closers = append(closers, closeStore)
	log.Info().Str("driver", cfg.Database.Driver).Msg("Store initialized")

	// Broadcaster and scheduler need Redis, without it events stay in process
	var (
		productBroadcaster outbound.Broadcaster
		auctionScheduler   *scheduler.AuctionScheduler
	)
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(cfg)
		if err := redis.PingRedis(ctx, redisClient); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis connection established")

		redisBroadcaster := broadcaster.NewRedisBroadcaster(broadcaster.RedisBroadcasterParams{
			RedisClient: redisClient,
			Logger:      log.Logger,
		})
		productBroadcaster = redisBroadcaster
		auctionScheduler = scheduler.NewAuctionScheduler(scheduler.AuctionSchedulerParams{
			RedisClient: redisClient,
			Broadcaster: redisBroadcaster,
			Logger:      log.Logger,
		})
		closers = append(closers,
			func(context.Context) error { return redisBroadcaster.Close() },
			func(context.Context) error { return redisClient.Close() },
		)
	} else {
		localBroadcaster := broadcaster.NewLocalBroadcaster(broadcaster.LocalBroadcasterParams{Logger: log.Logger})
		productBroadcaster = localBroadcaster
		closers = append(closers, func(context.Context) error { return localBroadcaster.Close() })
		log.Warn().Msg("Redis not configured, using in-process broadcaster and no auction scheduler")
	}

	var publisher outbound.EventPublisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(events.KafkaPublisherParams{Config: cfg, Logger: log.Logger})
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka publisher initialized")
	}
	closers = append(closers, func(context.Context) error { return publisher.Close() })

	authService := newAuthService(cfg, repos)

	userService := app.NewUserService(app.UserServiceParams{
		UserRepo: repos.Users,
		Logger:   log.Logger,
	})
	categoryService := app.NewCategoryService(app.CategoryServiceParams{
		CategoryRepo: repos.Categories,
		ProductRepo:  repos.Products,
		Logger:       log.Logger,
	})
	productService := app.NewProductService(app.ProductServiceParams{
		ProductRepo:     repos.Products,
		CategoryRepo:    repos.Categories,
		BidRepo:         repos.Bids,
		Publisher:       publisher,
		DefaultDuration: cfg.Auction.DefaultDuration,
		Logger:          log.Logger,
	})
	bidService := app.NewBidService(app.BidServiceParams{
		BidRepo:     repos.Bids,
		ProductRepo: repos.Products,
		Broadcaster: productBroadcaster,
		Publisher:   publisher,
		Logger:      log.Logger,
	})

	log.Info().Msg("Business services initialized")

	if auctionScheduler != nil {
		auctionScheduler.SetCloser(productService)
		productService.SetScheduler(auctionScheduler)
		auctionScheduler.Start()
		log.Info().Msg("Auction scheduler started")
	}

	wsHandler := ws.NewHandler(ws.WsHandlerParams{
		Upgrader:    ws.NewUpgrader(cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize),
		AuthService: authService,
		BidService:  bidService,
		Broadcaster: productBroadcaster,
		Logger:      log.Logger,
	})

	server := rest.NewServer(rest.ServerParams{
		Config:          cfg,
		AuthService:     authService,
		UserService:     userService,
		CategoryService: categoryService,
		ProductService:  productService,
		BidService:      bidService,
		WebSocket:       wsHandler.HandleWebSocket,
		Logger:          log.Logger,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Failed to start HTTP server")
			cancel()
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	log.Info().Msg("Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if auctionScheduler != nil {
		auctionScheduler.Stop()
		log.Info().Msg("Auction scheduler stopped")
	}

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	}
	wsHandler.Close()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error releasing resource")
		}
	}

	log.Info().Msg("Graceful shutdown completed")
}

// openStore connects the configured store and prepares its schema or indexes
func openStore(ctx context.Context, cfg *config.Config) (outbound.Repositories, closer, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		store, err := mongodb.Connect(ctx, cfg)
		if err != nil {
			return outbound.Repositories{}, nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			store.Close(ctx)
			return outbound.Repositories{}, nil, err
		}
		return store.Repositories(), store.Close, nil

	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return memory.NewStore().Repositories(), func(context.Context) error { return nil }, nil

	default:
		conn, err := db.NewConnection(ctx, cfg)
		if err != nil {
			return outbound.Repositories{}, nil, err
		}
		if err := conn.EnsureSchema(ctx); err != nil {
			conn.Close()
			return outbound.Repositories{}, nil, err
		}
		return db.NewRepositoryFactory(conn).GetAllRepositories(), func(context.Context) error { return conn.Close() }, nil
	}
}

// newAuthService picks self-issued JWTs or the hosted identity provider
func newAuthService(cfg *config.Config, repos outbound.Repositories) inbound.AuthService {
	if cfg.Auth.Provider == config.ProviderHosted {
		provider := identity.NewSupabaseClient(identity.SupabaseClientParams{
			Config:     cfg,
			HTTPClient: &http.Client{Timeout: 10 * time.Second},
			Logger:     log.Logger,
		})
		log.Info().Str("url", cfg.Auth.SupabaseURL).Msg("Using hosted identity provider")
		return app.NewHostedAuthService(app.HostedAuthServiceParams{
			Provider: provider,
			UserRepo: repos.Users,
			Logger:   log.Logger,
		})
	}

	return app.NewLocalAuthService(app.LocalAuthServiceParams{
		UserRepo:   repos.Users,
		Tokens:     token.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL),
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     log.Logger,
	})
}

func initLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Console format for development
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	zerolog.DefaultContextLogger = &log.Logger
}
