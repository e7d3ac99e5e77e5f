// Package bootstrap wires the service components from the loaded configuration.
package bootstrap

import (
	"cargo_cover/internal/adapter/cache"
	"cargo_cover/internal/adapter/http/handlers"
	"cargo_cover/internal/adapter/http/routes"
	"cargo_cover/internal/adapter/lock"
	"cargo_cover/internal/adapter/persistence/repository"
	"cargo_cover/internal/adapter/queue"
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/clock"
	"cargo_cover/internal/infrastructure/config"
	"cargo_cover/internal/infrastructure/database"
	"cargo_cover/internal/infrastructure/metrics"
	"cargo_cover/internal/infrastructure/provider"
	"cargo_cover/internal/infrastructure/scheduler"
	"cargo_cover/internal/usecase"
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores groups the repositories the container builds on.
type Stores struct {
	Quotes       interfaces.IQuoteRepository
	Bookings     interfaces.IBookingRepository
	Certificates interfaces.ICertificateRepository
	Reference    interfaces.IReferenceRepository
}

// Container owns every long-lived component of one process.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Clock   clock.Clock

	Redis     redis.UniversalClient
	Transport queue.Transport
	Locker    interfaces.IKeyLocker
	Provider  interfaces.IProviderClient
	Cache     *cache.ReferenceCache
	Stores    Stores

	QuoteUseCase     *usecase.QuoteUseCase
	BookingUseCase   *usecase.BookingUseCase
	ReferenceUseCase *usecase.ReferenceUseCase
	AdminUseCase     *usecase.AdminUseCase

	QuoteOrchestrator   *usecase.QuoteOrchestrator
	BookingOrchestrator *usecase.BookingOrchestrator
	Resolver            *usecase.ReconciliationResolver
}

// New connects to DynamoDB (and redis when configured) and builds the container.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	ddb, err := database.ConnectDynamoDB(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}
	stores := Stores{
		Quotes:       repository.NewQuoteDynamoRepository(ddb, cfg.Tables.Quotes),
		Bookings:     repository.NewBookingDynamoRepository(ddb, cfg.Tables.Bookings),
		Certificates: repository.NewCertificateDynamoRepository(ddb, cfg.Tables.Certificates),
		Reference:    repository.NewReferenceDynamoRepository(ddb, cfg.Tables.Reference),
	}

	var rdb redis.UniversalClient
	if cfg.UsesRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
	}
	return Build(cfg, stores, rdb, clock.NewSystem(), logger)
}

// Build assembles the container from already opened stores. rdb may be nil, in which case
// the queue and the key locker run in memory.
func Build(cfg *config.Config, stores Stores, rdb redis.UniversalClient, clk clock.Clock, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := metrics.New()
	numbering := entities.NumberingConvention{
		PolicyPrefix:      cfg.Numbering.PolicyPrefix,
		CertificatePrefix: cfg.Numbering.CertificatePrefix,
	}

	queueCfg := queueConfig(cfg.Queue)
	var (
		transport queue.Transport
		locker    interfaces.IKeyLocker
	)
	if rdb != nil {
		transport = queue.NewRedisTransport(rdb, queueCfg, m, logger)
		locker = lock.NewRedisLocker(rdb, lock.DefaultRedisLockerConfig(), logger)
	} else {
		logger.Warn("redis not configured; queue and locks run in memory")
		transport = queue.NewMemoryTransport(queueCfg, m, logger)
		locker = lock.NewMemoryLocker()
	}

	prov, err := provider.New(providerConfig(cfg.Provider), numbering, provider.Deps{Clock: clk, Metrics: m, Logger: logger})
	if err != nil {
		return nil, err
	}

	refCache := cache.NewReferenceCache(prov, stores.Reference, clk, m, logger)
	resolver := usecase.NewReconciliationResolver(
		stores.Bookings, stores.Certificates, prov, locker, clk,
		usecase.ReconciliationResolverConfig{Numbering: numbering},
		logger,
	)
	sweeper := usecase.NewQuoteExpirySweeper(stores.Quotes, clk, logger)

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		Clock:     clk,
		Redis:     rdb,
		Transport: transport,
		Locker:    locker,
		Provider:  prov,
		Cache:     refCache,
		Stores:    stores,

		QuoteUseCase:     usecase.NewQuoteUseCase(stores.Quotes, refCache, transport, logger),
		BookingUseCase:   usecase.NewBookingUseCase(stores.Quotes, stores.Bookings, stores.Certificates, transport, numbering, logger),
		ReferenceUseCase: usecase.NewReferenceUseCase(refCache, refCache),
		AdminUseCase:     usecase.NewAdminUseCase(resolver, sweeper),

		QuoteOrchestrator: usecase.NewQuoteOrchestrator(
			stores.Quotes, prov, refCache, refCache, transport, clk,
			usecase.QuoteOrchestratorConfig{ProviderDeadline: cfg.Deadlines.Quote, DefaultQuoteTTL: cfg.Deadlines.DefaultQuoteTTL},
			logger,
		),
		BookingOrchestrator: usecase.NewBookingOrchestrator(
			stores.Quotes, stores.Bookings, prov, resolver, transport, clk,
			usecase.BookingOrchestratorConfig{ProviderDeadline: cfg.Deadlines.Booking},
			logger,
		),
		Resolver: resolver,
	}
	return c, nil
}

// RegisterConsumers subscribes the orchestrators to their request channels.
func (c *Container) RegisterConsumers() error {
	subs := map[string]queue.Handler{
		entities.ChannelQuoteRequested: func(ctx context.Context, msg queue.Message) error {
			return c.QuoteOrchestrator.HandleQuoteRequested(ctx, msg.Body)
		},
		entities.ChannelBookingRequested: func(ctx context.Context, msg queue.Message) error {
			return c.BookingOrchestrator.HandleBookingRequested(ctx, msg.Body)
		},
	}
	for channel, h := range subs {
		if err := c.Transport.Subscribe(channel, h); err != nil {
			return fmt.Errorf("subscribe %s: %w", channel, err)
		}
	}
	return nil
}

// Scheduler returns the maintenance scheduler with every enabled job registered.
func (c *Container) Scheduler() *scheduler.Scheduler {
	s := scheduler.New(c.Logger)
	for _, job := range scheduler.MaintenanceJobs(c.Config.Scheduler, c.Cache, c.AdminUseCase) {
		s.Add(job)
	}
	return s
}

// Router builds the HTTP surface.
func (c *Container) Router() *gin.Engine {
	return routes.NewRouter(routes.Handlers{
		Quote:     handlers.NewQuoteHandler(c.QuoteUseCase),
		Booking:   handlers.NewBookingHandler(c.BookingUseCase),
		Reference: handlers.NewReferenceHandler(c.ReferenceUseCase),
		Admin:     handlers.NewAdminHandler(c.AdminUseCase),
	}, c.Metrics, c.Logger)
}

// Close stops the transport and releases the redis connection.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if err := c.Transport.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop transport: %w", err))
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func queueConfig(cfg config.QueueConfig) queue.Config {
	q := queue.DefaultConfig()
	q.Workers = cfg.Workers
	q.MaxDeliveries = cfg.MaxDeliveries
	q.BaseBackoff = cfg.BaseBackoff
	q.MaxBackoff = cfg.MaxBackoff
	q.Group = cfg.Group
	q.Consumer = cfg.Consumer
	q.ClaimIdle = cfg.ClaimIdle
	return q
}

func providerConfig(cfg config.ProviderConfig) provider.Config {
	p := provider.DefaultConfig()
	p.BaseURL = cfg.BaseURL
	p.Token = cfg.Token
	p.Timeout = cfg.Timeout
	p.MaxAttempts = cfg.MaxAttempts
	p.RateLimit = cfg.RateLimit
	p.Burst = cfg.Burst
	p.Mock = cfg.Mock
	return p
}
