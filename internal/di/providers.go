package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/k-javaman/my-practices/internal/app"
	"github.com/k-javaman/my-practices/internal/config"
	"github.com/k-javaman/my-practices/internal/database"
	"github.com/k-javaman/my-practices/internal/events"
	"github.com/k-javaman/my-practices/internal/health"
	"github.com/k-javaman/my-practices/internal/http/handler"
	"github.com/k-javaman/my-practices/internal/http/middleware"
	"github.com/k-javaman/my-practices/internal/http/router"
	"github.com/k-javaman/my-practices/internal/logging"
	"github.com/k-javaman/my-practices/internal/observability"
	"github.com/k-javaman/my-practices/internal/repository"
	"github.com/k-javaman/my-practices/internal/security"
	"github.com/k-javaman/my-practices/internal/seed"
	"github.com/k-javaman/my-practices/internal/service"
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewTokenRepository,
	repository.NewPersonRepository,
)

var ServiceSet = wire.NewSet(
	provideTokenCodec,
	service.NewTokenService,
	service.NewCredentialVerifier,
	service.NewAuthService,
	service.NewUserService,
	service.NewPersonService,
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
	wire.Bind(new(service.UserServiceInterface), new(*service.UserService)),
	wire.Bind(new(service.PersonServiceInterface), new(*service.PersonService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewPersonHandler,
	handler.NewAdminHandler,
	provideLimiter,
	provideRegistry,
	provideReadiness,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}
	return db, func() { _ = database.Close(db) }, nil
}

// provideRedis returns nil when REDIS_URL is unset; callers treat a nil
// client as "no shared backend".
func provideRedis(cfg *config.Config) (redis.UniversalClient, func(), error) {
	if cfg.RedisURL == "" {
		return nil, func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	return client, func() { _ = client.Close() }, nil
}

func provideTokenCodec(cfg *config.Config) (*security.TokenCodec, error) {
	return security.NewTokenCodec(cfg.JWTSecret, cfg.JWTTTL)
}

func providePublisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NoopPublisher{}, func() {}
	}
	p := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	logger.Info("kafka auth events enabled", "topic", cfg.KafkaTopic)
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Warn("kafka publisher close failed", "error", err.Error())
		}
	}
}

func provideLimiter(cfg *config.Config, client redis.UniversalClient) middleware.Limiter {
	if cfg.RateLimitBackend == "redis" && client != nil {
		return middleware.NewRedisLimiter(client, "ratelimit")
	}
	return middleware.NewLocalLimiter()
}

func provideRegistry(cfg *config.Config) *prometheus.Registry {
	if !cfg.PrometheusEnabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideReadiness(db *gorm.DB, client redis.UniversalClient) *health.ProbeRunner {
	checkers := []health.Checker{health.NewDBChecker(db)}
	if client != nil {
		checkers = append(checkers, health.NewRedisChecker(client))
	}
	return health.NewProbeRunner(2*time.Second, checkers...)
}

func provideRouterDependencies(
	cfg *config.Config,
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	personHandler *handler.PersonHandler,
	adminHandler *handler.AdminHandler,
	codec *security.TokenCodec,
	users repository.UserRepository,
	tokens *service.TokenService,
	limiter middleware.Limiter,
	readiness *health.ProbeRunner,
	registry *prometheus.Registry,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:       authHandler,
		UserHandler:       userHandler,
		PersonHandler:     personHandler,
		AdminHandler:      adminHandler,
		Codec:             codec,
		Users:             users,
		Tokens:            tokens,
		Limiter:           limiter,
		RateLimitFailMode: middleware.ParseFailureMode(cfg.RateLimitFailMode),
		AuthRateLimitRPM:  cfg.AuthRateLimitRPM,
		APIRateLimitRPM:   cfg.APIRateLimitRPM,
		CORSOrigins:       cfg.CORSAllowedOrigins,
		Readiness:         readiness,
		Logger:            middleware.RequestLogger(logger),
		Registry:          registry,
		EnableOTelHTTP:    cfg.EnableOTelHTTP,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func provideSeedTask(cfg *config.Config, logger *slog.Logger, people repository.PersonRepository) app.StartupTask {
	if !cfg.SeedPeople {
		return nil
	}
	return func(ctx context.Context) error {
		_, err := seed.People(logging.IntoContext(ctx, logger), people, cfg.SeedPeopleCount, cfg.SeedRandomSeed)
		return err
	}
}

func provideApp(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime, seedTask app.StartupTask) *app.App {
	return app.New(cfg, logger, server, runtime, seedTask)
}
