package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"user-registry-api/config"
	"user-registry-api/internal/application/ports"
	"user-registry-api/internal/application/services"
	domain "user-registry-api/internal/domain/user"
	"user-registry-api/internal/infrastructure/cache"
	"user-registry-api/internal/infrastructure/db/memory"
	"user-registry-api/internal/infrastructure/db/postgres"
	pguser "user-registry-api/internal/infrastructure/db/postgres/user"
	"user-registry-api/internal/infrastructure/jwt"
	"user-registry-api/internal/infrastructure/mail"
	"user-registry-api/internal/infrastructure/metrics"
	"user-registry-api/internal/infrastructure/mq"
	"user-registry-api/internal/interface/api/rest"
	"user-registry-api/internal/interface/api/rest/middleware"
	"user-registry-api/pkg/rmqconsumer"
)

const pingTimeout = 3 * time.Second

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	redis      *redis.Client
	userRepo   domain.Repository
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// config
	envErr := godotenv.Load(".env")
	cfg := config.Load()

	// logger
	logger, err := newLogger(cfg.App)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if envErr != nil {
		logger.Warn("no .env file loaded, using process environment", zap.Error(envErr))
	}

	a := &App{
		logger:   logger,
		cfg:      cfg,
		mCounter: metrics.NewCounter(),
	}

	// router
	a.router, err = newRouter(cfg.App, logger, a.mCounter)
	if err != nil {
		return nil, err
	}

	// httpServer
	a.httpSrv = &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err = a.initStorage(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err = a.initMQ(ctx); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func newLogger(cfg config.APP) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Env == "dev" {
		zcfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", cfg.Name)), nil
}

func newRouter(cfg config.APP, logger *zap.Logger, mCounter *prometheus.CounterVec) (*gin.Engine, error) {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.Env == gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	limit, err := middleware.RateLimit(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("rate limit %q: %w", cfg.RateLimit, err)
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 || slices.Contains(cfg.CORSOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsCfg))
	r.Use(middleware.SecureHeaders(middleware.SecureOptions(!cfg.IsProduction())))
	r.Use(limit)
	r.Use(middleware.RequestLogGin(logger, mCounter))

	return r, nil
}

// initStorage picks postgres when it is configured, the in-memory store otherwise,
// and puts the redis read-through cache in front when redis is configured.
func (a *App) initStorage(ctx context.Context) error {
	dbDsn, err := a.cfg.DBDSN()
	if err != nil {
		a.logger.Warn("postgres not configured, using in-memory store", zap.Error(err))
		if a.userRepo, err = memory.NewRepository(); err != nil {
			return fmt.Errorf("in-memory store: %w", err)
		}
	} else {
		if a.db, err = postgres.New(ctx, a.logger, dbDsn, a.cfg.DB); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err = postgres.EnsureSchema(ctx, a.db, a.logger); err != nil {
			return err
		}
		a.userRepo = pguser.NewRepository(a.db)
	}

	if !a.cfg.Redis.Enabled() {
		return nil
	}

	a.redis = redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err = a.redis.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.userRepo = cache.NewUserRepository(a.userRepo, a.redis, a.cfg.Redis.TTL, a.logger)
	a.logger.Info("redis cache enabled", zap.Duration("ttl", a.cfg.Redis.TTL))

	return nil
}

func (a *App) initMQ(ctx context.Context) error {
	if !a.cfg.MQ.Enabled() {
		a.logger.Warn("rabbitmq not configured, lifecycle events are not published")
		return nil
	}

	rabbitDsn, err := a.cfg.AMQPDSN()
	if err != nil {
		return fmt.Errorf("RabbitMQ config error: %w", err)
	}

	rbMQ := mq.New(a.cfg.MQ, a.logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		return fmt.Errorf("failed to connect to rabbitMQ: %w", err)
	}
	a.mq = rbMQ
	if err = rbMQ.Init(); err != nil {
		return fmt.Errorf("failed init rabbitMQ: %w", err)
	}

	// rmqConsumer
	var mailer ports.Mailer
	if a.cfg.SMTP.Enabled() {
		m, err := mail.New(a.cfg.SMTP, a.logger)
		if err != nil {
			return fmt.Errorf("failed to init mailer: %w", err)
		}
		mailer = m
	}
	rmqConsumer := rmqconsumer.New(a.cfg.MQ, a.logger, mailer)
	if err = rmqConsumer.Connect(ctx, rabbitDsn); err != nil {
		return fmt.Errorf("failed to connect rabbitMQ consumer: %w", err)
	}
	a.mqConsumer = rmqConsumer
	if err = rmqConsumer.Init(); err != nil {
		return fmt.Errorf("failed to init rabbitMQ consumer: %w", err)
	}

	return nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	if a.mqConsumer != nil && a.mqConsumer.GetConn() != nil {
		_ = a.mqConsumer.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		return err
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// services
	var jwtService *jwt.Service
	if a.cfg.App.JWTSecret != "" {
		jwtService = jwt.New(a.cfg.App.JWTSecret)
	} else {
		a.logger.Warn("SERVICE_JWT_SECRET is empty, mutating routes are not protected")
	}
	domainService := domain.NewService(a.userRepo)
	userService := services.NewUserService(a.userRepo, domainService, a.mq, a.mCounter)

	// controllers
	rest.NewUserController(a.router, userService, a.logger, jwtService)

	// ops
	pingers := map[string]rest.Pinger{}
	if a.db != nil {
		pingers["postgres"] = a.db.Ping
	}
	if a.redis != nil {
		pingers["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}
	rest.NewSystemController(a.router, a.cfg.App.Name, a.cfg.App.Version, pingers, a.logger)
}

func (a *App) Logger() *zap.Logger { return a.logger }
