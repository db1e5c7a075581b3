package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-analytics/internal/auth"
	"github.com/Kosench/shortlink-analytics/internal/cache"
	"github.com/Kosench/shortlink-analytics/internal/config"
	"github.com/Kosench/shortlink-analytics/internal/database"
	"github.com/Kosench/shortlink-analytics/internal/handler"
	"github.com/Kosench/shortlink-analytics/internal/logger"
	"github.com/Kosench/shortlink-analytics/internal/repository"
	"github.com/Kosench/shortlink-analytics/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.App.Environment)
	if err != nil {
		log.Fatal("Failed to init logger: ", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx := context.Background()

	dsn := database.BuildDSN(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)
	db, err := database.Connect(ctx, dsn, database.DefaultPoolConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	zapLogger.Info("connected to database", zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.DBName))

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, zapLogger); err != nil {
			return err
		}
	}

	redisCache, cacheHealth := connectCache(cfg, zapLogger)
	defer redisCache.Close()

	urlStore := repository.NewPostgresURLRepository(db)
	eventStore := repository.NewPostgresEventRepository(db)
	accountStore := repository.NewPostgresAccountRepository(db)
	txManager := repository.NewPostgresTxManager(db, zapLogger)

	// Поиск по коду для редиректов и удаление идут через кэш
	cachedURLs := repository.NewCachedURLStore(
		urlStore,
		redisCache,
		cache.NewKeyBuilder(cfg.Redis.Namespace),
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		zapLogger,
	)

	urlService := service.NewURLService(cachedURLs, accountStore, zapLogger, cfg.GetBaseURL(), cfg.App.MaxRetries)
	redirectService := service.NewRedirectService(cachedURLs, txManager, zapLogger)
	analyticsService := service.NewAnalyticsService(urlStore, eventStore, accountStore, zapLogger)
	accountService := service.NewAccountService(accountStore, zapLogger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(
		handler.RouterConfig{
			AllowedOrigins: cfg.GetAllowedOrigins(),
			Verifier:       auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
			Logger:         zapLogger,
		},
		handler.NewAccountHandler(accountService, zapLogger),
		handler.NewURLHandler(urlService, zapLogger),
		handler.NewRedirectHandler(redirectService, zapLogger),
		handler.NewAnalyticsHandler(analyticsService, zapLogger),
		handler.NewHealthHandler(databaseHealth(db), cacheHealth),
	)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		zapLogger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("base_url", cfg.GetBaseURL()),
			zap.Bool("cache_enabled", cacheHealth != nil),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	zapLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	zapLogger.Info("server gracefully stopped")
	return nil
}

// connectCache подключает Redis; без него сервис работает на NullCache
func connectCache(cfg *config.Config, zapLogger *zap.Logger) (cache.Cache, handler.HealthCheck) {
	if !cfg.Redis.Enabled {
		zapLogger.Info("cache disabled by config")
		return cache.NewNullCache(), nil
	}

	redisClient, err := cache.NewRedisClient(cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
	})
	if err != nil {
		zapLogger.Warn("failed to connect to Redis, running without cache", zap.Error(err))
		return cache.NewNullCache(), nil
	}

	zapLogger.Info("connected to Redis", zap.String("host", cfg.Redis.Host))
	return redisClient, redisClient.HealthCheck
}

func databaseHealth(db *sql.DB) handler.HealthCheck {
	return func(ctx context.Context) error {
		return database.HealthCheck(ctx, db)
	}
}
