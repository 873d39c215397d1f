package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"taskdeck/backend/internal/cache"
	"taskdeck/backend/internal/config"
	"taskdeck/backend/internal/database"
	"taskdeck/backend/internal/monitoring"
	"taskdeck/backend/internal/server"
	"taskdeck/backend/internal/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// The logger is not up yet; stderr is all we have.
		os.Stderr.WriteString("fatal: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := newLogger(cfg)
	if err != nil {
		os.Stderr.WriteString("fatal: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, &database.PoolConfig{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		RetryInterval:   cfg.Database.RetryInterval,
		LogLevel:        logger.Warn,
	}, log)
	if err != nil {
		log.Fatal("database connection aborted", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Migrate(); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}
	log.Info("connected to database")

	authService := services.NewAuthService(cfg.Auth)

	var tasks services.TaskService = services.NewTaskService()
	health := monitoring.NewHealthChecker()
	health.Register("database", pool.Ping)

	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(&cache.CacheConfig{
			Addr:         cfg.GetRedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		defer redisCache.Close()

		tasks = services.NewCachedTaskService(tasks, redisCache)
		health.Register("redis", redisCache.Ping)
		log.Info("task list cache enabled", zap.String("addr", cfg.GetRedisAddr()))
	}

	router := server.NewRouter(server.Deps{
		Config:  cfg,
		DB:      pool.DB(),
		Auth:    authService,
		Tasks:   tasks,
		Log:     log,
		Metrics: monitoring.NewMetrics(),
		Health:  health,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
