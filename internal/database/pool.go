package database

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskdeck/backend/internal/models"
)

type PoolConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	RetryInterval   time.Duration
	LogLevel        logger.LogLevel
}

func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		RetryInterval:   5 * time.Second,
		LogLevel:        logger.Warn,
	}
}

type Pool struct {
	db  *gorm.DB
	cfg *PoolConfig
	log *zap.Logger
}

// NewPool opens the store connection once. Connection failures are
// returned to the caller; use Connect for the retrying variant.
func NewPool(config *PoolConfig, log *zap.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultPoolConfig()
	}
	if config.DSN == "" {
		return nil, errors.New("database: DSN is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	db, err := gorm.Open(postgres.Open(config.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(config.LogLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	return &Pool{db: db, cfg: config, log: log}, nil
}

// Connect dials the store, retrying on a fixed delay until it succeeds
// or ctx is cancelled. No backoff growth, no attempt limit: the store
// is a background infrastructure dependency and the process is useless
// without it.
func Connect(ctx context.Context, config *PoolConfig, log *zap.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultPoolConfig()
	}
	retry := config.RetryInterval
	if retry <= 0 {
		retry = 5 * time.Second
	}

	for {
		pool, err := NewPool(config, log)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				return pool, nil
			} else {
				err = pingErr
				pool.Close()
			}
		}

		if log != nil {
			log.Warn("database connection failed, retrying",
				zap.Duration("retry_in", retry),
				zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retry):
		}
	}
}

func (p *Pool) DB() *gorm.DB {
	return p.db
}

func (p *Pool) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *Pool) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates the users and tasks tables.
func (p *Pool) Migrate() error {
	return p.db.AutoMigrate(&models.User{}, &models.Task{})
}
