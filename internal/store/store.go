package store

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/bookshelf/book"
	"github.com/marcelsud/bookshelf/book/postgres"
	"github.com/marcelsud/bookshelf/book/redis"
	"github.com/marcelsud/bookshelf/book/turso"
	"github.com/marcelsud/bookshelf/config"
)

// backend is a book.Repository that can derive its own schema
type backend interface {
	book.Repository
	CreateTable(ctx context.Context) error
}

// Open connects to the store selected by DB_DRIVER, makes sure the books table exists
// and, when REDIS_ADDR is set, puts the Redis cache in front of it
func Open(ctx context.Context, cfg *config.Config) (book.Repository, error) {
	repo, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	if err := repo.CreateTable(ctx); err != nil {
		repo.Close(ctx)
		return nil, fmt.Errorf("creating books table: %w", err)
	}
	if cfg.RedisAddr == "" {
		return repo, nil
	}
	client, err := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		repo.Close(ctx)
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return redis.NewRepository(repo, client, time.Duration(cfg.CacheTTLSeconds)*time.Second), nil
}

func openBackend(cfg *config.Config) (backend, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		repo, err := postgres.NewRepositoryWithPoolConfig(
			cfg.PostgresConnectionString(),
			cfg.GetPostgresMaxOpenConns(),
			cfg.GetPostgresMaxIdleConns(),
			cfg.GetPostgresConnMaxLifeMinutes(),
		)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return repo, nil
	case config.DriverTurso:
		repo, err := turso.NewRepository(cfg.DBName, cfg.TursoDatabaseURL, cfg.TursoAuthToken)
		if err != nil {
			return nil, fmt.Errorf("opening turso: %w", err)
		}
		return repo, nil
	case config.DriverSQLite:
		repo, err := turso.NewLocalRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}
