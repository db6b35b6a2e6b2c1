package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/storefront-harvester/internal/adapter/amqp"
	"github.com/user/storefront-harvester/internal/adapter/postgres"
	redis_adapter "github.com/user/storefront-harvester/internal/adapter/redis"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/pkg/config"
)

// backends holds the optional external stores of a harvest run.
type backends struct {
	sinks   []repository.BatchSink
	visited repository.VisitedRepository
	closers []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackends connects the stores named in c. Files sinks come first so
// they are written even when a remote store fails.
func openBackends(ctx context.Context, c *config.Config, profile string, files ...repository.BatchSink) (*backends, error) {
	b := &backends{sinks: files}

	if c.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, c.PostgresURL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		sink := postgres.NewBatchSink(pool)
		if err := sink.EnsureSchema(ctx); err != nil {
			b.Close()
			return nil, err
		}
		b.sinks = append(b.sinks, sink)
		slog.Info("PostgreSQL sink enabled")
	}

	if c.AMQPURL != "" {
		pub, err := amqp.Dial(c.AMQPURL, c.AMQPQueue)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = pub.Close() })
		b.sinks = append(b.sinks, pub)
		slog.Info("AMQP sink enabled", "queue", c.AMQPQueue)
	}

	if c.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			_ = rdb.Close()
			b.Close()
			return nil, fmt.Errorf("unable to connect to Redis: %w", err)
		}
		b.closers = append(b.closers, func() { _ = rdb.Close() })
		b.visited = redis_adapter.NewVisitedRepo(rdb, profile)
		slog.Info("Redis visited set enabled", "ttl", c.VisitedTTL)
	}

	return b, nil
}

// saveAll hands results to every sink and joins their failures.
func saveAll(ctx context.Context, sinks []repository.BatchSink, results []entity.BatchResult) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Save(ctx, results); err != nil {
			slog.Error("Failed to persist batches", "sink", s.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		slog.Info("Batches persisted", "sink", s.Name(), "batches", len(results))
	}
	return errors.Join(errs...)
}
