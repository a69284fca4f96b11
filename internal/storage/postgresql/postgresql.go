package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"kamaru/internal/lib/logger/sl"
)

type Options struct {
	DSN             string
	ConnectAttempts uint64
	ConnectDelay    time.Duration
	MaxConns        int32
}

type Storage struct {
	Pool *pgxpool.Pool
}

// New connects to PostgreSQL, retrying a bounded number of times with a fixed
// delay between attempts. Exhausting the attempts returns the last error.
func New(ctx context.Context, log *slog.Logger, opts Options) (*Storage, error) {
	const op = "storage.postgresql.New"

	log = log.With(slog.String("op", op))

	cfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: parse dsn: %w", op, err)
	}

	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	attempts := opts.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(opts.ConnectDelay), attempts-1),
		ctx,
	)

	var pool *pgxpool.Pool
	attempt := 0

	connect := func() error {
		attempt++

		p, err := pgxpool.ConnectConfig(ctx, cfg)
		if err != nil {
			log.Warn("database connection failed", slog.Int("attempt", attempt), sl.Err(err))
			return err
		}

		if err := p.Ping(ctx); err != nil {
			p.Close()
			log.Warn("database ping failed", slog.Int("attempt", attempt), sl.Err(err))
			return err
		}

		pool = p
		return nil
	}

	if err := backoff.Retry(connect, policy); err != nil {
		return nil, fmt.Errorf("%s: giving up after %d attempts: %w", op, attempt, err)
	}

	log.Info("connected to database", slog.Int("attempt", attempt))

	return &Storage{Pool: pool}, nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Storage) Stop() {
	s.Pool.Close()
}
