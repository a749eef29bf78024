package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

const pingTimeout = 5 * time.Second

func (a *App) initDatabase() {
	poolCfg, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		fatal("failed to parse DB connection string", err)
	}

	if v := a.config.GetInt32("database.pool.max_conns"); v > 0 {
		poolCfg.MaxConns = v
	}
	if v := a.config.GetInt32("database.pool.min_conns"); v > 0 {
		poolCfg.MinConns = v
	}
	if v := a.config.GetSecond("database.pool.max_conn_lifetime_seconds"); v > 0 {
		poolCfg.MaxConnLifetime = v
	}
	if v := a.config.GetSecond("database.pool.max_conn_idle_seconds"); v > 0 {
		poolCfg.MaxConnIdleTime = v
	}
	if v := a.config.GetSecond("database.pool.health_check_period_seconds"); v > 0 {
		poolCfg.HealthCheckPeriod = v
	}

	pool, err := pgxpool.NewWithConfig(a.ctx, poolCfg)
	if err != nil {
		fatal("failed to create DB connection pool", err)
	}

	attempt := 0
	err = retry.Do(a.ctx, a.connectBackoff(), func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		if err := pool.Ping(pingCtx); err != nil {
			slog.WarnContext(ctx, "DB not reachable yet", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		fatal("failed to ping DB", err, "attempts", attempt)
	}

	a.dbConn = pool
}

// connectBackoff bounds the startup ping loop. Only connecting is retried;
// mail sends never are.
func (a *App) connectBackoff() retry.Backoff {
	base := a.config.GetSecond("database.connect_retry.base_delay_seconds")
	if base <= 0 {
		base = time.Second
	}

	b := retry.NewExponential(base)
	if ceiling := a.config.GetSecond("database.connect_retry.max_delay_seconds"); ceiling > 0 {
		b = retry.WithCappedDuration(ceiling, b)
	}

	return retry.WithMaxRetries(uint64(max(a.config.GetInt("database.connect_retry.max_retries"), 0)), b)
}
