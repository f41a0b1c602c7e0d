// Package checks ships ready-made health check providers for common process
// dependencies. Each check reports into the health registry and carries its
// own liveness/readiness tagging.
package checks

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsegate/pulsegate/internal/health"
)

// Postgres reports readiness of a PostgreSQL connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a check over an existing pool. The check does not own
// the pool and never closes it.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (c *Postgres) ID() string { return "postgres" }

func (c *Postgres) Liveness() bool { return false }

func (c *Postgres) Readiness() bool { return true }

func (c *Postgres) Call(ctx context.Context) health.Result {
	if err := c.pool.Ping(ctx); err != nil {
		return health.Result{
			ID:    c.ID(),
			State: health.StateDown,
			Err:   fmt.Errorf("ping database: %w", err),
		}
	}

	stat := c.pool.Stat()
	return health.Result{
		ID:    c.ID(),
		State: health.StateUp,
		Details: map[string]any{
			"acquired-conns": stat.AcquiredConns(),
			"idle-conns":     stat.IdleConns(),
			"total-conns":    stat.TotalConns(),
		},
	}
}
