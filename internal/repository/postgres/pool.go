package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dtroode/interview-assistant/internal/model"
)

const (
	// PolicyOverflow opens an uncounted connection when the pool is at capacity.
	PolicyOverflow = "overflow"
	// PolicyBlock waits for a counted slot up to the acquire timeout.
	PolicyBlock = "block"
)

// ErrAcquireTimeout is returned by the blocking policy when no slot frees up in time.
var ErrAcquireTimeout = errors.New("timed out waiting for database connection")

// PoolConfig describes how many connections may be active and what happens at the bound.
type PoolConfig struct {
	MaxConns       int
	Policy         string
	AcquireTimeout time.Duration
}

// PoolStats is a snapshot of the pool gauge.
type PoolStats struct {
	Active   int
	MaxConns int
	Overflow int
}

// Pool hands out one dedicated connection per store operation and tracks
// how many are active. Every acquired connection is closed on release.
type Pool struct {
	db     *sql.DB
	config PoolConfig
	sem    *semaphore.Weighted

	mu       sync.Mutex
	active   int
	overflow int
	counted  map[*sql.Conn]bool
}

// NewPool wraps db with an active-connection gauge.
func NewPool(db *sql.DB, config PoolConfig) *Pool {
	if config.MaxConns <= 0 {
		config.MaxConns = 5
	}
	if config.Policy == "" {
		config.Policy = PolicyOverflow
	}

	p := &Pool{
		db:      db,
		config:  config,
		counted: make(map[*sql.Conn]bool),
	}
	if config.Policy == PolicyBlock {
		p.sem = semaphore.NewWeighted(int64(config.MaxConns))
	}

	return p
}

// Acquire returns a dedicated connection. Callers must hand it back with Release.
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	counted, err := p.reserve(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := p.db.Conn(ctx)
	if err != nil {
		p.unreserve(counted)
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	p.mu.Lock()
	p.counted[conn] = counted
	p.mu.Unlock()

	return conn, nil
}

// Release closes conn and frees its slot. Releasing the same connection twice is harmless.
func (p *Pool) Release(conn *sql.Conn) {
	if conn == nil {
		return
	}

	p.mu.Lock()
	counted, known := p.counted[conn]
	delete(p.counted, conn)
	p.mu.Unlock()

	_ = conn.Close()

	if known {
		p.unreserve(counted)
	}
}

func (p *Pool) reserve(ctx context.Context) (bool, error) {
	if p.sem != nil {
		waitCtx := ctx
		if p.config.AcquireTimeout > 0 {
			var cancel context.CancelFunc
			waitCtx, cancel = context.WithTimeout(ctx, p.config.AcquireTimeout)
			defer cancel()
		}
		if err := p.sem.Acquire(waitCtx, 1); err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			return false, ErrAcquireTimeout
		}

		p.mu.Lock()
		p.active++
		p.mu.Unlock()
		return true, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active < p.config.MaxConns {
		p.active++
		return true, nil
	}
	p.overflow++
	return false, nil
}

func (p *Pool) unreserve(counted bool) {
	p.mu.Lock()
	if counted {
		if p.active > 0 {
			p.active--
		}
	} else if p.overflow > 0 {
		p.overflow--
	}
	p.mu.Unlock()

	if counted && p.sem != nil {
		p.sem.Release(1)
	}
}

// Stats returns the current gauge values.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PoolStats{
		Active:   p.active,
		MaxConns: p.config.MaxConns,
		Overflow: p.overflow,
	}
}

// Ping checks that the database is reachable.
func (p *Pool) Ping(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("database handle is nil")
	}
	return p.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (p *Pool) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// QueryOne runs a single-row query and scans it into dest.
// A missing row is not a failure of the statement: the transaction commits and
// model.ErrNotFound is returned.
func (p *Pool) QueryOne(ctx context.Context, query string, args []any, dest ...any) error {
	return p.withStatement(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, query, args...).Scan(dest...)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrNotFound
		}
		return err
	})
}

// QueryAll runs a query and calls scan once per row.
func (p *Pool) QueryAll(ctx context.Context, query string, args []any, scan func(rows *sql.Rows) error) error {
	return p.withStatement(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			if err := scan(rows); err != nil {
				return err
			}
		}
		return rows.Err()
	})
}

// Execute runs a statement without a result set and returns the number of affected rows.
func (p *Pool) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := p.withStatement(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (p *Pool) withStatement(ctx context.Context, fn func(tx *sql.Tx) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(conn)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmtErr := fn(tx)
	if stmtErr != nil && !errors.Is(stmtErr, model.ErrNotFound) {
		_ = tx.Rollback()
		return stmtErr
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stmtErr
}
