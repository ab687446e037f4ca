package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joacominatel/salesdash/internal/database"
	"github.com/joacominatel/salesdash/internal/logging"
	"github.com/rs/zerolog"
)

// Options tunes the connection pool and the startup retry policy.
type Options struct {
	MaxConns        int32
	ConnectAttempts int
	InitialBackoff  time.Duration
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{
		MaxConns:        4,
		ConnectAttempts: 3,
		InitialBackoff:  500 * time.Millisecond,
	}
}

// Driver implements the database.Driver interface for PostgreSQL.
type Driver struct {
	opts Options
	log  zerolog.Logger

	mu     sync.RWMutex
	pool   *pgxpool.Pool
	dbName string
}

// New creates a new PostgreSQL driver.
func New(opts Options) *Driver {
	if opts.MaxConns < 1 {
		opts.MaxConns = 1
	}
	if opts.ConnectAttempts < 1 {
		opts.ConnectAttempts = 1
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = DefaultOptions().InitialBackoff
	}
	return &Driver{
		opts: opts,
		log:  logging.With().Str("component", "postgres").Logger(),
	}
}

// Connect establishes the connection pool to PostgreSQL. The pool is created once;
// later calls return nil without reconnecting.
func (d *Driver) Connect(ctx context.Context, dsn string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pool != nil {
		return nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = d.opts.MaxConns
	cfg.MinConns = 1

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.opts.InitialBackoff

	attempt := 0
	pool, err := backoff.Retry(ctx, func() (*pgxpool.Pool, error) {
		attempt++
		return dialPool(ctx, cfg)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(d.opts.ConnectAttempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			d.log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("connect failed, retrying")
		}),
	)
	if err != nil {
		return err
	}

	d.pool = pool
	d.dbName = cfg.ConnConfig.Database
	d.log.Info().Str("database", d.dbName).Str("host", cfg.ConnConfig.Host).Msg("connected")
	return nil
}

// dialPool opens and pings a pool; replaced in tests.
var dialPool = dial

func dial(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Authentication or unknown database: retrying will not help.
			return nil, backoff.Permanent(fmt.Errorf("ping: %w", err))
		}
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Close closes the connection pool.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool != nil {
		d.pool.Close()
		d.pool = nil
	}
	return nil
}

// Ping checks if the connection is alive.
func (d *Driver) Ping(ctx context.Context) error {
	pool, err := d.handle()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

// Begin opens a read-only transaction.
func (d *Driver) Begin(ctx context.Context) (database.Tx, error) {
	pool, err := d.handle()
	if err != nil {
		return nil, err
	}
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin: %w", classify(err))
	}
	return &Tx{tx: tx}, nil
}

// DatabaseName returns the name of the connected database.
func (d *Driver) DatabaseName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dbName
}

func (d *Driver) handle() (*pgxpool.Pool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.pool == nil {
		return nil, database.ErrNotConnected
	}
	return d.pool, nil
}

// Tx wraps a pgx transaction.
type Tx struct {
	tx pgx.Tx
}

// Query runs a SQL statement and returns the results.
func (t *Tx) Query(ctx context.Context, query string) (*database.QueryResult, error) {
	start := time.Now()

	rows, err := t.tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", classify(err))
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var resultRows [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", classify(err))
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = normalize(v)
		}
		resultRows = append(resultRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", classify(err))
	}

	return &database.QueryResult{
		Columns:   columns,
		Rows:      resultRows,
		RowCount:  len(resultRows),
		Duration:  time.Since(start),
		FetchedAt: time.Now(),
	}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback aborts the transaction. Rolling back a closed transaction is not an error.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// classify tags server-side rejections with database.ErrStatement.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %w", database.ErrStatement, err)
	}
	return err
}
