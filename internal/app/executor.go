package app

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/joacominatel/salesdash/internal/database"
	"github.com/joacominatel/salesdash/internal/logging"
	"github.com/joacominatel/salesdash/internal/metrics"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
)

// ExecutorOptions configures result memoization and timeouts.
type ExecutorOptions struct {
	// CacheTTL is how long a result is served without contacting the store.
	// Zero or negative disables the cache.
	CacheTTL time.Duration

	// CacheSize bounds the number of cached statements.
	CacheSize int

	// Timeout bounds a single store round trip. Zero means no timeout.
	Timeout time.Duration

	// BreakerThreshold is the number of consecutive connectivity failures that opens
	// the circuit breaker. Statement errors never count.
	BreakerThreshold uint32

	// BreakerCooldown is how long the breaker stays open before probing again.
	BreakerCooldown time.Duration
}

// DefaultExecutorOptions returns the reference behavior: results live for 600s.
func DefaultExecutorOptions() ExecutorOptions {
	return ExecutorOptions{
		CacheTTL:         600 * time.Second,
		CacheSize:        128,
		Timeout:          30 * time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

// Executor runs catalog statements against the store and memoizes their results
// keyed by the exact statement text. Results are not invalidated when the underlying
// data changes; a cached result can be up to CacheTTL old.
type Executor struct {
	driver  database.Driver
	opts    ExecutorOptions
	cache   *expirable.LRU[string, *database.QueryResult]
	group   singleflight.Group
	breaker *gobreaker.CircuitBreaker[*database.QueryResult]
	log     zerolog.Logger
}

// NewExecutor creates an executor over the shared driver.
func NewExecutor(driver database.Driver, opts ExecutorOptions) *Executor {
	if opts.BreakerThreshold == 0 {
		opts.BreakerThreshold = DefaultExecutorOptions().BreakerThreshold
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = DefaultExecutorOptions().BreakerCooldown
	}

	e := &Executor{
		driver: driver,
		opts:   opts,
		log:    logging.With().Str("component", "executor").Logger(),
	}

	if opts.CacheTTL > 0 {
		e.cache = expirable.NewLRU[string, *database.QueryResult](opts.CacheSize, nil, opts.CacheTTL)
	}

	threshold := opts.BreakerThreshold
	e.breaker = gobreaker.NewCircuitBreaker[*database.QueryResult](gobreaker.Settings{
		Name:        "store",
		MaxRequests: 1,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, database.ErrStatement) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("store breaker state changed")
			metrics.BreakerState.Set(float64(to))
		},
	})

	return e
}

// Execute returns the rows of statement, from the cache when a result younger than
// the TTL exists. Failures are returned as *ErrQuery after the transaction has been
// rolled back.
//
// Concurrent misses on the same statement share one store round trip. The shared
// call is detached from every caller's cancellation and bounded by Timeout only, so
// a caller that gives up returns its own ctx error without failing the others.
func (e *Executor) Execute(ctx context.Context, statement string) (*database.QueryResult, error) {
	if e.cache != nil {
		if res, ok := e.cache.Get(statement); ok {
			metrics.CacheHits.Inc()
			return res, nil
		}
		metrics.CacheMisses.Inc()
	}

	shared := context.WithoutCancel(ctx)
	ch := e.group.DoChan(statement, func() (any, error) {
		res, err := e.breaker.Execute(func() (*database.QueryResult, error) {
			return e.run(shared, statement)
		})
		if err != nil {
			return nil, err
		}
		if e.cache != nil {
			e.cache.Add(statement, res)
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, &ErrQuery{Query: statement, Cause: ctx.Err()}
	case r := <-ch:
		if r.Err != nil {
			if errors.Is(r.Err, gobreaker.ErrOpenState) || errors.Is(r.Err, gobreaker.ErrTooManyRequests) {
				metrics.QueryErrors.WithLabelValues(metrics.ErrorTypeBreaker).Inc()
			}
			return nil, &ErrQuery{Query: statement, Cause: r.Err}
		}
		if r.Shared {
			e.log.Debug().Msg("joined in-flight query")
		}
		return r.Val.(*database.QueryResult), nil
	}
}

// Purge drops every cached result.
func (e *Executor) Purge() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

// Cached returns the number of live cache entries.
func (e *Executor) Cached() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

func (e *Executor) run(ctx context.Context, statement string) (*database.QueryResult, error) {
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := e.roundTrip(ctx, statement)
	metrics.RecordQuery(time.Since(start), errorType(err), err)
	return res, err
}

func (e *Executor) roundTrip(ctx context.Context, statement string) (*database.QueryResult, error) {
	tx, err := e.driver.Begin(ctx)
	if err != nil {
		return nil, err
	}

	res, err := tx.Query(ctx, statement)
	if err != nil {
		e.rollback(ctx, tx, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		e.rollback(ctx, tx, err)
		return nil, err
	}
	return res, nil
}

// rollback must run even when ctx is already done, otherwise an aborted
// transaction would keep the connection busy.
func (e *Executor) rollback(ctx context.Context, tx database.Tx, cause error) {
	metrics.QueryRollbacks.Inc()
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		e.log.Error().Err(err).AnErr("cause", cause).Msg("rollback failed")
		return
	}
	e.log.Warn().Err(cause).Msg("statement failed, transaction rolled back")
}

func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.ErrorTypeTimeout
	case errors.Is(err, database.ErrStatement):
		return metrics.ErrorTypeStatement
	default:
		return metrics.ErrorTypeStore
	}
}
