// Package dbtest provides an in-memory database.Driver for tests of the layers above
// the store.
package dbtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/joacominatel/salesdash/internal/database"
)

// Driver answers statements from canned results. Statements without a canned
// result return an empty result. A failed statement leaves the connection aborted,
// like PostgreSQL, and every Begin fails until the transaction is rolled back.
type Driver struct {
	mu sync.Mutex

	results map[string]*database.QueryResult
	errs    map[string]error
	gates   map[string]*Gate

	// ConnectErr is returned by Connect and Ping when set.
	ConnectErr error

	// BeginErr is returned by Begin when set, as if the store were unreachable.
	BeginErr error

	connected bool
	aborted   bool
	connects  int
	begins    int
	queries   int
	rollbacks int
}

var _ database.Driver = (*Driver)(nil)

// New creates an empty driver.
func New() *Driver {
	return &Driver{
		results: make(map[string]*database.QueryResult),
		errs:    make(map[string]error),
		gates:   make(map[string]*Gate),
	}
}

// Connected creates an empty driver that is already connected.
func Connected() *Driver {
	d := New()
	d.connected = true
	return d
}

// SetResult makes statement return the given rows.
func (d *Driver) SetResult(statement string, columns []string, rows ...[]any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results[statement] = &database.QueryResult{
		Columns:  columns,
		Rows:     rows,
		RowCount: len(rows),
	}
}

// SetError makes statement fail as if the store rejected it.
func (d *Driver) SetError(statement string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs[statement] = err
}

// Hold makes statement block in Query until the gate is released or the query's
// context is done. A cancelled query aborts the transaction.
func (d *Driver) Hold(statement string) *Gate {
	g := &Gate{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gates[statement] = g
	return g
}

// Connects returns how many times Connect was called.
func (d *Driver) Connects() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connects
}

// Begins returns how many transactions were requested.
func (d *Driver) Begins() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.begins
}

// Queries returns how many statements reached the store.
func (d *Driver) Queries() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queries
}

// Rollbacks returns how many transactions were rolled back.
func (d *Driver) Rollbacks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rollbacks
}

func (d *Driver) Connect(context.Context, string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connects++
	if d.ConnectErr != nil {
		return d.ConnectErr
	}
	d.connected = true
	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
	return nil
}

func (d *Driver) Ping(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ConnectErr != nil {
		return d.ConnectErr
	}
	if !d.connected {
		return database.ErrNotConnected
	}
	return nil
}

func (d *Driver) Begin(context.Context) (database.Tx, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.begins++
	switch {
	case d.BeginErr != nil:
		return nil, d.BeginErr
	case !d.connected:
		return nil, database.ErrNotConnected
	case d.aborted:
		return nil, fmt.Errorf("%w: current transaction is aborted, commands ignored until end of transaction block", database.ErrStatement)
	}
	return &tx{d: d}, nil
}

func (d *Driver) DatabaseName() string { return "retail" }

// Gate holds a statement in flight.
type Gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	relOnce sync.Once
}

// Entered is closed once the statement has reached the store.
func (g *Gate) Entered() <-chan struct{} { return g.entered }

// Release lets held statements complete.
func (g *Gate) Release() {
	g.relOnce.Do(func() { close(g.release) })
}

type tx struct {
	d *Driver
}

func (t *tx) Query(ctx context.Context, sql string) (*database.QueryResult, error) {
	d := t.d
	d.mu.Lock()
	d.queries++
	g := d.gates[sql]
	d.mu.Unlock()

	if g != nil {
		g.once.Do(func() { close(g.entered) })
		select {
		case <-g.release:
		case <-ctx.Done():
			d.mu.Lock()
			d.aborted = true
			d.mu.Unlock()
			return nil, ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err, ok := d.errs[sql]; ok {
		d.aborted = true
		return nil, fmt.Errorf("%w: %w", database.ErrStatement, err)
	}

	res := &database.QueryResult{FetchedAt: time.Now()}
	if canned, ok := d.results[sql]; ok {
		*res = *canned
		res.FetchedAt = time.Now()
	}
	return res, nil
}

func (t *tx) Commit(context.Context) error { return nil }

func (t *tx) Rollback(context.Context) error {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	t.d.rollbacks++
	t.d.aborted = false
	return nil
}
