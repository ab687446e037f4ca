package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joacominatel/salesdash/internal/database"
)

const unreachableDSN = "postgresql://postgres@127.0.0.1:1/retail?sslmode=disable&connect_timeout=1"

func stubDial(t *testing.T, fn func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error)) {
	t.Helper()
	orig := dialPool
	dialPool = fn
	t.Cleanup(func() { dialPool = orig })
}

func TestConnectStopsAfterConnectAttempts(t *testing.T) {
	calls := 0
	stubDial(t, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		calls++
		return nil, errors.New("dial tcp 127.0.0.1:1: connect: connection refused")
	})

	d := New(Options{MaxConns: 1, ConnectAttempts: 3, InitialBackoff: time.Millisecond})
	if err := d.Connect(context.Background(), unreachableDSN); err == nil {
		t.Fatal("Connect succeeded against an unreachable store")
	}
	if calls != 3 {
		t.Errorf("dial attempts = %d, want 3", calls)
	}
	if err := d.Ping(context.Background()); !errors.Is(err, database.ErrNotConnected) {
		t.Errorf("Ping after failed Connect = %v, want ErrNotConnected", err)
	}
}

func TestConnectUnreachableStore(t *testing.T) {
	d := New(Options{MaxConns: 1, ConnectAttempts: 2, InitialBackoff: time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.Connect(ctx, unreachableDSN); err == nil {
		t.Fatal("Connect succeeded against 127.0.0.1:1")
	}
	if _, err := d.Begin(ctx); !errors.Is(err, database.ErrNotConnected) {
		t.Errorf("Begin after failed Connect = %v, want ErrNotConnected", err)
	}
}

func TestConnectIsIdempotent(t *testing.T) {
	calls := 0
	stubDial(t, func(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
		calls++
		return pgxpool.NewWithConfig(ctx, cfg)
	})

	d := New(DefaultOptions())
	t.Cleanup(func() { _ = d.Close() })

	ctx := context.Background()
	if err := d.Connect(ctx, unreachableDSN); err != nil {
		t.Fatalf("first Connect: %v", err)
	}
	first, err := d.handle()
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if err := d.Connect(ctx, "postgresql://other@127.0.0.1:2/elsewhere"); err != nil {
		t.Fatalf("second Connect: %v", err)
	}
	second, _ := d.handle()
	if first != second {
		t.Error("second Connect replaced the pool")
	}
	if calls != 1 {
		t.Errorf("dial calls = %d, want 1", calls)
	}
	if got := d.DatabaseName(); got != "retail" {
		t.Errorf("DatabaseName = %q, want retail", got)
	}
}

func TestConnectRejectsMalformedDSN(t *testing.T) {
	stubDial(t, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		t.Fatal("dial called for a malformed DSN")
		return nil, nil
	})

	d := New(DefaultOptions())
	if err := d.Connect(context.Background(), "postgresql://%zz"); err == nil {
		t.Fatal("Connect accepted a malformed DSN")
	}
}
