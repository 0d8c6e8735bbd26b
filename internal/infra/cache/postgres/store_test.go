package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"morphcore/internal/cache/core"
	"morphcore/pkg/domain"
)

// stubConn is a database/sql driver connection keeping cache rows in memory.
type stubConn struct {
	mu       sync.Mutex
	execs    []string
	rows     map[string][]byte
	failPing bool
}

type stubDriver struct{ conn *stubConn }

func (d stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("not implemented") }

func (c *stubConn) Ping(context.Context) error {
	if c.failPing {
		return errors.New("connection refused")
	}
	return nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execs = append(c.execs, query)
	if strings.HasPrefix(strings.TrimSpace(query), "INSERT") {
		key, _ := args[0].Value.(string)
		payload, _ := args[1].Value.([]byte)
		c.rows[key] = append([]byte(nil), payload...)
	}
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(_ context.Context, _ string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, _ := args[0].Value.(string)
	payload, ok := c.rows[key]
	if !ok {
		return &stubRows{}, nil
	}
	return &stubRows{values: [][]byte{payload}}, nil
}

type stubRows struct {
	values [][]byte
	next   int
}

func (r *stubRows) Columns() []string { return []string{"payload"} }
func (r *stubRows) Close() error      { return nil }
func (r *stubRows) Next(dest []driver.Value) error {
	if r.next >= len(r.values) {
		return io.EOF
	}
	dest[0] = r.values[r.next]
	r.next++
	return nil
}

func newStubDB(t *testing.T) (*sql.DB, *stubConn) {
	t.Helper()
	conn := &stubConn{rows: make(map[string][]byte)}
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		t.Fatalf("open stub: %v", err)
	}
	return db, conn
}

func TestNewEnsuresTable(t *testing.T) {
	db, conn := newStubDB(t)
	var gotDSN string
	restore := OverrideSQLOpen(func(driverName, dsn string) (*sql.DB, error) {
		if driverName != "pgx" {
			t.Fatalf("unexpected driver %s", driverName)
		}
		gotDSN = dsn
		return db, nil
	})
	defer restore()

	s, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if gotDSN != defaultDSN {
		t.Fatalf("expected default dsn, got %s", gotDSN)
	}
	if s.Driver() != core.DriverPostgres || s.DB() != db {
		t.Fatalf("unexpected store identity")
	}
	if len(conn.execs) != 1 || !strings.Contains(conn.execs[0], "CREATE TABLE IF NOT EXISTS cross_cache") {
		t.Fatalf("expected table creation, got %v", conn.execs)
	}
}

func TestGetPutThroughStub(t *testing.T) {
	ctx := context.Background()
	db, _ := newStubDB(t)
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()

	s, err := New(ctx, "postgres://stub")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss: %v %v", ok, err)
	}
	entry := core.Entry{Results: []domain.CrossResult{{Phenotype: "Normal", Genotype: []domain.GeneEntry{}, Probability: 1}}}
	if err := s.Put(ctx, "k", entry); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || got.Results[0].Phenotype != "Normal" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected hit %+v %v %v", got, ok, err)
	}
}

func TestNewPingFailure(t *testing.T) {
	db, conn := newStubDB(t)
	conn.failPing = true
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := New(context.Background(), "postgres://stub"); err == nil || !strings.Contains(err.Error(), "ping postgres") {
		t.Fatalf("expected ping error, got %v", err)
	}
	restoreErr := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("bad dsn") })
	defer restoreErr()
	if _, err := New(context.Background(), "postgres://stub"); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected open error, got %v", err)
	}
}

// TestLivePostgres runs against a real server when MORPHCORE_TEST_POSTGRES_DSN is set.
func TestLivePostgres(t *testing.T) {
	dsn := os.Getenv("MORPHCORE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MORPHCORE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = s.Close() }()
	key := fmt.Sprintf("test|%d", time.Now().UnixNano())
	defer func() { _, _ = s.DB().ExecContext(ctx, `DELETE FROM cross_cache WHERE cache_key = $1`, key) }()
	if err := s.Put(ctx, key, core.Entry{Results: []domain.CrossResult{{Phenotype: "Normal", Probability: 1}}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := s.Get(ctx, key)
	if err != nil || !ok || got.Results[0].Probability != 1 {
		t.Fatalf("unexpected hit %+v %v %v", got, ok, err)
	}
}
