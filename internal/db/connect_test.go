package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func openMem(t *testing.T) *sql.DB {
	t.Helper()
	d, err := Open(context.Background(), DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestOpen_CreatesSchema(t *testing.T) {
	d := openMem(t)
	for _, tbl := range []string{"users", "quizzes", "questions", "results", "event_log"} {
		var name string
		err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=$1`, tbl).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", tbl, err)
		}
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), Driver("oracle"), ""); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestParseDriver(t *testing.T) {
	cases := map[string]Driver{
		"":         DriverSQLite,
		"sqlite3":  DriverSQLite,
		"pgx":      DriverPostgres,
		"Postgres": DriverPostgres,
	}
	for in, want := range cases {
		if got := ParseDriver(in); got != want {
			t.Errorf("ParseDriver(%q)=%q want %q", in, got, want)
		}
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	d := openMem(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := WithTx(ctx, d, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (external_id, name, created_at) VALUES ('u1','A',1)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("rollback failed, %d rows", n)
	}
}

func TestWithTx_Commits(t *testing.T) {
	d := openMem(t)
	ctx := context.Background()
	err := WithTx(ctx, d, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO users (external_id, name, created_at) VALUES ('u1','A',1)`)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	var n int
	_ = d.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	if n != 1 {
		t.Fatalf("want 1 row, got %d", n)
	}
}
