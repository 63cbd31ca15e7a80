package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT UNIQUE);`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	return n
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t, "dbx_commit")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('ok')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, db), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t, "dbx_rollback")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('fail')`)
		require.NoError(t, e)
		return errors.New("boom")
	})
	require.Error(t, err)

	require.Equal(t, 0, countRows(t, db), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t, "dbx_panic")

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countRows(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('panic')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t, "dbx_begin")
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
}

func TestExecBatch_InsertsAllRows(t *testing.T) {
	db := setupDB(t, "dbx_batch")

	err := ExecBatch(context.Background(), db, `INSERT INTO t(v) VALUES (?)`, [][]any{{"a"}, {"b"}, {"c"}})
	require.NoError(t, err)
	require.Equal(t, 3, countRows(t, db))
}

func TestExecBatch_EmptyIsNoop(t *testing.T) {
	db := setupDB(t, "dbx_batch_empty")
	require.NoError(t, ExecBatch(context.Background(), db, `INSERT INTO t(v) VALUES (?)`, nil))
	require.Equal(t, 0, countRows(t, db))
}

func TestExecBatch_ReportsFailingRowInsideTx(t *testing.T) {
	db := setupDB(t, "dbx_batch_fail")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return ExecBatch(ctx, tx, `INSERT INTO t(v) VALUES (?)`, [][]any{{"x"}, {"x"}})
	})
	require.ErrorContains(t, err, "row 1")
	require.Equal(t, 0, countRows(t, db), "failed batch must roll back")
}
