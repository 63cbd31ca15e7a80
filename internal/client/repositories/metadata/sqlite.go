package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/pharmafhe/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata`)
	if err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SnapshotInfo(ctx context.Context) (SnapshotInfo, error) {
	var info SnapshotInfo

	ts, err := r.Get(ctx, KeyLastRefresh)
	if err != nil {
		return info, err
	}
	if ms, err := strconv.ParseInt(string(ts), 10, 64); err == nil {
		info.TakenAt = time.UnixMilli(ms).UTC()
	}

	account, err := r.Get(ctx, KeyAccount)
	if err != nil {
		return info, err
	}
	info.Account = string(account)

	contract, err := r.Get(ctx, KeyContract)
	if err != nil {
		return info, err
	}
	info.Contract = string(contract)

	return info, nil
}

// SaveSnapshotInfo writes all keys; an empty account removes the stored one.
func (r *SQLiteRepository) SaveSnapshotInfo(ctx context.Context, info SnapshotInfo) error {
	ts := strconv.FormatInt(info.TakenAt.UnixMilli(), 10)
	if err := r.Set(ctx, KeyLastRefresh, []byte(ts)); err != nil {
		return err
	}
	if err := r.Set(ctx, KeyContract, []byte(info.Contract)); err != nil {
		return err
	}
	if info.Account == "" {
		return r.Delete(ctx, KeyAccount)
	}
	return r.Set(ctx, KeyAccount, []byte(info.Account))
}
