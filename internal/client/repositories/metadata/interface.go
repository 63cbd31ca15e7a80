// Package metadata is a small key/value store next to the record snapshot.
// It remembers when the snapshot was taken and for which account and store.
package metadata

import (
	"context"
	"time"
)

const (
	KeyLastRefresh = "last_refresh"
	KeyAccount     = "account"
	KeyContract    = "contract"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error

	// SnapshotInfo returns the bookkeeping written by SaveSnapshotInfo.
	// Zero values are returned when nothing was saved yet.
	SnapshotInfo(ctx context.Context) (SnapshotInfo, error)
	SaveSnapshotInfo(ctx context.Context, info SnapshotInfo) error
}

// SnapshotInfo describes the persisted record snapshot.
type SnapshotInfo struct {
	TakenAt  time.Time
	Account  string
	Contract string
}
