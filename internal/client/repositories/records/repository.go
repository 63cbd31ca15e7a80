// Package records persists the last reconciled record snapshot so the CLI
// can show something while the store is unreachable.
package records

import (
	"context"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
)

// Repository stores an ordered copy of the record list.
type Repository interface {
	// ReplaceAll swaps the stored snapshot for records, keeping their order.
	ReplaceAll(ctx context.Context, records []models.Record) error

	// GetAll returns the stored snapshot in its original order.
	GetAll(ctx context.Context) ([]models.Record, error)

	// GetByID returns one stored record or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Record, error)

	Count(ctx context.Context) (int, error)
}
