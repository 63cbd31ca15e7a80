package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	"github.com/dmitrijs2005/pharmafhe/internal/common"
	"github.com/dmitrijs2005/pharmafhe/internal/dbx"
)

// DB is what the repository needs from *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.Beginner
}

type SQLiteRepository struct {
	db DB
}

func NewSQLiteRepository(db DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const (
	recordColumns = `id, name, description, creator, created_at, public_value1, public_value2, is_verified, decrypted_value`

	insertRecord = `INSERT INTO records (position, ` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, records []models.Record) error {
	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		rows = append(rows, []any{
			i, rec.ID, rec.Name, rec.Description, rec.Creator, rec.CreatedAt,
			rec.PublicValue1, rec.PublicValue2, rec.IsVerified, rec.DecryptedValue,
		})
	}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
			return err
		}
		return dbx.ExecBatch(ctx, tx, insertRecord, rows)
	})
	if err != nil {
		return fmt.Errorf("failed to replace records: %w", err)
	}
	return nil
}

func scanRecord(s interface{ Scan(dest ...any) error }) (models.Record, error) {
	var rec models.Record
	err := s.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.Creator, &rec.CreatedAt,
		&rec.PublicValue1, &rec.PublicValue2, &rec.IsVerified, &rec.DecryptedValue)
	return rec, err
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return &rec, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
