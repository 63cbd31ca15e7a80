package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/pharmafhe/internal/client/migrations"
	"github.com/dmitrijs2005/pharmafhe/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/pharmafhe/internal/client/repositories/records"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories groups the local snapshot stores opened by InitDatabase.
type Repositories struct {
	Metadata metadata.Repository
	Records  records.Repository
	DB       *sql.DB
}

func (r *Repositories) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the sqlite file at dsn and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		Records:  records.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}
