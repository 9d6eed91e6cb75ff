package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrijs2005/schoolconnect/internal/dbx"
)

const upsertQuery = `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
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

func (r *SQLiteRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	// sorted for a deterministic write order
	keys := slices.Sorted(maps.Keys(values))

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range keys {
			if err := set(ctx, tx, k, values[k]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set metadata batch: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteMany(ctx context.Context, keys ...string) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range keys {
			if err := del(ctx, tx, k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete metadata batch: %w", err)
	}
	return nil
}

func set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := db.ExecContext(ctx, upsertQuery, key, value); err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func del(ctx context.Context, db dbx.DBTX, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}
