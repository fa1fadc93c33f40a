package cartstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-cart/internal/database"
)

// PostgresKV keeps values in the cart_state table
type PostgresKV struct {
	db *database.DB
}

// NewPostgresKV expects the migrations to have been applied
func NewPostgresKV(db *database.DB) *PostgresKV {
	return &PostgresKV{db: db}
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := p.db.QueryRow(ctx, database.GetCartStateSQL, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	if _, err := p.db.Exec(ctx, database.UpsertCartStateSQL, key, string(value)); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	if _, err := p.db.Exec(ctx, database.DeleteCartStateSQL, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
