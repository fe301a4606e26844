package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/migrations"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresRepo migrates the database behind connString and opens a pool on it.
func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	if err := migrations.MigratePostgres(ctx, connString); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (pgr *PostgresRepo) Close() error {
	pgr.pool.Close()
	return nil
}

func (pgr *PostgresRepo) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := pgr.pool.QueryRow(ctx, "SELECT value FROM kv_store WHERE key = $1", key).Scan(&value)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, false, nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, false, err
		default:
			return nil, false, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}
	return []byte(value), true, nil
}

func (pgr *PostgresRepo) Save(ctx context.Context, key string, value []byte) error {
	_, err := pgr.pool.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, string(value),
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return nil
}
