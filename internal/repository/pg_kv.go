package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgKVStore implementa KVStore sobre una tabla de Postgres.
type PgKVStore struct {
	pool pgExecutor
}

func NewPgKVStore(pool *pgxpool.Pool) *PgKVStore {
	return &PgKVStore{pool: pool}
}

// EnsureSchema crea la tabla del KV si no existe.
func (r *PgKVStore) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS kv_entries (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	_, err := r.pool.Exec(ctx, query)
	return err
}

func (r *PgKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_entries WHERE key = $1`

	var value []byte
	err := r.pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *PgKVStore) Put(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	_, err := r.pool.Exec(ctx, query, key, value)
	return err
}

func (r *PgKVStore) List(ctx context.Context, prefix string) ([]string, error) {
	// left() evita que "_" o "%" del prefijo actuen como comodines de LIKE.
	const query = `
		SELECT key
		FROM kv_entries
		WHERE left(key, length($1)) = $1
		ORDER BY key ASC
	`

	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *PgKVStore) CompareAndSwap(ctx context.Context, key string, old, next []byte) (bool, error) {
	const insertQuery = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO NOTHING
	`
	const updateQuery = `
		UPDATE kv_entries
		SET value = $3, updated_at = now()
		WHERE key = $1 AND value = $2
	`

	var (
		tag pgconn.CommandTag
		err error
	)
	if old == nil {
		tag, err = r.pool.Exec(ctx, insertQuery, key, next)
	} else {
		tag, err = r.pool.Exec(ctx, updateQuery, key, old, next)
	}
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
