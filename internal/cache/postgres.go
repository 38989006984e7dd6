package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const pgSchemaSQL = `
CREATE TABLE IF NOT EXISTS bot_storage (
    key        TEXT PRIMARY KEY,
    value      JSONB NOT NULL,
    expires_at TIMESTAMPTZ,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_bot_storage_expires_at ON bot_storage (expires_at);
`

// OpenPostgres opens a PostgreSQL connection using the pgx stdlib driver,
// verifies connectivity and ensures the storage table exists.
func OpenPostgres(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(pgSchemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewPostgresDurable wraps an already-connected database handle. The handle
// may be shared with other components; Close closes it.
func NewPostgresDurable(db *sql.DB) DurableStore { return &pgDurable{db: db} }

type pgDurable struct{ db *sql.DB }

func (p *pgDurable) Get(ctx context.Context, key string, now time.Time) ([]byte, bool, error) {
	var value []byte
	row := p.db.QueryRowContext(ctx, `
        SELECT value FROM bot_storage
        WHERE key=$1 AND (expires_at IS NULL OR expires_at > $2)
    `, key, now.UTC())
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (p *pgDurable) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO bot_storage (key, value, expires_at, updated_at)
        VALUES ($1,$2,$3,now())
        ON CONFLICT (key) DO UPDATE
        SET value=EXCLUDED.value, expires_at=EXCLUDED.expires_at, updated_at=now()
    `, key, value, expiresAt.UTC())
	return err
}

func (p *pgDurable) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM bot_storage WHERE key=$1`, key)
	return err
}

func (p *pgDurable) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := p.db.ExecContext(ctx, `
        DELETE FROM bot_storage WHERE expires_at IS NOT NULL AND expires_at <= $1
    `, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (p *pgDurable) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *pgDurable) Close() error { return p.db.Close() }
