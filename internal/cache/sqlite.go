package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS bot_storage (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    expires_at TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_bot_storage_expires_at ON bot_storage (expires_at);
`

// OpenSQLite opens (or creates) a SQLite database at the given path, enables
// WAL journal mode and ensures the storage table exists.
func OpenSQLite(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(sqliteSchemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewSQLiteDurable wraps an already-opened SQLite handle.
func NewSQLiteDurable(db *sql.DB) DurableStore { return &sqliteDurable{db: db} }

type sqliteDurable struct{ db *sql.DB }

func (s *sqliteDurable) Get(ctx context.Context, key string, now time.Time) ([]byte, bool, error) {
	var value []byte
	row := s.db.QueryRowContext(ctx, `
        SELECT value FROM bot_storage
        WHERE key=? AND (expires_at IS NULL OR expires_at > ?)
    `, key, now.UTC())
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (s *sqliteDurable) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO bot_storage (key, value, expires_at, updated_at)
        VALUES (?,?,?,?)
        ON CONFLICT (key) DO UPDATE
        SET value=excluded.value, expires_at=excluded.expires_at, updated_at=excluded.updated_at
    `, key, value, expiresAt.UTC(), time.Now().UTC())
	return err
}

func (s *sqliteDurable) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM bot_storage WHERE key=?`, key)
	return err
}

func (s *sqliteDurable) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
        DELETE FROM bot_storage WHERE expires_at IS NOT NULL AND expires_at <= ?
    `, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqliteDurable) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *sqliteDurable) Close() error { return s.db.Close() }
