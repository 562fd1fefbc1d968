package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists cache entries as rows in a single SQLite table.
// database/sql serializes row replacement, so writes are atomic per key.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a SQLite database at path.
// ":memory:" opens an in-memory database, used by tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// WAL keeps readers unblocked during writes.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS cache_entries (
		bucket TEXT NOT NULL,
		key    TEXT NOT NULL,
		data   BLOB NOT NULL,
		PRIMARY KEY (bucket, key)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Read(ctx context.Context, bucket Bucket, key string) ([]byte, error) {
	var data []byte
	query := `SELECT data FROM cache_entries WHERE bucket = ? AND key = ?`
	err := s.db.QueryRowContext(ctx, query, string(bucket), key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoEntry
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	return data, nil
}

func (s *SQLiteStore) Write(ctx context.Context, bucket Bucket, key string, data []byte) error {
	query := `INSERT INTO cache_entries (bucket, key, data) VALUES (?, ?, ?)
		ON CONFLICT (bucket, key) DO UPDATE SET data = excluded.data`
	if _, err := s.db.ExecContext(ctx, query, string(bucket), key, data); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, bucket Bucket, key string) error {
	query := `DELETE FROM cache_entries WHERE bucket = ? AND key = ?`
	if _, err := s.db.ExecContext(ctx, query, string(bucket), key); err != nil {
		return fmt.Errorf("removing cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared entries: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Walk(ctx context.Context, fn func(bucket Bucket, key string, size int64, data []byte) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, key, data FROM cache_entries`)
	if err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket, key string
		var data []byte
		if err := rows.Scan(&bucket, &key, &data); err != nil {
			return fmt.Errorf("scanning cache entry: %w", err)
		}
		if err := fn(Bucket(bucket), key, int64(len(data)), data); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating cache entries: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
