package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite" // pure-Go SQLite driver, no CGO required
)

// dialect holds the statements that differ between SQL engines.
type dialect struct {
	driver string
	schema string
	upsert string
}

var dialects = map[string]dialect{
	"sqlite": {
		driver: "sqlite",
		schema: `
CREATE TABLE IF NOT EXISTS kv (
	name       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`,
		upsert: `INSERT INTO kv (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at`,
	},
	"mysql": {
		driver: "mysql",
		schema: `
CREATE TABLE IF NOT EXISTS kv (
	name       VARCHAR(191) NOT NULL PRIMARY KEY,
	data       LONGTEXT     NOT NULL,
	updated_at VARCHAR(64)  NOT NULL
) DEFAULT CHARSET=utf8mb4;`,
		upsert: `INSERT INTO kv (name, data, updated_at) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE data=VALUES(data), updated_at=VALUES(updated_at)`,
	},
}

// SQLStore implements KV with one row per key in a SQL table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQL opens (or creates) the kv table using the named driver ("sqlite" or
// "mysql"). For sqlite the DSN is a file path.
func OpenSQL(driver, dsn string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == "sqlite" {
		// One connection keeps writes serialized on the file.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLStore{db: db, dialect: d}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM kv WHERE name=?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return []byte(data), true, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.dialect.upsert,
		key, string(value), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
