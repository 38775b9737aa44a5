package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const dbFileName = "users.db"

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id               TEXT PRIMARY KEY,
	email            TEXT NOT NULL,
	password_hash    TEXT NOT NULL,
	first_name       TEXT,
	last_name        TEXT,
	phone            TEXT,
	membership_level TEXT NOT NULL DEFAULT 'Bronze',
	points           INTEGER NOT NULL DEFAULT 0,
	created_at       INTEGER NOT NULL
)`

// Uniqueness lives in a separate index so tables created before this schema
// gain the constraint during migration.
const createEmailIndex = `CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (email)`

// requiredColumns cannot be backfilled; a table missing any of them is not
// adoptable and triggers the fresh-schema rebuild.
var requiredColumns = []string{"id", "email", "password_hash", "created_at"}

// addedColumns are backfilled onto older tables with their documented
// defaults, existing rows included.
var addedColumns = []struct {
	name string
	ddl  string
}{
	{"first_name", `ALTER TABLE users ADD COLUMN first_name TEXT`},
	{"last_name", `ALTER TABLE users ADD COLUMN last_name TEXT`},
	{"phone", `ALTER TABLE users ADD COLUMN phone TEXT`},
	{"membership_level", `ALTER TABLE users ADD COLUMN membership_level TEXT NOT NULL DEFAULT 'Bronze'`},
	{"points", `ALTER TABLE users ADD COLUMN points INTEGER NOT NULL DEFAULT 0`},
}

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store owns the single SQLite file backing all account state.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the user database inside dir and brings its schema
// up to date. A file that cannot be opened or migrated is dropped and
// recreated empty; the degradation is logged, never fatal.
func Open(dir string, logger *logrus.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, dbFileName)

	sqlDB, err := openAndMigrate(path)
	if err != nil {
		if logger != nil {
			logger.WithError(err).WithField("path", path).
				Warn("user store unusable, rebuilding with a fresh schema")
		}
		for _, p := range []string{path, path + "-wal", path + "-shm"} {
			_ = os.Remove(p)
		}
		sqlDB, err = openAndMigrate(path)
		if err != nil {
			return nil, fmt.Errorf("rebuild user store: %w", err)
		}
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func openAndMigrate(path string) (*sql.DB, error) {
	dsn := "file:" + filepath.Clean(path) +
		"?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate users schema: %w", err)
	}
	return sqlDB, nil
}

// migrate creates the users table when absent and otherwise widens an older
// table column by column, preserving existing rows.
func migrate(sqlDB *sql.DB) error {
	if _, err := sqlDB.Exec(createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	existing, err := tableColumns(sqlDB, "users")
	if err != nil {
		return err
	}
	for _, col := range requiredColumns {
		if !existing[col] {
			return fmt.Errorf("users table is missing column %s", col)
		}
	}
	for _, col := range addedColumns {
		if existing[col.name] {
			continue
		}
		if _, err := sqlDB.Exec(col.ddl); err != nil {
			return fmt.Errorf("add column %s: %w", col.name, err)
		}
	}
	if _, err := sqlDB.Exec(createEmailIndex); err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func tableColumns(sqlDB *sql.DB, table string) (map[string]bool, error) {
	rows, err := sqlDB.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, fmt.Errorf("inspect %s schema: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols := map[string]bool{}
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan %s schema: %w", table, err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
