package database

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Open opens a SQLite database at the given path and runs migrations.
// ":memory:" opens a private in-memory database pinned to one connection.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?"+pragmas)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dbPath == ":memory:" {
		// Every new connection to :memory: is a fresh, empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// OpenRaw opens the database without applying migrations. Used by the
// migrate command, which drives goose itself.
func OpenRaw(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?"+pragmas)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// MigrateUp applies every pending migration.
func MigrateUp(db *sql.DB) error {
	return withGoose(func() error {
		if err := goose.Up(db, "migrations"); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	})
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *sql.DB) error {
	return withGoose(func() error {
		if err := goose.Down(db, "migrations"); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	})
}

// MigrationStatus prints the applied/pending state of each migration.
func MigrationStatus(db *sql.DB) error {
	return withGoose(func() error {
		if err := goose.Status(db, "migrations"); err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		return nil
	})
}

// Version returns the current schema version.
func Version(db *sql.DB) (int64, error) {
	var v int64
	err := withGoose(func() error {
		var err error
		v, err = goose.GetDBVersion(db)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return v, nil
}

func withGoose(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return fn()
}
