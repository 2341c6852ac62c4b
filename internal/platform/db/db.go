package db

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Open connects to PostgreSQL through the pgx stdlib driver.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "openDB: open postgres database")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "openDB: verify postgres connection")
	}

	return db, nil
}

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "openDB: open sqlite database %q", path)
	}

	// A single connection keeps writers from contending for the file lock.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "openDB: exec %s", pragma)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, eris.Wrapf(err, "openDB: verify sqlite connection to %q", path)
	}

	return db, nil
}
