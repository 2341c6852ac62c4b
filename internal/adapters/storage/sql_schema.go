package storage

import (
	"database/sql"

	"github.com/rotisserie/eris"
)

// InitSchema creates the package table and its ordering index.
// Works unchanged on SQLite and PostgreSQL.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return eris.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return eris.Wrap(err, "init schema: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	createPackagesQuery := `
	CREATE TABLE IF NOT EXISTS tracked_packages (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		doc TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_tracked_packages_position
	ON tracked_packages(position);
	`

	statements := []string{
		createPackagesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return eris.Wrapf(err, "init schema: exec statement #%d", i+1)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "init schema: commit tx")
	}

	return nil
}
