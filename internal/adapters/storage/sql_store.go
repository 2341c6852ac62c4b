package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/platform/obs"

	"github.com/rotisserie/eris"
)

// SQL implementation of the PackageStore port. Each record is one row
// holding its JSON document and list position. Queries use $n placeholders,
// which both the SQLite and PostgreSQL drivers accept.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) ReadAll(ctx context.Context) (_ []domain.Package, err error) {
	defer obs.Time(ctx, "sql.readAll")(&err)

	if s.DB == nil {
		return nil, eris.New("sql store: DB is nil")
	}

	query := `
	SELECT
		doc
	FROM tracked_packages
	ORDER BY position, id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sql store: query packages")
	}
	defer rows.Close()

	list := make([]domain.Package, 0, 64)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, eris.Wrap(err, "sql store: scan row")
		}

		var p domain.Package
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			return nil, eris.Wrap(err, "sql store: decode document")
		}
		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sql store: row iteration")
	}

	return list, nil
}

// WriteAll upserts every record and deletes the rows not in list, all in
// one transaction.
func (s *SQLStore) WriteAll(ctx context.Context, list []domain.Package) (err error) {
	defer obs.Time(ctx, "sql.writeAll")(&err)

	if s.DB == nil {
		return eris.New("sql store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sql store: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	upsert := `
	INSERT INTO tracked_packages (
		id,
		position,
		doc
	)
	VALUES ($1, $2, $3)
	ON CONFLICT (id) DO UPDATE SET
		position = excluded.position,
		doc = excluded.doc;
	`
	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return eris.Wrap(err, "sql store: prepare upsert")
	}
	defer stmt.Close()

	keep := make(map[string]struct{}, len(list))
	for i, p := range list {
		doc, err := json.Marshal(p)
		if err != nil {
			return eris.Wrapf(err, "sql store: encode id=%s", p.ID)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, i, string(doc)); err != nil {
			return eris.Wrapf(err, "sql store: upsert id=%s", p.ID)
		}
		keep[p.ID] = struct{}{}
	}

	stale, err := staleIDs(ctx, tx, keep)
	if err != nil {
		return err
	}

	del := `DELETE FROM tracked_packages WHERE id = $1;`
	for _, id := range stale {
		if _, err := tx.ExecContext(ctx, del, id); err != nil {
			return eris.Wrapf(err, "sql store: delete id=%s", id)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sql store: commit tx")
	}

	return nil
}

func staleIDs(ctx context.Context, tx *sql.Tx, keep map[string]struct{}) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM tracked_packages;`)
	if err != nil {
		return nil, eris.Wrap(err, "sql store: query ids")
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sql store: scan id")
		}
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sql store: id iteration")
	}

	return stale, nil
}
