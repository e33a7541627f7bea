package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pable/cricanalyze/internal/dataset"
	"github.com/pable/cricanalyze/internal/model"
)

// DatasetInfo describes one imported dataset.
type DatasetInfo struct {
	Name       string
	Source     string
	Rows       int
	Columns    int
	ImportedAt time.Time
}

// YearSummary is the per-season outcome breakdown of a dataset.
type YearSummary struct {
	Year    int
	Innings int
	Chased  int
	Defend  int
	Unknown int
}

// ImportDataset stores ds under name, replacing any dataset already stored
// under that name.
func (db *DB) ImportDataset(name, source string, ds *model.Dataset) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteDataset(tx, name); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO datasets(name, source, row_count, imported_at) VALUES (?, ?, ?, ?)`,
		name, source, ds.Len(), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}

	for i, h := range ds.Header {
		if _, err := tx.Exec(`INSERT INTO dataset_columns(dataset, position, name) VALUES (?, ?, ?)`, name, i, h); err != nil {
			return fmt.Errorf("insert column %q: %w", h, err)
		}
	}

	inningsStmt, err := tx.Prepare(`INSERT INTO innings(dataset, row_num, year, result) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer inningsStmt.Close()

	fieldStmt, err := tx.Prepare(`INSERT INTO innings_fields(dataset, row_num, key, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer fieldStmt.Close()

	for i, rec := range ds.Records {
		var year sql.NullInt64
		if y, ok := rec.Year(); ok {
			year = sql.NullInt64{Int64: int64(y), Valid: true}
		}
		result, _ := rec.Get(model.KeyResult)
		if _, err := inningsStmt.Exec(name, i, year, result); err != nil {
			return fmt.Errorf("insert innings row %d: %w", i, err)
		}
		for k, v := range rec {
			if _, err := fieldStmt.Exec(name, i, k, v); err != nil {
				return fmt.Errorf("insert field %q of row %d: %w", k, i, err)
			}
		}
	}
	return tx.Commit()
}

// LoadDataset reads a stored dataset back in import order. It returns nil
// when no dataset has that name.
func (db *DB) LoadDataset(name string) (*model.Dataset, error) {
	var n int
	err := db.conn.QueryRow(`SELECT row_count FROM datasets WHERE name = ?`, name).Scan(&n)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ds := &model.Dataset{Records: make([]model.Record, n)}
	for i := range ds.Records {
		ds.Records[i] = model.Record{}
	}

	cols, err := db.conn.Query(`SELECT name FROM dataset_columns WHERE dataset = ? ORDER BY position`, name)
	if err != nil {
		return nil, err
	}
	defer cols.Close()
	for cols.Next() {
		var h string
		if err := cols.Scan(&h); err != nil {
			return nil, err
		}
		ds.Header = append(ds.Header, h)
	}
	if err := cols.Err(); err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(`SELECT row_num, key, value FROM innings_fields WHERE dataset = ?`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			i      int
			k, val string
		)
		if err := rows.Scan(&i, &k, &val); err != nil {
			return nil, err
		}
		if i < 0 || i >= n {
			return nil, fmt.Errorf("dataset %s: row %d out of range", name, i)
		}
		ds.Records[i][k] = val
	}
	return ds, rows.Err()
}

// ListDatasets returns all stored datasets, newest import first.
func (db *DB) ListDatasets() ([]DatasetInfo, error) {
	rows, err := db.conn.Query(`
		SELECT d.name, d.source, d.row_count, d.imported_at,
		       (SELECT COUNT(1) FROM dataset_columns c WHERE c.dataset = d.name)
		FROM datasets d ORDER BY d.imported_at DESC, d.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		var (
			info DatasetInfo
			at   string
		)
		if err := rows.Scan(&info.Name, &info.Source, &info.Rows, &at, &info.Columns); err != nil {
			return nil, err
		}
		info.ImportedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, info)
	}
	return out, rows.Err()
}

// DropDataset deletes a dataset. It reports whether one existed.
func (db *DB) DropDataset(name string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(1) FROM datasets WHERE name = ?`, name).Scan(&count); err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	if err := deleteDataset(tx, name); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// deleteDataset removes child rows explicitly so the result does not depend
// on the connection having foreign keys enabled.
func deleteDataset(tx *sql.Tx, name string) error {
	for _, table := range []string{"innings_fields", "innings", "dataset_columns", "datasets"} {
		col := "dataset"
		if table == "datasets" {
			col = "name"
		}
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, col), name); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}

// GetOverview returns per-season innings counts and outcome tallies for a
// dataset, oldest season first. Rows without a readable year are left out.
func (db *DB) GetOverview(name string) ([]YearSummary, error) {
	rows, err := db.conn.Query(`
		SELECT year,
		       COUNT(1),
		       SUM(CASE WHEN LOWER(TRIM(result)) = 'chased' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN LOWER(TRIM(result)) = 'defend' THEN 1 ELSE 0 END)
		FROM innings
		WHERE dataset = ? AND year IS NOT NULL
		GROUP BY year ORDER BY year`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []YearSummary
	for rows.Next() {
		var s YearSummary
		if err := rows.Scan(&s.Year, &s.Innings, &s.Chased, &s.Defend); err != nil {
			return nil, err
		}
		s.Unknown = s.Innings - s.Chased - s.Defend
		out = append(out, s)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary read query and returns its column names and
// rows rendered as text. NULL renders as an empty string.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// Fetcher returns a dataset.Fetcher that reads name from the cache.
func (db *DB) Fetcher(name string) dataset.Fetcher {
	return dataset.FetcherFunc{
		Name: "db:" + name,
		Fn: func(_ context.Context) (*model.Dataset, error) {
			ds, err := db.LoadDataset(name)
			if err != nil {
				return nil, &dataset.LoadError{Stage: dataset.StageFetch, Err: err}
			}
			if ds == nil {
				return nil, &dataset.LoadError{Stage: dataset.StageFetch, Err: fmt.Errorf("no dataset named %q; run 'cricanalyze import' first", name)}
			}
			return ds, nil
		},
	}
}

// IsStoreSource reports whether src names a cached dataset ("db:<name>") and
// returns the name.
func IsStoreSource(src string) (string, bool) {
	name, ok := strings.CutPrefix(src, "db:")
	return name, ok && name != ""
}
