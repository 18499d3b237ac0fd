// Package bunstore implements storage.Table on top of a bun database,
// giving the core a SQL backend (SQLite or Postgres) behind the same four
// primitives the in-memory store offers.
package bunstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	// Database drivers for the openers below.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/GuRuGuMaWaRu/jobprep/storage"
)

// TableOptions maps an entity type onto its SQL table.
type TableOptions struct {
	// Table is the SQL table name. Required.
	Table string
	// IDColumn is the primary key column. Required.
	IDColumn string
	// OwnerColumn is the column Filter.OwnerID matches against; empty if the
	// table has no owner column.
	OwnerColumn string
	// ParentColumn is the column Filter.ParentID matches against; empty if
	// the table has no parent column.
	ParentColumn string
	// OrderBy is the ORDER BY expression for scans. Defaults to
	// "updated_at DESC".
	OrderBy string
}

// Table is a bun-backed storage.Table.
type Table[T any] struct {
	db   *bun.DB
	opts TableOptions
}

// NewTable creates a Table over db using the given mapping.
func NewTable[T any](db *bun.DB, opts TableOptions) *Table[T] {
	if opts.Table == "" || opts.IDColumn == "" {
		panic("bunstore: TableOptions.Table and IDColumn are required")
	}
	if opts.OrderBy == "" {
		opts.OrderBy = "updated_at DESC"
	}
	return &Table[T]{db: db, opts: opts}
}

// OpenSQLite opens a SQLite-backed bun database at path.
func OpenSQLite(path string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// OpenPostgres opens a Postgres-backed bun database from a connection
// string.
func OpenPostgres(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// Load implements storage.Table.
func (t *Table[T]) Load(ctx context.Context, id string) (T, bool, error) {
	var rec T
	err := t.db.NewSelect().
		Model(&rec).
		ModelTableExpr("? AS t", bun.Ident(t.opts.Table)).
		Where("? = ?", bun.Ident(t.opts.IDColumn), id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var zero T
			return zero, false, nil
		}
		var zero T
		return zero, false, err
	}
	return rec, true, nil
}

// LoadWhere implements storage.Table.
func (t *Table[T]) LoadWhere(ctx context.Context, f storage.Filter) ([]T, error) {
	recs := make([]T, 0)
	q := t.db.NewSelect().
		Model(&recs).
		ModelTableExpr("? AS t", bun.Ident(t.opts.Table))
	if f.OwnerID != "" && t.opts.OwnerColumn != "" {
		q = q.Where("? = ?", bun.Ident(t.opts.OwnerColumn), f.OwnerID)
	}
	if f.ParentID != "" && t.opts.ParentColumn != "" {
		q = q.Where("? = ?", bun.Ident(t.opts.ParentColumn), f.ParentID)
	}
	if err := q.OrderExpr(t.opts.OrderBy).Scan(ctx); err != nil {
		return nil, err
	}
	return recs, nil
}

// Insert implements storage.Table.
func (t *Table[T]) Insert(ctx context.Context, rec T) (T, error) {
	if _, err := t.db.NewInsert().Model(&rec).Exec(ctx); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Update implements storage.Table.
func (t *Table[T]) Update(ctx context.Context, id string, fields storage.Fields) (T, bool, error) {
	var zero T
	if len(fields) == 0 {
		return t.Load(ctx, id)
	}

	q := t.db.NewUpdate().
		Table(t.opts.Table).
		Where("? = ?", bun.Ident(t.opts.IDColumn), id)
	for col, val := range fields {
		q = q.Set("? = ?", bun.Ident(col), val)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return zero, false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return zero, false, err
	}
	if affected == 0 {
		return zero, false, nil
	}
	return t.Load(ctx, id)
}

// Delete implements storage.Table.
func (t *Table[T]) Delete(ctx context.Context, id string) (bool, error) {
	res, err := t.db.NewDelete().
		Table(t.opts.Table).
		Where("? = ?", bun.Ident(t.opts.IDColumn), id).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

var _ storage.Table[struct{}] = (*Table[struct{}])(nil)
