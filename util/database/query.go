package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// All runs ds and scans every row into dest (a pointer to a slice).
func (d *DB) All(ctx context.Context, dest any, ds sqlBuilder) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, d.Q(ctx), dest, query, args...)
}

// One scans a single row into dest; found is false on no rows.
func (d *DB) One(ctx context.Context, dest any, ds sqlBuilder) (found bool, err error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return false, err
	}
	err = sqlx.GetContext(ctx, d.Q(ctx), dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Run runs an update or delete and returns the affected row count.
func (d *DB) Run(ctx context.Context, ds sqlBuilder) (int64, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := d.Q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertSQL renders an insert that yields the new id: RETURNING on
// Postgres, LastInsertId on SQLite.
func (d *DB) InsertSQL(ds *goqu.InsertDataset) (string, []any, error) {
	if d.dialect == "postgres" {
		ds = ds.Returning(goqu.C("id"))
	}
	return ds.ToSQL()
}

// InsertID runs an insert and returns the generated id.
func (d *DB) InsertID(ctx context.Context, ds *goqu.InsertDataset) (int64, error) {
	query, args, err := d.InsertSQL(ds)
	if err != nil {
		return 0, err
	}
	if d.dialect == "postgres" {
		var id int64
		if err := d.Q(ctx).QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := d.Q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
