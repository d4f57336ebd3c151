package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverPgx    = "pgx"
	DriverPQ     = "postgres"
	DriverSQLite = "sqlite3"
)

// sqliteUnicode is go-sqlite3 with LOWER and UPPER folding all of Unicode,
// as Postgres does, instead of ASCII only.
const sqliteUnicode = "sqlite3_unicode"

func init() {
	sql.Register(sqliteUnicode, &sqlite3.SQLiteDriver{
		ConnectHook: func(c *sqlite3.SQLiteConn) error {
			if err := c.RegisterFunc("lower", foldCase(strings.ToLower), true); err != nil {
				return err
			}
			return c.RegisterFunc("upper", foldCase(strings.ToUpper), true)
		},
	})
}

// foldCase maps text through fold and passes NULL and numbers through.
func foldCase(fold func(string) string) func(any) any {
	return func(v any) any {
		switch s := v.(type) {
		case string:
			return fold(s)
		case []byte:
			if s == nil {
				return nil
			}
			return fold(string(s))
		}
		return v
	}
}

// Queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type Queryer = sqlx.ExtContext

type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB owns the connection pool and knows which SQL dialect to build for.
type DB struct {
	*sqlx.DB
	pool    *pgxpool.Pool
	dialect string
	builder goqu.DialectWrapper
}

func New(ctx context.Context, o Options) (*DB, error) {
	var (
		sdb     *sqlx.DB
		pool    *pgxpool.Pool
		dialect string
		err     error
	)
	switch o.Driver {
	case DriverPgx, "":
		cfg, perr := pgxpool.ParseConfig(o.DSN)
		if perr != nil {
			return nil, perr
		}
		if o.MaxOpenConns > 0 {
			cfg.MaxConns = int32(o.MaxOpenConns)
		}
		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		sdb = sqlx.NewDb(stdlib.OpenDBFromPool(pool), DriverPgx)
		dialect = "postgres"
	case DriverPQ:
		sdb, err = sqlx.Open(DriverPQ, o.DSN)
		if err != nil {
			return nil, err
		}
		dialect = "postgres"
	case DriverSQLite:
		raw, oerr := sql.Open(sqliteUnicode, sqliteDSN(o.DSN))
		if oerr != nil {
			return nil, oerr
		}
		sdb = sqlx.NewDb(raw, DriverSQLite)
		// one writer; transactions queue behind each other
		o.MaxOpenConns = 1
		dialect = "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported db driver %q", o.Driver)
	}

	if o.MaxOpenConns > 0 {
		sdb.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sdb.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetime > 0 {
		sdb.SetConnMaxLifetime(o.ConnMaxLifetime)
	}
	if err := sdb.PingContext(ctx); err != nil {
		_ = sdb.Close()
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}
	return &DB{DB: sdb, pool: pool, dialect: dialect, builder: goqu.Dialect(dialect)}, nil
}

// Builder returns a DB without a connection that only renders SQL for
// dialect ("postgres" or "sqlite3"). Running a query on it panics.
func Builder(dialect string) *DB {
	return &DB{dialect: dialect, builder: goqu.Dialect(dialect)}
}

func (d *DB) Close() error {
	var err error
	if d.DB != nil {
		err = d.DB.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}

// Dialect is the goqu dialect name: "postgres" or "sqlite3".
func (d *DB) Dialect() string { return d.dialect }

func (d *DB) From(table ...any) *goqu.SelectDataset { return d.builder.From(table...).Prepared(true) }
func (d *DB) Insert(table any) *goqu.InsertDataset  { return d.builder.Insert(table).Prepared(true) }
func (d *DB) Update(table any) *goqu.UpdateDataset  { return d.builder.Update(table).Prepared(true) }
func (d *DB) Delete(table any) *goqu.DeleteDataset  { return d.builder.Delete(table).Prepared(true) }

func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "library.db"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=1&_busy_timeout=5000&_txlock=immediate"
}
