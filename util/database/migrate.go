package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	stdfs "io/fs"
	"path"
	"regexp"
	"sort"
)

// Versioned scripts live under migrations/<dialect>/ as
//
//	0001_name.up.sql / 0001_name.down.sql
//
//go:embed migrations
var migrationsFS embed.FS

type migration struct {
	version  int
	name     string
	upFile   string
	downFile string
}

var migFileRe = regexp.MustCompile(`^([0-9]{4})_(.+)\.(up|down)\.sql$`)

// MigrateUp applies every migration not yet recorded in schema_migrations
// and returns how many ran.
func (d *DB) MigrateUp(ctx context.Context) (int, error) {
	migs, err := d.loadMigrations()
	if err != nil {
		return 0, err
	}
	applied, err := d.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}
	versions := make([]int, 0, len(migs))
	for v := range migs {
		versions = append(versions, v)
	}
	sort.Ints(versions)

	n := 0
	for _, v := range versions {
		if applied[v] {
			continue
		}
		m := migs[v]
		if m.upFile == "" {
			return n, fmt.Errorf("missing up migration for version %04d", v)
		}
		if err := d.runMigration(ctx, m.upFile, `INSERT INTO schema_migrations (version) VALUES (?)`, v); err != nil {
			return n, fmt.Errorf("migration %04d_%s failed: %w", v, m.name, err)
		}
		n++
	}
	return n, nil
}

// RollbackLast reverts the most recently applied migration. It returns the
// reverted version, or 0 when nothing was applied.
func (d *DB) RollbackLast(ctx context.Context) (int, error) {
	if err := d.ensureMigrationsTable(ctx); err != nil {
		return 0, err
	}
	var version int
	err := d.QueryRowxContext(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	migs, err := d.loadMigrations()
	if err != nil {
		return 0, err
	}
	m, ok := migs[version]
	if !ok || m.downFile == "" {
		return 0, fmt.Errorf("no down migration found for version %d", version)
	}
	if err := d.runMigration(ctx, m.downFile, `DELETE FROM schema_migrations WHERE version = ?`, version); err != nil {
		return 0, err
	}
	return version, nil
}

func (d *DB) runMigration(ctx context.Context, file, bookkeeping string, version int) error {
	text, err := migrationsFS.ReadFile(file)
	if err != nil {
		return err
	}
	return d.WithTx(ctx, func(ctx context.Context) error {
		q := d.Q(ctx)
		if _, err := q.ExecContext(ctx, string(text)); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx, d.Rebind(bookkeeping), version)
		return err
	})
}

func (d *DB) loadMigrations() (map[int]migration, error) {
	dir := path.Join("migrations", d.dialect)
	list, err := stdfs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("no migrations for dialect %s: %w", d.dialect, err)
	}
	entries := map[int]migration{}
	for _, de := range list {
		if de.IsDir() {
			continue
		}
		m := migFileRe.FindStringSubmatch(de.Name())
		if m == nil {
			continue
		}
		var ver int
		if _, err := fmt.Sscanf(m[1], "%04d", &ver); err != nil {
			continue
		}
		item := entries[ver]
		item.version = ver
		item.name = m[2]
		p := path.Join(dir, de.Name())
		if m[3] == "up" {
			item.upFile = p
		} else {
			item.downFile = p
		}
		entries[ver] = item
	}
	return entries, nil
}

func (d *DB) ensureMigrationsTable(ctx context.Context) error {
	_, err := d.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
        version    INTEGER PRIMARY KEY,
        applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`)
	return err
}

func (d *DB) appliedVersions(ctx context.Context) (map[int]bool, error) {
	if err := d.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}
	var versions []int
	if err := d.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations`); err != nil {
		return nil, err
	}
	got := make(map[int]bool, len(versions))
	for _, v := range versions {
		got[v] = true
	}
	return got, nil
}
