// Package testutil opens throwaway databases and seeds rows for tests.
package testutil

import (
	"context"
	"strings"
	"testing"

	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

// OpenDB opens a private in-memory SQLite database with all migrations applied.
func OpenDB(t *testing.T) *database.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()[:8]
	db, err := database.New(context.Background(), database.Options{
		Driver: database.DriverSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.MigrateUp(context.Background()); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func insert(t *testing.T, db *database.DB, table string, rec goqu.Record) int64 {
	t.Helper()
	id, err := db.InsertID(context.Background(), db.Insert(table).Rows(rec))
	if err != nil {
		t.Fatalf("seed %s: %v", table, err)
	}
	return id
}

func SeedAuthor(t *testing.T, db *database.DB, name string) int64 {
	t.Helper()
	return insert(t, db, "authors", goqu.Record{"name": name})
}

// SeedBook inserts a fully available book with the given number of copies.
func SeedBook(t *testing.T, db *database.DB, authorID int64, title, isbn string, copies int) int64 {
	t.Helper()
	return insert(t, db, "books", goqu.Record{
		"title":            title,
		"author_id":        authorID,
		"isbn":             isbn,
		"total_copies":     copies,
		"available_copies": copies,
	})
}

func SeedCategory(t *testing.T, db *database.DB, name string) int64 {
	t.Helper()
	return insert(t, db, "categories", goqu.Record{"name": name})
}

func SeedUser(t *testing.T, db *database.DB, name, email, role string) int64 {
	t.Helper()
	return insert(t, db, "users", goqu.Record{
		"name":          name,
		"email":         email,
		"password_hash": "x",
		"role":          role,
	})
}
