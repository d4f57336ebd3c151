package loanrepo

import (
	"strings"
	"testing"
	"time"

	"libraryapi/model"
	"libraryapi/repository/store"
	"libraryapi/util/database"

	"github.com/stretchr/testify/require"
)

func builder(dialect string) *repo {
	db := database.Builder(dialect)
	return &repo{Table: store.New[model.Loan](db, "loans"), db: db}
}

// where returns the WHERE clause of a rendered statement.
func where(t *testing.T, sql string) string {
	t.Helper()
	_, w, ok := strings.Cut(sql, " WHERE ")
	require.True(t, ok, sql)
	return w
}

func TestPostgresBorrowSQL(t *testing.T) {
	r := builder("postgres")

	sql, args, err := r.lockUserDS(7).ToSQL()
	require.NoError(t, err)
	require.Contains(t, sql, `SELECT 1 FROM "users"`)
	require.Contains(t, sql, `WHERE ("id" = $1) FOR UPDATE`)
	require.Len(t, args, 1)
	require.EqualValues(t, 7, args[0])

	sql, args, err = r.takeCopyDS(11).ToSQL()
	require.NoError(t, err)
	require.Contains(t, sql, `UPDATE "books" SET "available_copies"=available_copies - 1`)
	require.Equal(t, `(("id" = $1) AND ("available_copies" > $2))`, where(t, sql))
	require.Len(t, args, 2)
	require.EqualValues(t, 11, args[0])
	require.EqualValues(t, 0, args[1])

	day := model.NewDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	ds := r.insertDS(model.Loan{BookID: 11, UserID: 7, LoanDate: day, DueDate: day.AddDays(14)})
	sql, args, err = r.db.InsertSQL(ds)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(sql, `INSERT INTO "loans"`), sql)
	require.True(t, strings.HasSuffix(sql, ` RETURNING "id"`), sql)
	require.Contains(t, sql, "$6")
	require.NotContains(t, sql, "?")
	require.Len(t, args, 6)
}

func TestPostgresReturnExtendSQL(t *testing.T) {
	r := builder("postgres")
	day := model.NewDate(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))

	sql, args, err := r.markReturnedDS(5, day).ToSQL()
	require.NoError(t, err)
	require.Contains(t, sql, `UPDATE "loans" SET`)
	require.Equal(t, `(("id" = $3) AND ("status" = $4))`, where(t, sql))
	require.Len(t, args, 4)
	require.EqualValues(t, "borrowed", args[3])

	sql, _, err = r.releaseCopyDS(11).ToSQL()
	require.NoError(t, err)
	require.Contains(t, sql, `"available_copies"=available_copies + 1`)
	require.Equal(t, `(("id" = $1) AND ("available_copies" < "total_copies"))`, where(t, sql))

	sql, args, err = r.extendDS(5, day.AddDays(14), 2).ToSQL()
	require.NoError(t, err)
	require.Contains(t, sql, `"extensions"=extensions + 1`)
	w := where(t, sql)
	require.Contains(t, w, `("status" = $`)
	require.Contains(t, w, `("extensions" < $`)
	require.EqualValues(t, 2, args[len(args)-1])
}

func TestSQLiteInsertSQL(t *testing.T) {
	r := builder("sqlite3")
	day := model.NewDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	sql, args, err := r.db.InsertSQL(r.insertDS(model.Loan{BookID: 1, UserID: 2, LoanDate: day, DueDate: day}))
	require.NoError(t, err)
	require.NotContains(t, sql, "RETURNING")
	require.Contains(t, sql, "?")
	require.Len(t, args, 6)
}
