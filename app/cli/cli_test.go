package cli

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"libraryapi/config"
	userrepo "libraryapi/repository/user"
	"libraryapi/util/database"
	"libraryapi/util/hash"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestCreateAdmin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DATABASE_URL", path)
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("LOG_LEVEL", "error")

	require.NoError(t, run(t, "migrate", "up"))
	require.NoError(t, run(t, "create-admin", "--name", "Head Librarian", "--email", "Head@Library.test", "--password", "s3cretpass"))
	require.Error(t, run(t, "create-admin", "--email", "head@library.test", "--password", "s3cretpass"))

	ctx := context.Background()
	db, err := database.New(ctx, database.Options{Driver: database.DriverSQLite, DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	u, err := userrepo.New(db).ByEmail(ctx, "head@library.test")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, "Head Librarian", u.Name)
	require.EqualValues(t, "admin", u.Role)
	require.True(t, hash.Check(u.PasswordHash, "s3cretpass"))
}

func TestMigrateRejectsBadConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("JWT_SECRET", "cli-secret")
	require.Error(t, run(t, "migrate", "up"))
}

func TestWarnDevSecret(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	var buf bytes.Buffer
	warnDevSecret(slog.New(slog.NewTextHandler(&buf, nil)), cfg)
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "public dev secret")

	buf.Reset()
	warnDevSecret(slog.New(slog.NewTextHandler(&buf, nil)), config.App{JWTSecret: "real-secret"})
	require.Empty(t, buf.String())
}
