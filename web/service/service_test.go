package service

import (
	"path/filepath"
	"testing"

	"github.com/secretsweb/secrets/config"
	"github.com/secretsweb/secrets/database"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	dbConfig := &config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	}
	require.NoError(t, database.InitDB(dbConfig))
	t.Cleanup(func() { database.CloseDB() })
}
