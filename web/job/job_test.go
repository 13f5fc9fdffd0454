package job

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/secretsweb/secrets/config"
	"github.com/secretsweb/secrets/database"
	"github.com/secretsweb/secrets/database/model"

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

func TestJobsRun(t *testing.T) {
	setup(t)

	username := "alice@example.com"
	require.NoError(t, database.GetStore().Create(context.Background(), &model.User{Username: &username}))

	require.NotPanics(t, NewStatsJob().Run)
	require.NotPanics(t, NewCheckpointJob().Run)
}

func TestJobsWithoutDatabase(t *testing.T) {
	require.Nil(t, database.GetStore())

	require.NotPanics(t, NewStatsJob().Run)
	require.NotPanics(t, NewCheckpointJob().Run)
}
