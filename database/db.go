// Package database opens the user store selected by configuration and keeps
// the process-wide handle used by the services.
package database

import (
	"context"
	"fmt"

	"github.com/secretsweb/secrets/config"
)

var store Store

// InitDB opens the store described by dbConfig and makes it the global store.
func InitDB(dbConfig *config.DatabaseConfig) error {
	if err := dbConfig.ValidateConfig(); err != nil {
		return err
	}

	var (
		s   Store
		err error
	)
	switch {
	case dbConfig.IsSQLite():
		if err := dbConfig.EnsureDirectoryExists(); err != nil {
			return err
		}
		s, err = openSQLite(dbConfig.SQLite.Path, config.IsDebug())
	case dbConfig.IsMongoDB():
		s, err = openMongo(dbConfig.Mongo.URI, dbConfig.Mongo.Database)
	default:
		return fmt.Errorf("unsupported database type: %s", dbConfig.Type)
	}
	if err != nil {
		return fmt.Errorf("open %s store: %w", dbConfig.Type, err)
	}

	store = s
	return nil
}

// CloseDB closes the global store, if open.
func CloseDB() error {
	if store == nil {
		return nil
	}
	err := store.Close(context.Background())
	store = nil
	return err
}

func GetStore() Store {
	return store
}
