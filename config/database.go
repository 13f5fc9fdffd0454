package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypeSQLite  DatabaseType = "sqlite"
	DatabaseTypeMongoDB DatabaseType = "mongodb"
)

const defaultMongoDatabase = "userDB"

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type   DatabaseType
	SQLite SQLiteConfig
	Mongo  MongoConfig
}

// SQLiteConfig holds SQLite specific configuration
type SQLiteConfig struct {
	Path string
}

// MongoConfig holds MongoDB specific configuration
type MongoConfig struct {
	URI      string
	Database string
}

// GetDatabaseConfig builds the database configuration from DATABASE_URL.
// A mongodb:// or mongodb+srv:// URL selects MongoDB, anything else is taken
// as a SQLite file path.
func GetDatabaseConfig() (*DatabaseConfig, error) {
	return ParseDatabaseURL(os.Getenv("DATABASE_URL"))
}

// ParseDatabaseURL turns a connection string into a DatabaseConfig.
func ParseDatabaseURL(raw string) (*DatabaseConfig, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &DatabaseConfig{
			Type:   DatabaseTypeSQLite,
			SQLite: SQLiteConfig{Path: GetDBPath()},
		}, nil
	}

	if !strings.HasPrefix(raw, "mongodb://") && !strings.HasPrefix(raw, "mongodb+srv://") {
		return &DatabaseConfig{
			Type:   DatabaseTypeSQLite,
			SQLite: SQLiteConfig{Path: raw},
		}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid mongodb url: %w", err)
	}
	database := strings.Trim(u.Path, "/")
	if database == "" {
		database = defaultMongoDatabase
	}
	return &DatabaseConfig{
		Type: DatabaseTypeMongoDB,
		Mongo: MongoConfig{
			URI:      raw,
			Database: database,
		},
	}, nil
}

// ValidateConfig validates the database configuration
func (c *DatabaseConfig) ValidateConfig() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLite path cannot be empty")
		}
	case DatabaseTypeMongoDB:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MongoDB uri cannot be empty")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// IsMongoDB returns true if the database type is MongoDB
func (c *DatabaseConfig) IsMongoDB() bool {
	return c.Type == DatabaseTypeMongoDB
}

// IsSQLite returns true if the database type is SQLite
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if c.Type == DatabaseTypeSQLite {
		dir := filepath.Dir(c.SQLite.Path)
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
