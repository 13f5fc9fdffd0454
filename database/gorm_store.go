package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/secretsweb/secrets/database/model"
	"github.com/secretsweb/secrets/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type gormStore struct {
	db *gorm.DB
}

func openSQLite(path string, debug bool) (*gormStore, error) {
	var gormLogger gormlogger.Interface
	if debug {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// a single connection serializes writers instead of failing them with SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)
	if _, err = sqlDB.Exec("PRAGMA temp_store = MEMORY;"); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.User{}); err != nil {
		return nil, err
	}
	return &gormStore{db: db}, nil
}

func (s *gormStore) Create(ctx context.Context, user *model.User) error {
	prepareNew(user)
	return translateGormError(s.db.WithContext(ctx).Create(user).Error)
}

func (s *gormStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *gormStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *gormStore) GetByExternalID(ctx context.Context, provider model.Provider, externalId string) (*model.User, error) {
	column, err := externalColumn(provider)
	if err != nil {
		return nil, err
	}
	return s.first(ctx, column+" = ?", externalId)
}

func (s *gormStore) first(ctx context.Context, query string, args ...any) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).Model(model.User{}).
		Where(query, args...).
		First(user).
		Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return user, nil
}

func (s *gormStore) UpdateSecret(ctx context.Context, id string, secret string) error {
	result := s.db.WithContext(ctx).Model(model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"secret": secret, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return translateGormError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListWithSecrets(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := s.db.WithContext(ctx).Model(model.User{}).
		Where("secret IS NOT NULL").
		Order("updated_at").
		Find(&users).
		Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *gormStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	db := s.db.WithContext(ctx).Model(model.User{})
	if err := db.Count(&stats.Users).Error; err != nil {
		return stats, err
	}
	err := s.db.WithContext(ctx).Model(model.User{}).
		Where("secret IS NOT NULL").
		Count(&stats.Secrets).
		Error
	return stats, err
}

// Checkpoint flushes the WAL into the main database file.
func (s *gormStore) Checkpoint() error {
	return s.db.Exec("PRAGMA wal_checkpoint;").Error
}

func (s *gormStore) Close(ctx context.Context) error {
	if err := s.Checkpoint(); err != nil {
		logger.Warning("error executing checkpoint:", err)
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return ErrDuplicate
	}
	return err
}
