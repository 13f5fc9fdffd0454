package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/secretsweb/secrets/database/model"
)

var (
	// ErrNotFound is returned when no user matches a lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a write would violate a unique index.
	ErrDuplicate = errors.New("user already exists")
)

// Stats summarises the user collection.
type Stats struct {
	Users   int64
	Secrets int64
}

// Store persists users. Implementations map driver errors to ErrNotFound and
// ErrDuplicate.
type Store interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByExternalID(ctx context.Context, provider model.Provider, externalId string) (*model.User, error)
	UpdateSecret(ctx context.Context, id string, secret string) error
	ListWithSecrets(ctx context.Context) ([]*model.User, error)
	Stats(ctx context.Context) (Stats, error)
	Close(ctx context.Context) error
}

// Checkpointer is implemented by stores that keep a write-ahead log.
type Checkpointer interface {
	Checkpoint() error
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

func externalColumn(provider model.Provider) (string, error) {
	switch provider {
	case model.Google:
		return "google_id", nil
	case model.Facebook:
		return "facebook_id", nil
	}
	return "", errors.New("unknown provider: " + string(provider))
}

// prepareNew assigns an id and timestamps to a user about to be inserted.
func prepareNew(user *model.User) {
	if user.Id == "" {
		user.Id = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
}
