package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/secretsweb/secrets/database"
	"github.com/secretsweb/secrets/database/model"
	"github.com/secretsweb/secrets/util/crypto"
)

var (
	ErrEmptyCredentials   = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("wrong username or password")
	ErrUsernameTaken      = errors.New("username already registered")
)

// UserService registers and authenticates users.
type UserService struct{}

// Register creates a local user with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, username string, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     &username,
		PasswordHash: hash,
	}
	err = database.GetStore().Create(ctx, user)
	if database.IsDuplicate(err) {
		return nil, fmt.Errorf("register %q: %w", username, ErrUsernameTaken)
	} else if err != nil {
		return nil, fmt.Errorf("register %q: %w", username, err)
	}
	return user, nil
}

// CheckUser verifies a local credential pair and returns the matching user.
func (s *UserService) CheckUser(ctx context.Context, username string, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	user, err := database.GetStore().GetByUsername(ctx, username)
	if database.IsNotFound(err) {
		crypto.CheckPasswordHash("", password)
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("check user %q: %w", username, err)
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindOrCreateExternal resolves the user holding externalId at provider,
// creating one on first sign-in. A concurrent first sign-in that wins the
// insert is picked up by the second lookup.
func (s *UserService) FindOrCreateExternal(ctx context.Context, provider model.Provider, externalId string) (*model.User, error) {
	if externalId == "" {
		return nil, fmt.Errorf("%s sign-in without an account id", provider)
	}
	store := database.GetStore()

	user, err := store.GetByExternalID(ctx, provider, externalId)
	if err == nil {
		return user, nil
	} else if !database.IsNotFound(err) {
		return nil, err
	}

	user = &model.User{}
	user.SetExternalId(provider, externalId)
	err = store.Create(ctx, user)
	if database.IsDuplicate(err) {
		return store.GetByExternalID(ctx, provider, externalId)
	} else if err != nil {
		return nil, err
	}
	return user, nil
}
