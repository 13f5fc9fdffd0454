package service

import (
	"context"
	"errors"
	"strings"

	"github.com/secretsweb/secrets/database"
	"github.com/secretsweb/secrets/database/model"
)

var ErrEmptySecret = errors.New("secret can not be empty")

// SecretService reads and writes the secret attached to each user.
type SecretService struct{}

// GetUsersWithSecrets returns every user that has submitted a secret.
func (s *SecretService) GetUsersWithSecrets(ctx context.Context) ([]*model.User, error) {
	return database.GetStore().ListWithSecrets(ctx)
}

// SubmitSecret overwrites the secret of the given user.
func (s *SecretService) SubmitSecret(ctx context.Context, userId string, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return ErrEmptySecret
	}
	return database.GetStore().UpdateSecret(ctx, userId, secret)
}

func (s *SecretService) GetStats(ctx context.Context) (database.Stats, error) {
	return database.GetStore().Stats(ctx)
}
