package service

import (
	"context"
	"sync"
	"testing"

	"github.com/secretsweb/secrets/database"
	"github.com/secretsweb/secrets/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenCheckUser(t *testing.T) {
	setup(t)
	ctx := context.Background()
	service := UserService{}

	user, err := service.Register(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.GetUsername())
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	found, err := service.CheckUser(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.Id, found.Id)

	_, err = service.CheckUser(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.CheckUser(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	setup(t)
	ctx := context.Background()
	service := UserService{}

	_, err := service.Register(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrEmptyCredentials)
	_, err = service.Register(ctx, "   ", "pw")
	assert.ErrorIs(t, err, ErrEmptyCredentials)
	_, err = service.Register(ctx, "alice@example.com", "")
	assert.ErrorIs(t, err, ErrEmptyCredentials)

	_, err = service.Register(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	_, err = service.Register(ctx, "alice@example.com", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// the original password still works
	_, err = service.CheckUser(ctx, "alice@example.com", "pw")
	assert.NoError(t, err)
}

func TestFindOrCreateExternal(t *testing.T) {
	setup(t)
	ctx := context.Background()
	service := UserService{}

	first, err := service.FindOrCreateExternal(ctx, model.Google, "g-42")
	require.NoError(t, err)
	assert.Equal(t, "g-42", first.ExternalId(model.Google))

	again, err := service.FindOrCreateExternal(ctx, model.Google, "g-42")
	require.NoError(t, err)
	assert.Equal(t, first.Id, again.Id)

	other, err := service.FindOrCreateExternal(ctx, model.Facebook, "g-42")
	require.NoError(t, err)
	assert.NotEqual(t, first.Id, other.Id)

	stats, err := database.GetStore().Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Users)

	_, err = service.FindOrCreateExternal(ctx, model.Google, "")
	assert.Error(t, err)
}

func TestFindOrCreateExternalConcurrent(t *testing.T) {
	setup(t)
	ctx := context.Background()
	service := UserService{}

	const n = 8
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := service.FindOrCreateExternal(ctx, model.Facebook, "fb-7")
			errs[i] = err
			if user != nil {
				ids[i] = user.Id
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	stats, err := database.GetStore().Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)
}
