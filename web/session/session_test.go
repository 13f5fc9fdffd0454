package session

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	t.Setenv("BASE_URL", "")
	opts := Options(3600)
	assert.Equal(t, "/", opts.Path)
	assert.Equal(t, 3600, opts.MaxAge)
	assert.True(t, opts.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, opts.SameSite)
	assert.False(t, opts.Secure)

	t.Setenv("BASE_URL", "https://secrets.example.com/")
	opts = Options(-1)
	assert.Equal(t, -1, opts.MaxAge)
	assert.True(t, opts.Secure)
	assert.Equal(t, http.SameSiteLaxMode, opts.SameSite)
}
