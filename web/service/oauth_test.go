package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/secretsweb/secrets/config"
	"github.com/secretsweb/secrets/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// newFakeProvider serves a token endpoint that accepts any code listed in
// profiles and a profile endpoint returning the JSON registered for it.
func newFakeProvider(t *testing.T, name model.Provider, profiles map[string]string) *OAuthProvider {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		code := r.PostForm.Get("code")
		if _, ok := profiles[code]; !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token-` + code + `","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer token-")
		profile, ok := profiles[code]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(profile))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &OAuthProvider{
		Name: name,
		Config: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Endpoint: oauth2.Endpoint{
				AuthURL:   srv.URL + "/authorize",
				TokenURL:  srv.URL + "/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: "http://localhost:4000/auth/" + string(name) + "/secrets",
		},
		ProfileURL: srv.URL + "/profile",
	}
}

func TestAuthCodeURL(t *testing.T) {
	s := NewOAuthService(newFakeProvider(t, model.Google, nil))

	raw, err := s.AuthCodeURL("google", "state-123")
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/authorize", u.Path)
	assert.Equal(t, "state-123", u.Query().Get("state"))
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.Equal(t, "http://localhost:4000/auth/google/secrets", u.Query().Get("redirect_uri"))

	_, err = s.AuthCodeURL("github", "state")
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.True(t, s.HasProvider("google"))
	assert.False(t, s.HasProvider("facebook"))
}

func TestIdentify(t *testing.T) {
	s := NewOAuthService(
		newFakeProvider(t, model.Google, map[string]string{
			"good":  `{"sub":"1094","name":"Alice"}`,
			"no-id": `{"name":"Nobody"}`,
		}),
		newFakeProvider(t, model.Facebook, map[string]string{
			"good": `{"id":"5511","name":"Bob"}`,
		}),
	)
	ctx := context.Background()

	profile, err := s.Identify(ctx, "google", "good")
	require.NoError(t, err)
	assert.Equal(t, &Profile{Provider: model.Google, Id: "1094", Name: "Alice"}, profile)

	profile, err = s.Identify(ctx, "facebook", "good")
	require.NoError(t, err)
	assert.Equal(t, &Profile{Provider: model.Facebook, Id: "5511", Name: "Bob"}, profile)

	_, err = s.Identify(ctx, "google", "no-id")
	assert.Error(t, err)

	_, err = s.Identify(ctx, "google", "bad-code")
	assert.Error(t, err)

	_, err = s.Identify(ctx, "github", "good")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestProvidersFromConfig(t *testing.T) {
	t.Setenv("BASE_URL", "https://secrets.example.com")
	t.Setenv("CLIENT_ID", "google-id")
	t.Setenv("CLIENT_SECRET", "google-secret")
	t.Setenv("FACEBOOK_APP_ID", "")
	t.Setenv("FACEBOOK_APP_SECRET", "")

	s := NewOAuthServiceFromConfig()
	assert.True(t, s.HasProvider("google"))
	assert.False(t, s.HasProvider("facebook"))

	google := GoogleProvider(config.GetGoogleClient(), CallbackURL(config.GetBaseURL(), model.Google))
	assert.Equal(t, "https://secrets.example.com/auth/google/secrets", google.Config.RedirectURL)
	assert.Equal(t, []string{"profile"}, google.Config.Scopes)

	facebook := FacebookProvider(config.OAuthClient{ClientID: "a", ClientSecret: "b"}, CallbackURL("http://localhost:4000", model.Facebook))
	assert.Equal(t, "http://localhost:4000/auth/facebook/secrets", facebook.Config.RedirectURL)
	assert.Contains(t, facebook.ProfileURL, "fields=id,name")
}
