package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/secretsweb/secrets/config"
	"github.com/secretsweb/secrets/database/model"
	"github.com/secretsweb/secrets/logger"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

const (
	googleProfileURL   = "https://www.googleapis.com/oauth2/v3/userinfo"
	facebookProfileURL = "https://graph.facebook.com/me?fields=id,name"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

// OAuthProvider describes one external identity provider: the OAuth2 client
// and the endpoint returning the signed-in account's profile.
type OAuthProvider struct {
	Name       model.Provider
	Config     *oauth2.Config
	ProfileURL string
}

// Profile is the part of a provider profile the site needs.
type Profile struct {
	Provider model.Provider
	Id       string
	Name     string
}

// OAuthService runs the authorization code flow against the registered
// providers.
type OAuthService struct {
	providers map[model.Provider]*OAuthProvider
}

func NewOAuthService(providers ...*OAuthProvider) *OAuthService {
	s := &OAuthService{providers: make(map[model.Provider]*OAuthProvider)}
	for _, p := range providers {
		s.providers[p.Name] = p
	}
	return s
}

// NewOAuthServiceFromConfig registers every provider whose client credentials
// are configured. Callbacks land on <base url>/auth/<provider>/secrets.
func NewOAuthServiceFromConfig() *OAuthService {
	baseURL := config.GetBaseURL()
	var providers []*OAuthProvider

	if client := config.GetGoogleClient(); client.Enabled() {
		providers = append(providers, GoogleProvider(client, CallbackURL(baseURL, model.Google)))
	} else {
		logger.Info("google sign-in disabled: CLIENT_ID/CLIENT_SECRET not set")
	}
	if client := config.GetFacebookClient(); client.Enabled() {
		providers = append(providers, FacebookProvider(client, CallbackURL(baseURL, model.Facebook)))
	} else {
		logger.Info("facebook sign-in disabled: FACEBOOK_APP_ID/FACEBOOK_APP_SECRET not set")
	}
	return NewOAuthService(providers...)
}

func CallbackURL(baseURL string, provider model.Provider) string {
	return fmt.Sprintf("%s/auth/%s/secrets", baseURL, provider)
}

func GoogleProvider(client config.OAuthClient, redirectURL string) *OAuthProvider {
	return &OAuthProvider{
		Name: model.Google,
		Config: &oauth2.Config{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{"profile"},
		},
		ProfileURL: googleProfileURL,
	}
}

func FacebookProvider(client config.OAuthClient, redirectURL string) *OAuthProvider {
	return &OAuthProvider{
		Name: model.Facebook,
		Config: &oauth2.Config{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			Endpoint:     facebook.Endpoint,
			RedirectURL:  redirectURL,
		},
		ProfileURL: facebookProfileURL,
	}
}

func (s *OAuthService) provider(name string) (*OAuthProvider, error) {
	p, ok := s.providers[model.Provider(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// HasProvider reports whether the provider is registered.
func (s *OAuthService) HasProvider(name string) bool {
	_, ok := s.providers[model.Provider(name)]
	return ok
}

// AuthCodeURL returns the provider consent page URL carrying state.
func (s *OAuthService) AuthCodeURL(name string, state string) (string, error) {
	p, err := s.provider(name)
	if err != nil {
		return "", err
	}
	return p.Config.AuthCodeURL(state), nil
}

// Identify exchanges the authorization code and fetches the account profile.
func (s *OAuthService) Identify(ctx context.Context, name string, code string) (*Profile, error) {
	p, err := s.provider(name)
	if err != nil {
		return nil, err
	}

	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s code exchange: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.ProfileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s profile: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s profile: unexpected status %s", name, resp.Status)
	}

	// google userinfo carries the account id in "sub", the graph api in "id"
	var raw struct {
		Id   string `json:"id"`
		Sub  string `json:"sub"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s profile: %w", name, err)
	}

	profile := &Profile{Provider: p.Name, Id: raw.Sub, Name: raw.Name}
	if profile.Id == "" {
		profile.Id = raw.Id
	}
	if profile.Id == "" {
		return nil, fmt.Errorf("%s profile without account id", name)
	}
	return profile, nil
}
