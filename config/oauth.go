package config

import "os"

// OAuthClient holds the client credentials of one OAuth provider.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
}

// Enabled reports whether both credentials are present.
func (c OAuthClient) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

func GetGoogleClient() OAuthClient {
	return OAuthClient{
		ClientID:     os.Getenv("CLIENT_ID"),
		ClientSecret: os.Getenv("CLIENT_SECRET"),
	}
}

func GetFacebookClient() OAuthClient {
	return OAuthClient{
		ClientID:     os.Getenv("FACEBOOK_APP_ID"),
		ClientSecret: os.Getenv("FACEBOOK_APP_SECRET"),
	}
}
