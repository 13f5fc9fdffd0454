// Package session keeps the authenticated identity and the pending OAuth state
// in the cookie-backed gin session.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/secretsweb/secrets/config"
	"github.com/secretsweb/secrets/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CookieName is the name of the session cookie.
const CookieName = "secrets"

const (
	loginUser  = "LOGIN_USER"
	oauthState = "OAUTH_STATE"
)

// LoginUser is the minimal identity stored in the session.
type LoginUser struct {
	Id       string
	Username string
}

func init() {
	gob.Register(LoginUser{})
}

// Options returns the cookie options of the session cookie. maxAge is in
// seconds; zero keeps the cookie for the browser session, a negative value
// deletes it.
func Options(maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   config.IsSecureCookie(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetLoginUser replaces the session contents with the identity of user and
// sets the cookie lifetime to maxAge seconds.
func SetLoginUser(c *gin.Context, user *model.User, maxAge int) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(Options(maxAge))
	s.Set(loginUser, LoginUser{Id: user.Id, Username: user.GetUsername()})
	return s.Save()
}

func GetLoginUser(c *gin.Context) *LoginUser {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if user, ok := obj.(LoginUser); ok {
			return &user
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

// SetOAuthState remembers the state parameter sent to an OAuth provider.
func SetOAuthState(c *gin.Context, state string) error {
	s := sessions.Default(c)
	s.Set(oauthState, state)
	return s.Save()
}

// PopOAuthState returns the remembered OAuth state and removes it from the
// session so it can be used only once.
func PopOAuthState(c *gin.Context) string {
	s := sessions.Default(c)
	state, _ := s.Get(oauthState).(string)
	if state != "" {
		s.Delete(oauthState)
		_ = s.Save()
	}
	return state
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(Options(-1))
	return s.Save()
}
