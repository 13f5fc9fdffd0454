// Package controller provides the HTTP handlers of the secrets site: landing
// page, local registration and login, OAuth sign-in and the secrets pages.
package controller

import (
	"net/http"

	"github.com/secretsweb/secrets/config"
	"github.com/secretsweb/secrets/database/model"
	"github.com/secretsweb/secrets/logger"
	"github.com/secretsweb/secrets/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct{}

// checkLogin lets authenticated requests through and sends everybody else
// back to the landing page.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	} else {
		c.Next()
	}
}

// startSession stores the user's identity in the session with the configured
// max age.
func (a *BaseController) startSession(c *gin.Context, user *model.User) bool {
	if err := session.SetLoginUser(c, user, config.GetSessionMaxAge()*60); err != nil {
		logger.Warningf("unable to save session for user %s: %v", user.Id, err)
		return false
	}
	return true
}
