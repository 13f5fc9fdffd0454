package controller

import (
	"net/http"

	"github.com/secretsweb/secrets/logger"
	"github.com/secretsweb/secrets/util/random"
	"github.com/secretsweb/secrets/web/service"
	"github.com/secretsweb/secrets/web/session"

	"github.com/gin-gonic/gin"
)

const stateLength = 32

// OAuthController runs the sign-in flow for external identity providers:
// /auth/:provider redirects to the provider and /auth/:provider/secrets is
// the callback registered with it.
type OAuthController struct {
	BaseController

	oauthService *service.OAuthService
	userService  service.UserService
}

func NewOAuthController(g *gin.RouterGroup, oauthService *service.OAuthService) *OAuthController {
	a := &OAuthController{oauthService: oauthService}
	a.initRouter(g)
	return a
}

func (a *OAuthController) initRouter(g *gin.RouterGroup) {
	auth := g.Group("/auth/:provider")
	auth.Use(a.checkProvider)
	{
		auth.GET("", a.authenticate)
		auth.GET("/secrets", a.callback)
	}
}

// checkProvider answers 404 for providers without configured credentials.
func (a *OAuthController) checkProvider(c *gin.Context) {
	if !a.oauthService.HasProvider(c.Param("provider")) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.Next()
}

func (a *OAuthController) authenticate(c *gin.Context) {
	provider := c.Param("provider")
	state := random.Seq(stateLength)
	if err := session.SetOAuthState(c, state); err != nil {
		logger.Warning("unable to save oauth state:", err)
		redirect(c, "/login")
		return
	}

	url, err := a.oauthService.AuthCodeURL(provider, state)
	if err != nil {
		logger.Warning("oauth redirect failed:", err)
		redirect(c, "/login")
		return
	}
	redirect(c, url)
}

func (a *OAuthController) callback(c *gin.Context) {
	provider := c.Param("provider")

	expected := session.PopOAuthState(c)
	if expected == "" || c.Query("state") != expected {
		logger.Warningf("%s callback with invalid state, IP: %s", provider, getRemoteIp(c))
		redirect(c, "/login")
		return
	}
	if errMsg := c.Query("error"); errMsg != "" {
		logger.Infof("%s sign-in declined: %s", provider, errMsg)
		redirect(c, "/login")
		return
	}

	profile, err := a.oauthService.Identify(c.Request.Context(), provider, c.Query("code"))
	if err != nil {
		logger.Warning("oauth sign-in failed:", err)
		redirect(c, "/login")
		return
	}

	user, err := a.userService.FindOrCreateExternal(c.Request.Context(), profile.Provider, profile.Id)
	if err != nil {
		logger.Warning("oauth find or create failed:", err)
		redirect(c, "/login")
		return
	}

	if !a.startSession(c, user) {
		redirect(c, "/login")
		return
	}
	logger.Infof("user %s signed in with %s, IP: %s", user.Id, provider, getRemoteIp(c))
	redirect(c, "/secrets")
}
