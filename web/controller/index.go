package controller

import (
	"github.com/secretsweb/secrets/logger"
	"github.com/secretsweb/secrets/web/service"
	"github.com/secretsweb/secrets/web/session"

	"github.com/gin-gonic/gin"
)

// CredentialForm is the body of the register and login forms.
type CredentialForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// IndexController serves the landing page and the local account routes.
type IndexController struct {
	BaseController

	userService service.UserService
}

func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)

	g.GET("/register", a.registerPage)
	g.POST("/register", a.register)

	g.GET("/login", a.loginPage)
	g.POST("/login", a.login)

	g.GET("/logout", a.logout)
	g.POST("/logout", a.logout)
}

func (a *IndexController) index(c *gin.Context) {
	html(c, "home.html", "pages.home.title", nil)
}

func (a *IndexController) registerPage(c *gin.Context) {
	html(c, "register.html", "pages.register.title", nil)
}

func (a *IndexController) loginPage(c *gin.Context) {
	html(c, "login.html", "pages.login.title", nil)
}

func (a *IndexController) register(c *gin.Context) {
	var form CredentialForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warning("invalid register form:", err)
		redirect(c, "/register")
		return
	}

	user, err := a.userService.Register(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		logger.Warning("register failed:", err)
		redirect(c, "/register")
		return
	}
	logger.Infof("%s registered, IP: %s", user.GetUsername(), getRemoteIp(c))

	if !a.startSession(c, user) {
		redirect(c, "/login")
		return
	}
	redirect(c, "/secrets")
}

func (a *IndexController) login(c *gin.Context) {
	var form CredentialForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warning("invalid login form:", err)
		redirect(c, "/login")
		return
	}

	user, err := a.userService.CheckUser(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		logger.Warningf("login failed for %q, IP: %s: %v", form.Username, getRemoteIp(c), err)
		redirect(c, "/login")
		return
	}

	if !a.startSession(c, user) {
		redirect(c, "/login")
		return
	}
	logger.Infof("%s logged in successfully, IP: %s", user.GetUsername(), getRemoteIp(c))
	redirect(c, "/secrets")
}

func (a *IndexController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		logger.Infof("user %s logged out", user.Id)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session:", err)
	}
	redirect(c, "/")
}
