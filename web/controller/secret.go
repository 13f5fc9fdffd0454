package controller

import (
	"errors"

	"github.com/secretsweb/secrets/database"
	"github.com/secretsweb/secrets/logger"
	"github.com/secretsweb/secrets/web/service"
	"github.com/secretsweb/secrets/web/session"

	"github.com/gin-gonic/gin"
)

// SecretForm is the body of the submit form.
type SecretForm struct {
	Secret string `json:"secret" form:"secret"`
}

// SecretController lists secrets and lets signed-in users submit theirs.
type SecretController struct {
	BaseController

	secretService service.SecretService
}

func NewSecretController(g *gin.RouterGroup) *SecretController {
	a := &SecretController{}
	a.initRouter(g)
	return a
}

func (a *SecretController) initRouter(g *gin.RouterGroup) {
	g.GET("/secrets", a.secrets)

	submit := g.Group("/submit")
	submit.Use(a.checkLogin)
	{
		submit.GET("", a.submitPage)
		submit.POST("", a.submit)
	}
}

// secrets renders every submitted secret. Store errors are logged and an
// empty list is shown.
func (a *SecretController) secrets(c *gin.Context) {
	users, err := a.secretService.GetUsersWithSecrets(c.Request.Context())
	if err != nil {
		logger.Warning("list secrets failed:", err)
	}
	html(c, "secrets.html", "pages.secrets.title", gin.H{"usersWithSecrets": users})
}

func (a *SecretController) submitPage(c *gin.Context) {
	html(c, "submit.html", "pages.submit.title", nil)
}

func (a *SecretController) submit(c *gin.Context) {
	user := session.GetLoginUser(c)

	var form SecretForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warning("invalid submit form:", err)
		redirect(c, "/submit")
		return
	}

	err := a.secretService.SubmitSecret(c.Request.Context(), user.Id, form.Secret)
	switch {
	case errors.Is(err, service.ErrEmptySecret):
		redirect(c, "/submit")
	case database.IsNotFound(err):
		logger.Warningf("session user %s no longer exists", user.Id)
		if err := session.ClearSession(c); err != nil {
			logger.Warning("unable to clear session:", err)
		}
		redirect(c, "/login")
	case err != nil:
		logger.Warning("submit secret failed:", err)
		redirect(c, "/submit")
	default:
		redirect(c, "/secrets")
	}
}
