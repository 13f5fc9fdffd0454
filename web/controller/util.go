package controller

import (
	"net"
	"net/http"
	"strings"

	"github.com/secretsweb/secrets/config"
	"github.com/secretsweb/secrets/web/session"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

// html renders a page template. title is a translation key.
func html(c *gin.Context, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["logged_in"] = session.IsLogin(c)
	c.HTML(http.StatusOK, name, getContext(data))
}

// redirect answers a form submission with a 302 so the browser follows up with GET.
func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func getContext(h gin.H) gin.H {
	a := gin.H{
		"cur_ver":  config.GetVersion(),
		"app_name": config.GetName(),
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}
