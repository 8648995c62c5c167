package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restaurantadmin/internal/middleware"
	"restaurantadmin/internal/security"
)

func (h HandlerSet) setTokenCookie(c *gin.Context, name string, token security.SignedToken) {
	maxAge := int(time.Until(token.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token.Token, maxAge, "/", h.cfg.Security.CookieDomain, h.cfg.Security.CookieSecure, true)
}

func (h HandlerSet) setSessionCookies(c *gin.Context, access, refresh security.SignedToken) {
	h.setTokenCookie(c, middleware.AccessCookie, access)
	h.setTokenCookie(c, middleware.RefreshCookie, refresh)
}

func (h HandlerSet) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	for _, name := range []string{middleware.AccessCookie, middleware.RefreshCookie} {
		c.SetCookie(name, "", -1, "/", h.cfg.Security.CookieDomain, h.cfg.Security.CookieSecure, true)
	}
}
