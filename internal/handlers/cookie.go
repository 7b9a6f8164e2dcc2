package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	authCookieName = "auth_token"
	authCookieTTL  = 24 * time.Hour
)

// setAuthCookie stores the session token issued by the provider. An empty
// token expires the cookie.
func setAuthCookie(c echo.Context, token string) {
	cookie := new(http.Cookie)
	cookie.Name = authCookieName
	cookie.Value = token
	cookie.Path = "/"
	if token == "" {
		cookie.MaxAge = -1
	} else {
		cookie.Expires = time.Now().UTC().Add(authCookieTTL)
	}
	cookie.HttpOnly = true
	// Secure only when served over TLS so local development still works.
	cookie.Secure = c.Request().TLS != nil
	cookie.SameSite = http.SameSiteLaxMode
	c.SetCookie(cookie)
}
