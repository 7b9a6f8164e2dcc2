package middleware

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/formsession"
)

const (
	formSessionName = "form-session"
	formSessionKey  = "id"
	formContextKey  = "form"
)

// FormSession attaches the caller's form controller to the echo context,
// starting a new form session when the cookie is missing or has expired on the
// server side. It must run after the session middleware.
func FormSession(store *formsession.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(formSessionName, c)
			if err != nil {
				if sess == nil {
					return err
				}
				// An undecodable cookie comes back with a fresh session; saving
				// it below replaces the bad cookie.
				FromContext(c.Request().Context()).Warn("Discarding unreadable form session cookie", "error", err)
			}

			current, _ := sess.Values[formSessionKey].(string)
			id, ctrl := store.GetOrCreate(current)
			if id != current {
				sess.Values[formSessionKey] = id
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					FromContext(c.Request().Context()).Error("Failed to save form session", "error", err)
				}
			}

			c.Set(formContextKey, ctrl)
			return next(c)
		}
	}
}

// FormFromContext returns the controller set by FormSession, or nil.
func FormFromContext(c echo.Context) *form.Controller {
	ctrl, _ := c.Get(formContextKey).(*form.Controller)
	return ctrl
}
