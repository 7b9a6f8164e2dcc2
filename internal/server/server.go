package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/formsession"
	"github.com/nfrund/authform/internal/handlers"
	appmiddleware "github.com/nfrund/authform/internal/middleware"
)

// Dependencies holds everything the HTTP server needs.
type Dependencies struct {
	Config  config.Provider
	Handler *handlers.FormHandler
	Forms   *formsession.Store
	// Echo is optional; tests pass their own instance.
	Echo *echo.Echo
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E       *echo.Echo
	Cfg     config.Provider
	handler *handlers.FormHandler
	forms   *formsession.Store
}

// New creates a new Server instance with the global middleware installed.
func New(deps Dependencies) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if deps.Handler == nil || deps.Forms == nil {
		return nil, errors.New("server: form handler and store are required")
	}

	e := deps.Echo
	if e == nil {
		e = echo.New()
	}
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(appmiddleware.Logger)

	store := sessions.NewCookieStore([]byte(deps.Config.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	return &Server{
		E:       e,
		Cfg:     deps.Config,
		handler: deps.Handler,
		forms:   deps.Forms,
	}, nil
}
