package server

import (
	"github.com/nfrund/authform/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	h := s.handler
	rateLimiter := middleware.RateLimiter(middleware.DefaultRateLimit)

	// Routes that act on the caller's form need its controller.
	f := s.E.Group("", middleware.FormSession(s.forms))
	f.GET("/", h.Show)
	f.POST("/form/fields/:field", h.SetField)
	f.POST("/form/mode", h.SetMode)
	f.POST("/form/submit", h.Submit, rateLimiter)
	f.POST("/form/reset", h.Reset, rateLimiter)

	s.E.GET("/auth/verify", h.Verify)
	s.E.GET("/auth/reset-password", h.ResetPasswordGet)
	s.E.POST("/auth/reset-password", h.ResetPasswordPost, rateLimiter)
	s.E.GET("/auth/logout", h.Logout)

	s.E.GET("/health", h.Health)
}
