package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/draftdesk/internal/platform/errors"
)

func (s *Server) registerDashboardRoutes(csrfMiddleware echo.MiddlewareFunc) {
	s.echo.GET("/dashboard", s.handleDashboard, s.requireAuth, csrfMiddleware)
}

func (s *Server) registerPageRoutes() {
	s.echo.GET("/", s.handleLanding)
	s.echo.GET("/privacy", s.handleStaticPage("privacy.html"))
	s.echo.GET("/terms", s.handleStaticPage("terms.html"))
}

func (s *Server) handleLanding(c echo.Context) error {
	if s.isAuthenticated(c) {
		if err := c.Redirect(http.StatusFound, "/dashboard"); err != nil {
			return fmt.Errorf("failed to redirect: %w", err)
		}
		return nil
	}
	return s.renderTemplate(c, "landing.html", nil)
}

func (s *Server) handleStaticPage(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return s.renderTemplate(c, name, nil)
	}
}

func (s *Server) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return apperrors.InternalError("failed to load session", err)
	}

	usage, err := s.app.Usage(ctx, s.sessionAccess(c, session))
	if err != nil {
		return apperrors.InternalError("failed to load usage", err).WithField("user_sub", user.Subject)
	}

	data := map[string]any{
		"User":      user,
		"Usage":     usage,
		"CSRFToken": c.Get("csrf"),
	}

	return s.renderTemplate(c, "dashboard.html", data)
}
