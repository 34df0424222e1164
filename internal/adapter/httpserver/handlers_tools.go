package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/draftdesk/internal/domain"
	apperrors "github.com/pscheid92/draftdesk/internal/platform/errors"
)

type emailForm struct {
	Topic string `form:"topic"`
	Tone  string `form:"tone"`
}

type resumeForm struct {
	Name       string `form:"name"`
	Role       string `form:"role"`
	Skills     string `form:"skills"`
	Experience string `form:"experience"`
	Education  string `form:"education"`
}

func (s *Server) registerToolRoutes(csrfMiddleware, rateLimiter echo.MiddlewareFunc) {
	s.echo.GET("/email", s.handleEmailPage, s.requireAuth, csrfMiddleware)
	s.echo.POST("/email", s.handleEmailSubmit, rateLimiter, s.requireAuth, csrfMiddleware)
	s.echo.GET("/resume", s.handleResumePage, s.requireAuth, csrfMiddleware)
	s.echo.POST("/resume", s.handleResumeSubmit, rateLimiter, s.requireAuth, csrfMiddleware)
}

func (s *Server) handleEmailPage(c echo.Context) error {
	return s.renderTool(c, domain.FeatureEmail, emailForm{}, domain.ToolResult{}, "")
}

func (s *Server) handleEmailSubmit(c echo.Context) error {
	var form emailForm
	if err := c.Bind(&form); err != nil {
		return apperrors.ValidationError("invalid form")
	}

	access, err := s.requestAccess(c)
	if err != nil {
		return err
	}

	result, err := s.app.Email(c.Request().Context(), access, domain.EmailRequest{Topic: form.Topic, Tone: form.Tone})
	return s.finishTool(c, domain.FeatureEmail, form, result, err)
}

func (s *Server) handleResumePage(c echo.Context) error {
	return s.renderTool(c, domain.FeatureResume, resumeForm{}, domain.ToolResult{}, "")
}

func (s *Server) handleResumeSubmit(c echo.Context) error {
	var form resumeForm
	if err := c.Bind(&form); err != nil {
		return apperrors.ValidationError("invalid form")
	}

	access, err := s.requestAccess(c)
	if err != nil {
		return err
	}

	result, err := s.app.Resume(c.Request().Context(), access, domain.ResumeRequest{
		Name:       form.Name,
		Role:       form.Role,
		Skills:     form.Skills,
		Experience: form.Experience,
		Education:  form.Education,
	})
	return s.finishTool(c, domain.FeatureResume, form, result, err)
}

func (s *Server) requestAccess(c echo.Context) (*sessionAccess, error) {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return nil, apperrors.InternalError("failed to load session", err)
	}
	return s.sessionAccess(c, session), nil
}

// finishTool renders the outcome of a tool request. Missing fields re-render
// the form with status 400; other errors go to the error middleware.
func (s *Server) finishTool(c echo.Context, f domain.Feature, form any, result domain.ToolResult, err error) error {
	if errors.Is(err, domain.ErrMissingField) {
		field := strings.TrimPrefix(err.Error(), domain.ErrMissingField.Error()+": ")
		slog.InfoContext(c.Request().Context(), "Validation error", "feature", f, "field", field)
		return s.renderToolStatus(c, http.StatusBadRequest, f, form, domain.ToolResult{}, "Please fill in the "+field+" field.")
	}
	if err != nil {
		return apperrors.InternalError("failed to run "+string(f)+" tool", err)
	}
	return s.renderTool(c, f, form, result, "")
}

func (s *Server) renderTool(c echo.Context, f domain.Feature, form any, result domain.ToolResult, formError string) error {
	return s.renderToolStatus(c, http.StatusOK, f, form, result, formError)
}

func (s *Server) renderToolStatus(c echo.Context, status int, f domain.Feature, form any, result domain.ToolResult, formError string) error {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return apperrors.InternalError("failed to load session", err)
	}

	usage, err := s.app.Usage(c.Request().Context(), s.sessionAccess(c, session))
	if err != nil {
		return apperrors.InternalError("failed to load usage", err)
	}

	var current domain.FeatureUsage
	for _, u := range usage {
		if u.Feature == f {
			current = u
		}
	}

	data := map[string]any{
		"Form":         form,
		"Usage":        current,
		"Result":       result.Text,
		"Failed":       result.Failed,
		"LimitMessage": result.LimitMessage,
		"Error":        formError,
		"CSRFToken":    c.Get("csrf"),
	}
	return s.renderTemplateStatus(c, status, string(f)+".html", data)
}
