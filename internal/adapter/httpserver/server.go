package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/draftdesk/internal/adapter/metrics"
	"github.com/pscheid92/draftdesk/internal/adapter/sessionstore"
	"github.com/pscheid92/draftdesk/internal/domain"
	"github.com/pscheid92/draftdesk/internal/platform/config"
	"github.com/pscheid92/draftdesk/web"
)

type appService interface {
	Email(ctx context.Context, access domain.SessionAccess, req domain.EmailRequest) (domain.ToolResult, error)
	Resume(ctx context.Context, access domain.SessionAccess, req domain.ResumeRequest) (domain.ToolResult, error)
	Usage(ctx context.Context, access domain.SessionAccess) ([]domain.FeatureUsage, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app appService

	templates *template.Template

	oauthClient    oauthClient
	sessionStore   *sessionstore.Store
	healthChecks   []HealthCheck
	httpMetrics    *metrics.HTTPMetrics
	metricsHandler http.Handler
	clock          clockwork.Clock
	startTime      time.Time
}

func NewServer(cfg *config.Config, app appService, store *sessionstore.Store, registry *prometheus.Registry, healthChecks []HealthCheck) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	clock := clockwork.NewRealClock()
	srv := &Server{
		echo:           e,
		config:         cfg,
		app:            app,
		oauthClient:    newGoogleOAuthClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI),
		sessionStore:   store,
		templates:      templates,
		healthChecks:   healthChecks,
		httpMetrics:    metrics.NewHTTPMetrics(registry),
		metricsHandler: metrics.Handler(registry),
		clock:          clock,
		startTime:      clock.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	return s.renderTemplateStatus(c, http.StatusOK, name, data)
}

func (s *Server) renderTemplateStatus(c echo.Context, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(c.Request().Context(), "Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(status, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}
