package httpserver

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/draftdesk/internal/adapter/sessionstore"
	"github.com/pscheid92/draftdesk/internal/domain"
	"github.com/pscheid92/draftdesk/internal/platform/config"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockAppService struct {
	emailFn  func(ctx context.Context, access domain.SessionAccess, req domain.EmailRequest) (domain.ToolResult, error)
	resumeFn func(ctx context.Context, access domain.SessionAccess, req domain.ResumeRequest) (domain.ToolResult, error)
	usageFn  func(ctx context.Context, access domain.SessionAccess) ([]domain.FeatureUsage, error)
}

func (m *mockAppService) Email(ctx context.Context, access domain.SessionAccess, req domain.EmailRequest) (domain.ToolResult, error) {
	if m.emailFn != nil {
		return m.emailFn(ctx, access, req)
	}
	return domain.ToolResult{}, errors.New("not implemented")
}

func (m *mockAppService) Resume(ctx context.Context, access domain.SessionAccess, req domain.ResumeRequest) (domain.ToolResult, error) {
	if m.resumeFn != nil {
		return m.resumeFn(ctx, access, req)
	}
	return domain.ToolResult{}, errors.New("not implemented")
}

func (m *mockAppService) Usage(ctx context.Context, access domain.SessionAccess) ([]domain.FeatureUsage, error) {
	if m.usageFn != nil {
		return m.usageFn(ctx, access)
	}
	return []domain.FeatureUsage{
		{Feature: domain.FeatureEmail, Limit: 3},
		{Feature: domain.FeatureResume, Limit: 1},
	}, nil
}

type mockOAuthClient struct {
	user *domain.User
	err  error
	code string
}

func (m *mockOAuthClient) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (m *mockOAuthClient) Exchange(_ context.Context, code string) (*domain.User, error) {
	m.code = code
	return m.user, m.err
}

// --- Test helpers ---

const testCSRFToken = "test-csrf-token"

var testUser = domain.User{Subject: "1234567890", Email: "jane@example.com", Name: "Jane Roe"}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:            "development",
		Port:              "8080",
		GoogleClientID:    "test-client-id",
		GoogleRedirectURI: "http://localhost/auth/callback",
		SessionSecret:     "test-session-secret-32-bytes-long!!",
		SessionMaxAge:     time.Hour,
		ToolRateLimit:     100,
		ToolRateBurst:     100,
		AuthRateLimit:     100,
		AuthRateBurst:     100,
	}
}

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	tmpl := template.Must(template.New("landing.html").Parse(`Landing`))
	template.Must(tmpl.New("privacy.html").Parse(`Privacy`))
	template.Must(tmpl.New("terms.html").Parse(`Terms`))
	template.Must(tmpl.New("dashboard.html").Parse(`Dashboard {{.User.DisplayName}}{{range .Usage}} {{.Feature}}={{.Used}}/{{.Limit}}{{end}}`))
	template.Must(tmpl.New("email.html").Parse(`Email {{.Usage.Used}}/{{.Usage.Limit}}|{{.Result}}|{{.LimitMessage}}|{{.Error}}|{{.Failed}}`))
	template.Must(tmpl.New("resume.html").Parse(`Resume {{.Usage.Used}}/{{.Usage.Limit}}|{{.Result}}|{{.LimitMessage}}|{{.Error}}|{{.Failed}}`))

	cfg := testConfig()
	clock := clockwork.NewFakeClock()
	store := sessionstore.NewStore(sessionstore.NewMemoryBackend(clock), []byte(cfg.SessionSecret), sessions.Options{
		Path:   "/",
		MaxAge: 3600,
	})

	srv := &Server{
		echo:         echo.New(),
		config:       cfg,
		app:          app,
		oauthClient:  &mockOAuthClient{},
		sessionStore: store,
		templates:    tmpl,
		clock:        clock,
		startTime:    clock.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withOAuthClient(oauth oauthClient) func(*Server) {
	return func(s *Server) {
		s.oauthClient = oauth
	}
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

// loginCookies creates a logged-in session for user and returns its cookies.
func loginCookies(t *testing.T, srv *Server, user domain.User) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	session, err := srv.sessionStore.New(req, sessionName)
	require.NoError(t, err)
	storeUser(session, user)
	require.NoError(t, session.Save(req, rec))
	return rec.Result().Cookies()
}

func newRequest(method, target string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// newFormRequest builds a POST carrying form and a matching CSRF cookie and token.
func newFormRequest(target string, form url.Values, cookies []*http.Cookie) *http.Request {
	form.Set("csrf_token", testCSRFToken)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: testCSRFToken})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

// mergeCookies overlays updated cookies from a response onto the current set.
func mergeCookies(current []*http.Cookie, rec *httptest.ResponseRecorder) []*http.Cookie {
	byName := make(map[string]*http.Cookie)
	var order []string
	for _, c := range current {
		if _, ok := byName[c.Name]; !ok {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}
	for _, c := range rec.Result().Cookies() {
		if _, ok := byName[c.Name]; !ok {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}
	merged := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		if c := byName[name]; c.MaxAge >= 0 {
			merged = append(merged, c)
		}
	}
	return merged
}
