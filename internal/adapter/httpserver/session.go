package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/draftdesk/internal/adapter/sessionstore"
	"github.com/pscheid92/draftdesk/internal/domain"
	"github.com/pscheid92/draftdesk/internal/platform/config"
)

// Session keys
const (
	sessionName           = "draftdesk-session"
	sessionKeyUserSub     = "user_sub"
	sessionKeyUserEmail   = "user_email"
	sessionKeyUserName    = "user_name"
	sessionKeyUserPicture = "user_picture"
	sessionKeyOAuthState  = "oauth_state"
)

var errForeignValues = errors.New("session values were not loaded through this session")

// NewSessionOptions returns the cookie settings of the login session.
func NewSessionOptions(cfg *config.Config) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionValues exposes gorilla session values as domain.SessionValues.
type sessionValues struct {
	session *sessions.Session
}

func (v sessionValues) Get(key string) (any, bool) {
	value, ok := v.session.Values[key]
	return value, ok
}

func (v sessionValues) Set(key string, value any) {
	v.session.Values[key] = value
}

// sessionAccess is the per-request domain.SessionAccess. Every Load re-reads the
// backend so the quota section sees writes of concurrent requests.
type sessionAccess struct {
	store *sessionstore.Store
	c     echo.Context
	key   string
}

var _ domain.SessionAccess = (*sessionAccess)(nil)

func (s *Server) sessionAccess(c echo.Context, session *sessions.Session) *sessionAccess {
	return &sessionAccess{store: s.sessionStore, c: c, key: session.ID}
}

func (a *sessionAccess) Key() string {
	return a.key
}

func (a *sessionAccess) Load(ctx context.Context) (domain.SessionValues, error) {
	session, err := a.store.New(a.c.Request().WithContext(ctx), sessionName)
	if err != nil {
		return nil, fmt.Errorf("reload session: %w", err)
	}
	return sessionValues{session: session}, nil
}

func (a *sessionAccess) Save(ctx context.Context, values domain.SessionValues) error {
	v, ok := values.(sessionValues)
	if !ok {
		return errForeignValues
	}
	if err := a.store.Save(a.c.Request().WithContext(ctx), a.c.Response().Writer, v.session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func userFromSession(session *sessions.Session) (domain.User, bool) {
	sub, _ := session.Values[sessionKeyUserSub].(string)
	if sub == "" {
		return domain.User{}, false
	}
	email, _ := session.Values[sessionKeyUserEmail].(string)
	name, _ := session.Values[sessionKeyUserName].(string)
	picture, _ := session.Values[sessionKeyUserPicture].(string)
	return domain.User{Subject: sub, Email: email, Name: name, Picture: picture}, true
}

func storeUser(session *sessions.Session, user domain.User) {
	session.Values[sessionKeyUserSub] = user.Subject
	session.Values[sessionKeyUserEmail] = user.Email
	session.Values[sessionKeyUserName] = user.Name
	session.Values[sessionKeyUserPicture] = user.Picture
}
