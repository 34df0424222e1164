// Package sessionstore provides a server-side gorilla/sessions store. The
// cookie carries only a signed session ID; the values live in a Backend.
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// ErrNotFound is returned by a Backend for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// defaultTTL applies to browser-session cookies (MaxAge 0).
const defaultTTL = 24 * time.Hour

// Backend persists encoded session values by session ID.
type Backend interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Store implements sessions.Store. New always reads the backend, so callers
// that need the latest persisted values call New instead of Get.
type Store struct {
	Options *sessions.Options

	backend    Backend
	codec      *securecookie.SecureCookie
	serializer securecookie.GobEncoder
}

var _ sessions.Store = (*Store)(nil)

// NewStore signs session-ID cookies with hashKey.
func NewStore(backend Backend, hashKey []byte, opts sessions.Options) *Store {
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(opts.MaxAge)

	return &Store{
		Options: &opts,
		backend: backend,
		codec:   codec,
	}
}

// Get returns the session cached in the request registry, loading it once.
func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie from the backend. A
// missing, tampered or expired cookie yields a fresh session; only a tampered
// cookie also returns an error.
func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := s.codec.Decode(name, cookie.Value, &id); err != nil {
		return session, fmt.Errorf("decode session cookie: %w", err)
	}

	data, err := s.backend.Load(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		return session, nil
	}
	if err != nil {
		return session, fmt.Errorf("load session: %w", err)
	}

	values := make(map[any]any)
	if err := s.serializer.Deserialize(data, &values); err != nil {
		return session, fmt.Errorf("decode session values: %w", err)
	}

	session.ID = id
	session.Values = values
	session.IsNew = false
	return session, nil
}

// Save persists the session and writes its cookie. A negative MaxAge deletes it.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.backend.Delete(r.Context(), session.ID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	data, err := s.serializer.Serialize(session.Values)
	if err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	if err := s.backend.Save(r.Context(), session.ID, data, ttlFor(session.Options)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	encoded, err := s.codec.Encode(session.Name(), session.ID)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Regenerate drops the persisted copy and detaches the session from its ID,
// so the next Save issues a new one. Used on login against session fixation.
func (s *Store) Regenerate(ctx context.Context, session *sessions.Session) error {
	if session.ID == "" {
		return nil
	}
	if err := s.backend.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	session.ID = ""
	return nil
}

func ttlFor(opts *sessions.Options) time.Duration {
	if opts.MaxAge > 0 {
		return time.Duration(opts.MaxAge) * time.Second
	}
	return defaultTTL
}
