package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guilhermemouraovc/cm-admin/internal/api"
	"github.com/guilhermemouraovc/cm-admin/internal/model"
	"github.com/guilhermemouraovc/cm-admin/internal/storage"
)

// Storage keys for the persisted session
const (
	KeyToken = "authToken"
	KeyUser  = "user"
)

// ErrInvalidCredentials is returned by Login when the server rejects the
// username/password pair
var ErrInvalidCredentials = errors.New("usuário ou senha inválidos")

// Session is the authenticated user's token and profile
type Session struct {
	Token   string
	Profile model.Profile
}

// Event is delivered to subscribers on session changes
type Event int

const (
	EventLoggedIn Event = iota
	EventLoggedOut
	// EventInvalidated means the server rejected the token; the UI should
	// return to the login screen
	EventInvalidated
)

func (e Event) String() string {
	switch e {
	case EventLoggedIn:
		return "logged_in"
	case EventLoggedOut:
		return "logged_out"
	default:
		return "invalidated"
	}
}

// Authenticator is the part of the API client the store talks to
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (string, model.Profile, error)
	ValidateToken(ctx context.Context, token string) error
}

// Store holds the current session and mirrors it to durable storage
type Store struct {
	mu          sync.Mutex
	current     *Session
	auth        Authenticator
	kv          storage.Store
	subscribers []func(Event)
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a store and restores any session persisted in kv
func New(auth Authenticator, kv storage.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{auth: auth, kv: kv, logger: logger, now: time.Now}
	s.restore()
	return s
}

func (s *Store) restore() {
	token, err := s.kv.Get(KeyToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to read persisted token", "error", err)
		}
		return
	}
	sess := &Session{Token: token}
	if raw, err := s.kv.Get(KeyUser); err == nil {
		if err := json.Unmarshal([]byte(raw), &sess.Profile); err != nil {
			s.logger.Warn("discarding unreadable persisted profile", "error", err)
		}
	}
	s.current = sess
	s.logger.Debug("session restored", "username", sess.Profile.Username)
}

// Login authenticates and, on success, persists and publishes the session.
// A rejected login leaves the store unchanged.
func (s *Store) Login(ctx context.Context, creds model.Credentials) (*Session, error) {
	token, profile, err := s.auth.Login(ctx, creds)
	if err != nil {
		if api.IsKind(err, api.KindUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	sess := &Session{Token: token, Profile: profile}
	if err := s.persist(sess); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.logger.Info("logged in", "username", profile.Username, "role", profile.Role)
	s.publish(EventLoggedIn)
	return sess, nil
}

func (s *Store) persist(sess *Session) error {
	profile, err := json.Marshal(sess.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := s.kv.Set(KeyToken, sess.Token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.kv.Set(KeyUser, string(profile)); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	return nil
}

// Logout clears the session everywhere
func (s *Store) Logout() {
	if s.clear() {
		s.publish(EventLoggedOut)
	}
}

// Invalidate drops a session the server no longer accepts. Subscribers are
// notified only when a session was actually held, so a burst of 401s
// produces one event.
func (s *Store) Invalidate() {
	if s.clear() {
		s.logger.Warn("session invalidated by server")
		s.publish(EventInvalidated)
	}
}

// clear reports whether a session was held
func (s *Store) clear() bool {
	s.mu.Lock()
	held := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if err := s.kv.Delete(KeyToken); err != nil {
		s.logger.Warn("failed to delete persisted token", "error", err)
	}
	if err := s.kv.Delete(KeyUser); err != nil {
		s.logger.Warn("failed to delete persisted profile", "error", err)
	}
	return held
}

// Current returns the held session, or nil
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Token implements api.TokenSource
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// IsValid checks the held token. An expired JWT is rejected locally;
// otherwise the server decides. Any failure logs the user out.
func (s *Store) IsValid(ctx context.Context) bool {
	token := s.Token()
	if token == "" {
		return false
	}

	if exp, ok := tokenExpiry(token); ok && !s.now().Before(exp) {
		s.logger.Info("session token expired", "expired_at", exp)
		s.Logout()
		return false
	}

	if err := s.auth.ValidateToken(ctx, token); err != nil {
		s.logger.Info("session token rejected", "error", err)
		s.Logout()
		return false
	}
	return true
}

// CanAccess gates the authenticated screens. It is a UX check only; the
// server enforces authorization.
func (s *Store) CanAccess(ctx context.Context) bool {
	return s.Current() != nil && s.IsValid(ctx)
}

// Get returns the persisted value for key
func (s *Store) Get(key string) (string, error) {
	return s.kv.Get(key)
}

// Set persists an arbitrary value alongside the session
func (s *Store) Set(key, value string) error {
	return s.kv.Set(key, value)
}

// Subscribe registers fn for session events. fn runs on the goroutine that
// caused the change and must not block.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) publish(ev Event) {
	s.mu.Lock()
	subs := make([]func(Event), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client never holds the signing key
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
