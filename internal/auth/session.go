package auth

import (
	"errors"
	"fmt"
	"sync"

	"hotelres/internal/models"
)

var (
	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("session closed")
	// ErrNotInitialized is returned before Init has run.
	ErrNotInitialized = errors.New("session not initialized")
	// ErrLogoutCancelled is returned when the user declines to log out.
	ErrLogoutCancelled = errors.New("logout cancelled")
)

// State is derived purely from the persisted token and role.
type State int

const (
	Anonymous State = iota
	AuthenticatedUser
	AuthenticatedAdmin
)

func (s State) String() string {
	switch s {
	case AuthenticatedUser:
		return "user"
	case AuthenticatedAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

// Credentials is the persisted pair.
type Credentials struct {
	Token string      `json:"token"`
	Role  models.Role `json:"role"`
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

const LogoutPrompt = "Are you sure you want to logout?"

// Session holds the client's token and role. It is passed explicitly to
// guards and to the API client; nothing reads the store behind its back.
type Session struct {
	mu     sync.RWMutex
	store  Store
	creds  Credentials
	ready  bool
	closed bool
}

func NewSession(store Store) *Session {
	return &Session{store: store}
}

// Init loads the persisted pair. A missing pair leaves the session anonymous.
func (s *Session) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	creds, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	s.creds = creds
	s.ready = true
	return nil
}

// Close tears the session down; the persisted pair is left in place.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.ready = false
	s.creds = Credentials{}
	return nil
}

// Login stores both keys after a successful backend login.
func (s *Session) Login(token string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	creds := Credentials{Token: token, Role: role}
	if err := s.store.Save(creds); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.creds = creds
	return nil
}

// Logout clears both keys, but only once confirm agrees.
func (s *Session) Logout(confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(LogoutPrompt) {
		return ErrLogoutCancelled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.creds = Credentials{}
	return nil
}

func (s *Session) usable() error {
	if s.closed {
		return ErrSessionClosed
	}
	if !s.ready {
		return ErrNotInitialized
	}
	return nil
}

// Token satisfies api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Token
}

func (s *Session) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Role
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.creds.Token == "":
		return Anonymous
	case s.creds.Role == models.RoleAdmin:
		return AuthenticatedAdmin
	default:
		return AuthenticatedUser
	}
}

func (s *Session) IsAuthenticated() bool { return s.State() != Anonymous }
func (s *Session) IsAdmin() bool         { return s.State() == AuthenticatedAdmin }
func (s *Session) IsUser() bool          { return s.State() == AuthenticatedUser }
