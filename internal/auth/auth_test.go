package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hotelres/internal/models"
)

func yes(string) bool { return true }
func no(string) bool  { return false }

func TestSessionLifecycle(t *testing.T) {
	store := NewMemoryStore(Credentials{})
	s := NewSession(store)
	if err := s.Login("tok", models.RoleUser); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("login before init: %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if s.State() != Anonymous {
		t.Fatalf("state = %s", s.State())
	}

	if err := s.Login("tok", models.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if !s.IsAdmin() || s.Token() != "tok" {
		t.Fatalf("state = %s", s.State())
	}
	if c, _ := store.Load(); c.Token != "tok" || c.Role != models.RoleAdmin {
		t.Fatalf("stored = %+v", c)
	}

	if err := s.Logout(ConfirmFunc(no)); !errors.Is(err, ErrLogoutCancelled) || !s.IsAuthenticated() {
		t.Fatalf("declined logout: %v, state %s", err, s.State())
	}
	if err := s.Logout(nil); !errors.Is(err, ErrLogoutCancelled) {
		t.Fatalf("nil confirmer: %v", err)
	}
	if err := s.Logout(ConfirmFunc(yes)); err != nil {
		t.Fatal(err)
	}
	if s.IsAuthenticated() {
		t.Fatal("still authenticated")
	}
	if c, _ := store.Load(); c != (Credentials{}) {
		t.Fatalf("store not cleared: %+v", c)
	}

	s.Close()
	if err := s.Login("tok", models.RoleUser); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("login after close: %v", err)
	}
}

func TestUserRoleDefaultsToUserState(t *testing.T) {
	s := NewSession(NewMemoryStore(Credentials{Token: "t", Role: "SOMETHING"}))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if !s.IsUser() {
		t.Fatalf("state = %s", s.State())
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	path := filepath.Join(t.TempDir(), "state", "session.json")
	fs := NewFileStore(path, key)

	if c, err := fs.Load(); err != nil || c != (Credentials{}) {
		t.Fatalf("missing file: %+v %v", c, err)
	}
	want := Credentials{Token: "abc", Role: models.RoleUser}
	if err := fs.Save(want); err != nil {
		t.Fatal(err)
	}
	if c, err := fs.Load(); err != nil || c != want {
		t.Fatalf("load = %+v %v", c, err)
	}

	other := make([]byte, 32)
	if _, err := NewFileStore(path, other).Load(); err == nil {
		t.Fatal("wrong key opened the file")
	}

	if err := fs.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := fs.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if c, _ := fs.Load(); c != (Credentials{}) {
		t.Fatalf("after clear = %+v", c)
	}
}

type fixed State

func (f fixed) State() State { return State(f) }

func TestGuard(t *testing.T) {
	tests := []struct {
		state State
		path  string
		allow bool
	}{
		{Anonymous, "/rooms", true},
		{Anonymous, "/login", true},
		{Anonymous, "/profile", false},
		{Anonymous, "/room-details-book/4", false},
		{AuthenticatedUser, "/room-details-book/4", true},
		{AuthenticatedUser, "/admin/manage-rooms", false},
		{AuthenticatedAdmin, "/admin/edit-booking/ABC123", true},
		{AuthenticatedAdmin, "/admin/edit-booking/", false},
		{AuthenticatedAdmin, "/nowhere", false},
	}
	for _, tt := range tests {
		d := NewGuard(fixed(tt.state), Routes).CheckPath(tt.path)
		if d.Allowed != tt.allow {
			t.Errorf("%s %s: allowed = %v", tt.state, tt.path, d.Allowed)
		}
		if !d.Allowed && d.Redirect != EntryPoint {
			t.Errorf("%s %s: redirect = %q", tt.state, tt.path, d.Redirect)
		}
	}
}

func TestMatch(t *testing.T) {
	r, ok := Match(Routes, "/edit-profile/7?tab=1")
	if !ok || r.Name != "edit-profile" {
		t.Fatalf("match = %+v %v", r, ok)
	}
	if _, ok := Match(Routes, "/admin/edit-user"); ok {
		t.Fatal("matched without id")
	}
}

func TestMiddleware(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
	h := NewGuard(fixed(AuthenticatedUser), Routes).Middleware(Admin)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if called || rec.Code != http.StatusFound || rec.Header().Get("Location") != EntryPoint {
		t.Fatalf("called %v code %d", called, rec.Code)
	}
}

func TestClaims(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "guest@hotel.test",
		"role": "USER",
		"exp":  exp.Unix(),
	}).SignedString([]byte("any key"))
	if err != nil {
		t.Fatal(err)
	}
	info, err := Claims(tok)
	if err != nil {
		t.Fatal(err)
	}
	if info.Subject != "guest@hotel.test" || info.Role != "USER" || info.Expires != "2030-01-02 03:04:05Z" {
		t.Fatalf("info = %+v", info)
	}
	if _, err := Claims("not a token"); err == nil {
		t.Fatal("garbage parsed")
	}
}
