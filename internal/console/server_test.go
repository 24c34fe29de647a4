package console

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"hotelres/internal/api"
	"hotelres/internal/apitest"
	"hotelres/internal/auth"
	"hotelres/internal/models"
	"hotelres/internal/views"
)

type harness struct {
	backend *apitest.Backend
	session *auth.Session
	srv     *httptest.Server
	client  *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b, base := apitest.Start(t)
	b.SeedUser(models.User{Username: "admin", Email: "admin@hotel.test", Role: models.RoleAdmin}, "pw")
	b.SeedUser(models.User{Username: "guest", Email: "guest@hotel.test", Phone: "1", Address: "a", City: "c"}, "pw")
	b.SeedRoom(models.Room{Name: "A", Type: "Single", Price: 80})

	session := auth.NewSession(auth.NewMemoryStore(auth.Credentials{}))
	if err := session.Init(); err != nil {
		t.Fatal(err)
	}
	s := NewServer(views.Deps{API: api.NewClient(base, session), Session: session}, []byte("0123456789abcdef0123456789abcdef"))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &harness{backend: b, session: session, srv: srv, client: client}
}

func (h *harness) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, h.srv.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (h *harness) login(t *testing.T, email string) {
	t.Helper()
	resp := h.do(t, http.MethodPost, "/login", models.Credentials{Email: email, Password: "pw"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestAuthenticatedRouteRedirectsAnonymous(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodGet, "/profile", nil)

	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != auth.EntryPoint {
		t.Fatalf("status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if calls := h.backend.Calls(); len(calls) != 0 {
		t.Fatalf("backend called: %+v", calls)
	}
}

func TestAdminRouteRedirectsUser(t *testing.T) {
	h := newHarness(t)
	h.login(t, "guest@hotel.test")
	h.backend.ResetCalls()

	resp := h.do(t, http.MethodGet, "/admin/manage-rooms", nil)
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != auth.EntryPoint {
		t.Fatalf("status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if calls := h.backend.Calls(); len(calls) != 0 {
		t.Fatalf("backend called: %+v", calls)
	}
}

func TestUnknownPathRedirects(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodGet, "/nowhere", nil)
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != auth.EntryPoint {
		t.Fatalf("status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestValidationNoticeIsFlashed(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/login", models.Credentials{Email: "admin@hotel.test"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var notes []views.Notice
	decodeBody(t, h.do(t, http.MethodGet, "/notices", nil), &notes)
	if len(notes) != 1 || notes[0].Kind != views.KindError || notes[0].Text != views.MsgFillIn {
		t.Fatalf("notices = %+v", notes)
	}

	decodeBody(t, h.do(t, http.MethodGet, "/notices", nil), &notes)
	if len(notes) != 0 {
		t.Fatalf("flashes not consumed: %+v", notes)
	}
}

func TestAdminManageRooms(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin@hotel.test")

	resp := h.do(t, http.MethodGet, "/admin/manage-rooms?sort=price&dir=desc", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Types []string `json:"types"`
		Rooms struct {
			Items []models.Room `json:"items"`
			Pages int           `json:"pages"`
		} `json:"rooms"`
	}
	decodeBody(t, resp, &body)
	if len(body.Rooms.Items) != 1 || body.Rooms.Pages != 1 || len(body.Types) != 1 {
		t.Fatalf("body = %+v", body)
	}
}

func TestLogoutNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	h.login(t, "guest@hotel.test")

	h.do(t, http.MethodDelete, "/profile", nil)
	if !h.session.IsAuthenticated() {
		t.Fatal("unconfirmed logout cleared the session")
	}
	resp := h.do(t, http.MethodDelete, "/profile?confirm=yes", nil)
	if resp.StatusCode != http.StatusOK || h.session.IsAuthenticated() {
		t.Fatalf("status %d, state %s", resp.StatusCode, h.session.State())
	}
	if resp := h.do(t, http.MethodGet, "/profile", nil); resp.StatusCode != http.StatusFound {
		t.Fatalf("profile after logout = %d", resp.StatusCode)
	}
}

func TestBookThroughConsole(t *testing.T) {
	h := newHarness(t)
	h.login(t, "guest@hotel.test")

	var quote struct {
		Quote struct {
			TotalNights int
			TotalPrice  float64
		} `json:"quote"`
	}
	decodeBody(t, h.do(t, http.MethodGet, "/room-details-book/3?checkIn=2024-01-10&checkOut=2024-01-12&adults=1", nil), &quote)
	if quote.Quote.TotalNights != 3 || quote.Quote.TotalPrice != 240 {
		t.Fatalf("quote = %+v", quote)
	}

	resp := h.do(t, http.MethodPost, "/room-details-book/3", map[string]any{
		"checkInDate": "2024-01-10", "checkOutDate": "2024-01-12", "numberOfAdults": 1,
	})
	var booked map[string]string
	decodeBody(t, resp, &booked)
	code := booked["bookingConfirmationCode"]
	if resp.StatusCode != http.StatusOK || code == "" {
		t.Fatalf("status %d body %v", resp.StatusCode, booked)
	}

	var found struct {
		Booking *models.Booking `json:"booking"`
	}
	decodeBody(t, h.do(t, http.MethodGet, "/find-booking?code="+code, nil), &found)
	if found.Booking == nil || found.Booking.ConfirmationCode != code {
		t.Fatalf("found = %+v", found)
	}
}
