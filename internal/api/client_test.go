package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"hotelres/internal/apitest"
	"hotelres/internal/models"
	"hotelres/internal/utils"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

const (
	adminEmail = "admin@hotel.test"
	guestEmail = "guest@hotel.test"
	password   = "secret"
)

func setup(t *testing.T) (*apitest.Backend, string) {
	t.Helper()
	b, base := apitest.Start(t)
	b.SeedUser(models.User{Username: "admin", Email: adminEmail, Role: models.RoleAdmin}, password)
	b.SeedUser(models.User{Username: "guest", Email: guestEmail}, password)
	return b, base
}

func TestLoginReturnsTokenAndRole(t *testing.T) {
	_, base := setup(t)
	c := NewClient(base, nil)

	res, err := c.Login(context.Background(), models.Credentials{Email: adminEmail, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" || res.Role != models.RoleAdmin {
		t.Fatalf("got token %q role %q", res.Token, res.Role)
	}
}

func TestBackendMessageOnFailure(t *testing.T) {
	_, base := setup(t)
	c := NewClient(base, nil)

	_, err := c.Login(context.Background(), models.Credentials{Email: adminEmail, Password: "wrong"})
	var apiErr *utils.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Invalid email or password" {
		t.Fatalf("got %d %q", apiErr.Status, apiErr.Message)
	}
}

func TestBearerTokenSent(t *testing.T) {
	b, base := setup(t)
	tok := b.Token(guestEmail)
	c := NewClient(base, staticToken(tok))

	res, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if res.User.Email != guestEmail {
		t.Fatalf("profile email = %q", res.User.Email)
	}
	calls := b.Calls()
	if got := calls[len(calls)-1].Authorization; got != "Bearer "+tok {
		t.Fatalf("Authorization = %q", got)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	b, base := setup(t)
	c := NewClient(base, staticToken(""))

	if _, err := c.AllRooms(context.Background()); err != nil {
		t.Fatalf("all rooms: %v", err)
	}
	if got := b.Calls()[0].Authorization; got != "" {
		t.Fatalf("Authorization = %q, want none", got)
	}
}

func TestGenericMessageWhenBackendSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).AllRooms(context.Background())
	if utils.Message(err) != utils.GenericMessage {
		t.Fatalf("message = %q", utils.Message(err))
	}
}

func TestDecodeErrorOnMissingList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statusCode":200,"message":"successful"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).AllRooms(context.Background())
	var decErr *utils.DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if !errors.Is(err, models.ErrMissingField) {
		t.Fatalf("expected missing field, got %v", err)
	}
}

func TestEnvelopeStatusIsChecked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statusCode":404,"message":"Room Not Found"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).RoomByID(context.Background(), 9)
	if !utils.IsNotFound(err) || utils.Message(err) != "Room Not Found" {
		t.Fatalf("got %v", err)
	}
}

func TestSingleAttempt(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, nil).AllBookings(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("hits = %d, want 1", n)
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).AllRooms(context.Background())
	var apiErr *utils.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 0 || apiErr.Message != MsgUnreachable {
		t.Fatalf("got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	_, base := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(base, nil).AllRooms(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestRegisterEncoding(t *testing.T) {
	b, base := setup(t)
	c := NewClient(base, nil)
	form := models.RegisterForm{Username: "ann", Email: "ann@hotel.test", Password: "pw", Phone: "1", Address: "a", City: "c"}

	if _, err := c.Register(context.Background(), form, nil); err != nil {
		t.Fatalf("register json: %v", err)
	}
	form.Email = "bob@hotel.test"
	if _, err := c.Register(context.Background(), form, &models.Upload{Filename: "me.png", Data: []byte("png")}); err != nil {
		t.Fatalf("register multipart: %v", err)
	}
	calls := b.Calls()
	if calls[0].ContentType != "application/json" {
		t.Fatalf("first content type = %q", calls[0].ContentType)
	}
	if calls[1].ContentType != "multipart/form-data" {
		t.Fatalf("second content type = %q", calls[1].ContentType)
	}
	if b.ActivationCode("bob@hotel.test") == "" {
		t.Fatal("no activation code issued")
	}
}

func TestActivateThenLogin(t *testing.T) {
	b, base := setup(t)
	c := NewClient(base, nil)
	ctx := context.Background()
	form := models.RegisterForm{Username: "ann", Email: "ann@hotel.test", Password: "pw", Phone: "1", Address: "a", City: "c"}
	if _, err := c.Register(ctx, form, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Login(ctx, models.Credentials{Email: form.Email, Password: "pw"}); err == nil {
		t.Fatal("inactive account logged in")
	}
	if _, err := c.VerifyAccount(ctx, b.ActivationCode(form.Email)); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := c.Login(ctx, models.Credentials{Email: form.Email, Password: "pw"}); err != nil {
		t.Fatalf("login after activation: %v", err)
	}
}

func TestPasswordReset(t *testing.T) {
	b, base := setup(t)
	c := NewClient(base, nil)
	ctx := context.Background()

	if _, err := c.ForgotPassword(ctx, models.ForgotPasswordForm{Email: guestEmail}); err != nil {
		t.Fatal(err)
	}
	code := b.ResetCode(guestEmail)
	info, err := c.ResetPasswordInfo(ctx, code)
	if err != nil {
		t.Fatal(err)
	}
	if info.User.Email != guestEmail {
		t.Fatalf("reset user = %q", info.User.Email)
	}
	if _, err := c.ResetPassword(ctx, code, models.ResetPasswordForm{Password: "new", Password2: "new"}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Login(ctx, models.Credentials{Email: guestEmail, Password: "new"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestRoomAdminFlow(t *testing.T) {
	b, base := setup(t)
	c := NewClient(base, staticToken(b.Token(adminEmail)))
	ctx := context.Background()

	_, err := c.AddRoom(ctx, models.RoomForm{Name: "Sea", Type: "Suite", Price: 250, Description: "view"}, &models.Upload{Filename: "sea.jpg", Data: []byte("jpg")})
	if err != nil {
		t.Fatalf("add room: %v", err)
	}
	calls := b.Calls()
	if !strings.HasPrefix(calls[len(calls)-1].ContentType, "multipart/") {
		t.Fatalf("add room content type = %q", calls[len(calls)-1].ContentType)
	}
	res, err := c.AllRooms(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.RoomList) != 1 || res.RoomList[0].Image != "/images/sea.jpg" || res.RoomList[0].Price != 250 {
		t.Fatalf("rooms = %+v", res.RoomList)
	}
	id := res.RoomList[0].ID
	if _, err := c.UpdateRoom(ctx, id, models.RoomForm{Name: "Sea", Type: "Suite", Price: 300, Description: "view"}, nil); err != nil {
		t.Fatal(err)
	}
	got, err := c.RoomByID(ctx, id)
	if err != nil || got.Room.Price != 300 {
		t.Fatalf("room after update = %+v, %v", got, err)
	}
	types, err := c.RoomTypes(ctx)
	if err != nil || len(types) != 1 || types[0] != "Suite" {
		t.Fatalf("types = %v, %v", types, err)
	}
	if _, err := c.DeleteRoom(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := c.RoomByID(ctx, id); !utils.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNonAdminRejected(t *testing.T) {
	b, base := setup(t)
	c := NewClient(base, staticToken(b.Token(guestEmail)))

	_, err := c.AllUsers(context.Background())
	var apiErr *utils.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("got %v", err)
	}
}

func TestBookingFlow(t *testing.T) {
	b, base := setup(t)
	room := b.SeedRoom(models.Room{Name: "Twin", Type: "Double", Price: 100})
	guest, _ := b.User(2)
	c := NewClient(base, staticToken(b.Token(guestEmail)))
	ctx := context.Background()

	req := models.BookingRequest{
		CheckInDate:    models.MustDate("2024-01-10"),
		CheckOutDate:   models.MustDate("2024-01-12"),
		NumberOfAdults: 2,
	}
	res, err := c.BookRoom(ctx, room.ID, guest.ID, req)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	code := res.BookingConfirmationCode

	found, err := NewClient(base, nil).BookingByCode(ctx, code)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Booking.Room == nil || found.Booking.Room.ID != room.ID || !found.Booking.CheckInDate.Equal(req.CheckInDate) {
		t.Fatalf("booking = %+v", found.Booking)
	}

	avail, err := c.AvailableRooms(ctx, models.MustDate("2024-01-11"), models.MustDate("2024-01-13"), "Double")
	if err != nil {
		t.Fatal(err)
	}
	if len(avail.RoomList) != 0 {
		t.Fatalf("booked room listed as available: %+v", avail.RoomList)
	}

	mine, err := c.UserBookings(ctx, guest.ID)
	if err != nil || len(mine.BookingList) != 1 {
		t.Fatalf("user bookings = %+v, %v", mine, err)
	}
	if _, err := c.CancelBooking(ctx, mine.BookingList[0].ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := c.BookingByCode(ctx, code); !utils.IsNotFound(err) {
		t.Fatalf("expected not found after cancel, got %v", err)
	}
}

func TestUserAdminFlow(t *testing.T) {
	b, base := setup(t)
	c := NewClient(base, staticToken(b.Token(adminEmail)))
	ctx := context.Background()

	form := models.RegisterForm{Username: "cy", Email: "cy@hotel.test", Password: "pw", Phone: "1", Address: "a", City: "c"}
	if _, err := c.AddUser(ctx, form, nil); err != nil {
		t.Fatal(err)
	}
	all, err := c.AllUsers(ctx)
	if err != nil || len(all.UserList) != 3 {
		t.Fatalf("users = %+v, %v", all, err)
	}
	added := all.UserList[2]
	if added.Role != models.RoleUser || !added.Active {
		t.Fatalf("added user = %+v", added)
	}
	edit := models.UserForm{Username: "cy2", Email: added.Email, Phone: "2", Address: "a", City: "c", Role: models.RoleAdmin}
	if _, err := c.UpdateUser(ctx, added.ID, edit, nil); err != nil {
		t.Fatal(err)
	}
	got, err := c.UserByID(ctx, added.ID)
	if err != nil || got.User.Username != "cy2" || got.User.Role != models.RoleAdmin {
		t.Fatalf("user = %+v, %v", got, err)
	}
	if _, err := c.DeleteUser(ctx, added.ID); err != nil {
		t.Fatal(err)
	}
	stored, _ := b.User(added.ID)
	if !stored.Deleted {
		t.Fatal("user not flagged deleted")
	}
}

func TestBodylessCallsSendNoContentType(t *testing.T) {
	b, base := setup(t)
	c := NewClient(base, staticToken(b.Token(adminEmail)))
	b.ResetCalls()
	if _, err := c.RoomTypes(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AllUsers(context.Background()); err != nil {
		t.Fatal(err)
	}
	calls := b.Calls()
	if len(calls) != 2 {
		t.Fatalf("calls = %+v", calls)
	}
	for _, call := range calls {
		if call.Method != http.MethodGet || call.ContentType != "" {
			t.Errorf("%s %s content type %q", call.Method, call.Path, call.ContentType)
		}
	}
}
