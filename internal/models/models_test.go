package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hotelres/internal/utils"
)

func TestDateJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{`"2024-02-29"`, NewDate(2024, time.February, 29)},
		{`[2024, 2, 29]`, NewDate(2024, time.February, 29)},
		{`"2024-02-29T10:00:00"`, NewDate(2024, time.February, 29)},
		{`null`, Date{}},
		{`""`, Date{}},
	}
	for _, tt := range tests {
		var d Date
		if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if !d.Equal(tt.want) {
			t.Errorf("%s = %v, want %v", tt.in, d, tt.want)
		}
	}

	out, err := json.Marshal(BookingRequest{CheckInDate: MustDate("2024-01-10")})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"checkInDate":"2024-01-10","checkOutDate":null,"numberOfAdults":0,"numberOfChildren":0}`
	if string(out) != want {
		t.Fatalf("marshal = %s", out)
	}
}

func TestDateRejectsGarbage(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"10/01/2024"`), &d); err == nil {
		t.Fatal("expected error")
	}
	if err := json.Unmarshal([]byte(`[2024]`), &d); err == nil {
		t.Fatal("expected error for short array")
	}
}

func TestDays(t *testing.T) {
	a, b := MustDate("2024-01-10"), MustDate("2024-01-12")
	if got := a.Days(b); got != 2 {
		t.Fatalf("Days = %v", got)
	}
	if got := b.Days(a); got != -2 {
		t.Fatalf("reverse Days = %v", got)
	}
}

func TestRequire(t *testing.T) {
	r := &Response{Token: "t", Role: RoleAdmin}
	if err := r.Require(FieldToken, FieldRole); err != nil {
		t.Fatal(err)
	}
	if err := r.Require(FieldRoomList); !errors.Is(err, ErrMissingField) {
		t.Fatalf("missing list: %v", err)
	}

	r = &Response{Role: "GUEST"}
	if err := r.Require(FieldRole); err == nil {
		t.Fatal("unknown role accepted")
	}

	r = &Response{RoomList: []Room{}}
	if err := r.Require(FieldRoomList); err != nil {
		t.Fatalf("empty list rejected: %v", err)
	}

	r = &Response{RoomList: []Room{{ID: 1}, {Name: "no id"}}}
	if err := r.Require(FieldRoomList); err == nil {
		t.Fatal("room without id accepted")
	}
}

func TestCheck(t *testing.T) {
	err := Check(Credentials{Email: "a@b.c"}, "fill in")
	var verr *utils.ValidationError
	if !errors.As(err, &verr) || verr.Field != "password" || verr.Message != "fill in" {
		t.Fatalf("err = %#v", err)
	}

	err = Check(ResetPasswordForm{Password: "a", Password2: "b"}, "fill in")
	if !errors.As(err, &verr) || verr.Message != "Passwords do not match." {
		t.Fatalf("mismatch err = %#v", err)
	}

	if err := Check(RoomForm{Name: "n", Type: "t", Price: 0, Description: "d"}, "x"); err == nil {
		t.Fatal("zero price accepted")
	}
	if err := Check(RegisterForm{Username: "u", Email: "u@x.io", Password: "p", Phone: "1", Address: "a", City: "c"}, "x"); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
}

func TestListed(t *testing.T) {
	if (User{Active: true, Deleted: true}).Listed() || (User{}).Listed() {
		t.Fatal("hidden users listed")
	}
	if !(User{Active: true}).Listed() {
		t.Fatal("active user hidden")
	}
}

func TestBookingGuestsRecomputedOnDecode(t *testing.T) {
	body := `{"user":{"id":1,"bookings":[{"bookingConfirmationCode":"A","numberOfAdults":1,"numberOfChildren":2,"totalNumberOfGuests":7}]},` +
		`"booking":{"bookingConfirmationCode":"B","numberOfAdults":2,"totalNumberOfGuests":0,` +
		`"room":{"id":3,"bookings":[{"bookingConfirmationCode":"C","numberOfAdults":4,"totalNumberOfGuests":1}]}}}`
	var r Response
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		got  Booking
		want int
	}{
		{"user booking", r.User.Bookings[0], 3},
		{"booking", *r.Booking, 2},
		{"room booking", r.Booking.Room.Bookings[0], 4},
	}
	for _, tt := range tests {
		if tt.got.TotalNumberOfGuests != tt.want || tt.got.TotalNumberOfGuests != tt.got.Guests() {
			t.Errorf("%s: total = %d, want %d", tt.name, tt.got.TotalNumberOfGuests, tt.want)
		}
	}
	if d := r.Booking.CheckInDate; !d.IsZero() {
		t.Errorf("absent date decoded as %v", d)
	}
}
