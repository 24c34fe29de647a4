package models

import (
	"errors"
	"fmt"
)

// Response is the envelope every backend endpoint answers with.
type Response struct {
	StatusCode              int       `json:"statusCode"`
	Message                 string    `json:"message,omitempty"`
	Token                   string    `json:"token,omitempty"`
	Role                    Role      `json:"role,omitempty"`
	ExpirationTime          string    `json:"expirationTime,omitempty"`
	BookingConfirmationCode string    `json:"bookingConfirmationCode,omitempty"`
	User                    *User     `json:"user,omitempty"`
	Room                    *Room     `json:"room,omitempty"`
	Booking                 *Booking  `json:"booking,omitempty"`
	UserList                []User    `json:"userList,omitempty"`
	RoomList                []Room    `json:"roomList,omitempty"`
	BookingList             []Booking `json:"bookingList,omitempty"`
}

// Field names an envelope member an operation depends on.
type Field string

const (
	FieldToken            Field = "token"
	FieldRole             Field = "role"
	FieldUser             Field = "user"
	FieldRoom             Field = "room"
	FieldBooking          Field = "booking"
	FieldUserList         Field = "userList"
	FieldRoomList         Field = "roomList"
	FieldBookingList      Field = "bookingList"
	FieldConfirmationCode Field = "bookingConfirmationCode"
)

var ErrMissingField = errors.New("missing field")

// Require checks that every field is present and that the entities it
// carries pass their schema tags.
func (r *Response) Require(fields ...Field) error {
	for _, f := range fields {
		if err := r.require(f); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
	}
	return nil
}

func (r *Response) require(f Field) error {
	switch f {
	case FieldToken:
		if r.Token == "" {
			return ErrMissingField
		}
	case FieldRole:
		if r.Role != RoleUser && r.Role != RoleAdmin {
			return fmt.Errorf("unknown role %q", r.Role)
		}
	case FieldConfirmationCode:
		if r.BookingConfirmationCode == "" {
			return ErrMissingField
		}
	case FieldUser:
		if r.User == nil {
			return ErrMissingField
		}
		return validate.Struct(r.User)
	case FieldRoom:
		if r.Room == nil {
			return ErrMissingField
		}
		return validate.Struct(r.Room)
	case FieldBooking:
		if r.Booking == nil {
			return ErrMissingField
		}
		return validate.Struct(r.Booking)
	case FieldUserList:
		if r.UserList == nil {
			return ErrMissingField
		}
		return each(r.UserList)
	case FieldRoomList:
		if r.RoomList == nil {
			return ErrMissingField
		}
		return each(r.RoomList)
	case FieldBookingList:
		if r.BookingList == nil {
			return ErrMissingField
		}
		return each(r.BookingList)
	default:
		return fmt.Errorf("unknown field %q", f)
	}
	return nil
}

func each[T any](items []T) error {
	for i := range items {
		if err := validate.Struct(&items[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
