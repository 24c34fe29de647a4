package models

import "encoding/json"

type Booking struct {
	ID                  int64  `json:"id"`
	ConfirmationCode    string `json:"bookingConfirmationCode" validate:"required"`
	CheckInDate         Date   `json:"checkInDate"`
	CheckOutDate        Date   `json:"checkOutDate"`
	NumberOfAdults      int    `json:"numberOfAdults"`
	NumberOfChildren    int    `json:"numberOfChildren"`
	TotalNumberOfGuests int    `json:"totalNumberOfGuests"`
	User                *User  `json:"user,omitempty" validate:"-"`
	Room                *Room  `json:"room,omitempty" validate:"-"`
}

// Guests is always adults + children, whatever the backend sent.
func (b Booking) Guests() int { return b.NumberOfAdults + b.NumberOfChildren }

// UnmarshalJSON recomputes TotalNumberOfGuests from the decoded counts, so
// every booking read off the wire, nested ones included, displays Guests().
func (b *Booking) UnmarshalJSON(data []byte) error {
	type plain Booking
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Booking(p)
	b.TotalNumberOfGuests = b.Guests()
	return nil
}

// BookingRequest is the body of a booking submission.
type BookingRequest struct {
	CheckInDate      Date `json:"checkInDate"`
	CheckOutDate     Date `json:"checkOutDate"`
	NumberOfAdults   int  `json:"numberOfAdults"`
	NumberOfChildren int  `json:"numberOfChildren"`
}
