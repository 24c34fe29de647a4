package models

type Room struct {
	ID          int64     `json:"id" validate:"required"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Price       float64   `json:"price" validate:"gte=0"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Booked      bool      `json:"_booked"`
	Bookings    []Booking `json:"bookings,omitempty" validate:"-"`
}
