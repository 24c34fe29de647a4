package models

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           int64     `json:"id" validate:"required"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Role         Role      `json:"role"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Active       bool      `json:"active"`
	Deleted      bool      `json:"_deleted"`
	Bookings     []Booking `json:"bookings,omitempty" validate:"-"`
}

// Listed reports whether the admin user list shows u.
func (u User) Listed() bool { return u.Active && !u.Deleted }
