package listing

import (
	"strconv"

	"hotelres/internal/models"
)

const (
	AllRoomsPageSize       = 6
	ManageRoomsPageSize    = 5
	ManageUsersPageSize    = 5
	ManageBookingsPageSize = 6
)

func roomID(r models.Room) int64       { return r.ID }
func roomType(r models.Room) string    { return r.Type }
func userID(u models.User) int64       { return u.ID }
func bookingID(b models.Booking) int64 { return b.ID }

func price(r models.Room) string { return strconv.FormatFloat(r.Price, 'f', -1, 64) }

// AllRooms is the public room list: type filter only.
func AllRooms() *Controller[models.Room] {
	return NewController(Config[models.Room]{
		PageSize:    AllRoomsPageSize,
		ID:          roomID,
		FilterField: roomType,
	})
}

// ManageRooms is the admin room table.
func ManageRooms() *Controller[models.Room] {
	return NewController(Config[models.Room]{
		PageSize:    ManageRoomsPageSize,
		ID:          roomID,
		FilterField: roomType,
		SearchFields: []func(models.Room) string{
			func(r models.Room) string { return r.Name },
			roomType,
			price,
		},
		Columns: []Column[models.Room]{
			StringColumn("name", func(r models.Room) string { return r.Name }),
			StringColumn("type", roomType),
			NumberColumn("price", func(r models.Room) float64 { return r.Price }),
			BoolColumn("_booked", func(r models.Room) bool { return r.Booked }),
		},
	})
}

// ManageUsers is the admin user table. Load it through LoadUsers so that
// inactive and deleted accounts stay hidden.
func ManageUsers() *Controller[models.User] {
	str := func(name string, get func(models.User) string) Column[models.User] {
		return StringColumn(name, get)
	}
	username := func(u models.User) string { return u.Username }
	email := func(u models.User) string { return u.Email }
	phone := func(u models.User) string { return u.Phone }
	address := func(u models.User) string { return u.Address }
	city := func(u models.User) string { return u.City }
	return NewController(Config[models.User]{
		PageSize:     ManageUsersPageSize,
		ID:           userID,
		FilterField:  func(u models.User) string { return string(u.Role) },
		SearchFields: []func(models.User) string{username, email, phone, address, city},
		Columns: []Column[models.User]{
			str("username", username),
			str("email", email),
			str("phone", phone),
			str("address", address),
			str("city", city),
			str("role", func(u models.User) string { return string(u.Role) }),
		},
	})
}

func LoadUsers(c *Controller[models.User], users []models.User) {
	c.Load(Filter(users, models.User.Listed))
}

// ManageBookings is the admin booking table, searched by confirmation code.
func ManageBookings() *Controller[models.Booking] {
	return NewController(Config[models.Booking]{
		PageSize:     ManageBookingsPageSize,
		ID:           bookingID,
		SearchFields: []func(models.Booking) string{func(b models.Booking) string { return b.ConfirmationCode }},
	})
}
