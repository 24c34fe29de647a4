package views

import (
	"context"

	"hotelres/internal/auth"
	"hotelres/internal/listing"
	"hotelres/internal/models"
)

const (
	MsgRoomDetails    = "All room details must be provided."
	MsgRoomAdded      = "Room Added successfully"
	MsgRoomUpdated    = "Room updated successfully."
	MsgRoomDeleted    = "Room Deleted successfully."
	MsgUserUpdated    = "User updated successfully"
	MsgUserDeleted    = "User deleted successfully."
	MsgBookingMissing = "Unable to get booking details"
	MsgCancelled      = "The booking was successfully cancelled"

	DeleteRoomPrompt    = "Are you sure you want to delete this room?"
	DeleteUserPrompt    = "Are you sure you want to delete this user?"
	CancelBookingPrompt = "Are you sure you want to cancel this booking?"
)

// Dashboard is the admin landing page.
type Dashboard struct {
	*base
	Admin    *models.User
	Rooms    int
	Bookings int
	Users    int
}

func NewDashboard(ctx context.Context, d Deps) *Dashboard { return &Dashboard{base: newBase(ctx, d)} }

func (v *Dashboard) Load() error {
	ctx := v.ctx()
	profile, err := v.API.Profile(ctx)
	if err != nil {
		return v.fail("dashboard", err)
	}
	rooms, err := v.API.AllRooms(ctx)
	if err != nil {
		return v.fail("dashboard", err)
	}
	bookings, err := v.API.AllBookings(ctx)
	if err != nil {
		return v.fail("dashboard", err)
	}
	users, err := v.API.AllUsers(ctx)
	if err != nil {
		return v.fail("dashboard", err)
	}
	listed := 0
	for _, u := range users.UserList {
		if u.Listed() {
			listed++
		}
	}
	return v.apply(func() {
		v.Admin = profile.User
		v.Rooms = len(rooms.RoomList)
		v.Bookings = len(bookings.BookingList)
		v.Users = listed
	})
}

// confirmed asks before a destructive action; no confirmer means no.
func confirmed(c auth.Confirmer, prompt string) bool {
	return c != nil && c.Confirm(prompt)
}

type ManageRooms struct {
	*base
	List  *listing.Controller[models.Room]
	Types []string
}

func NewManageRooms(ctx context.Context, d Deps) *ManageRooms {
	return &ManageRooms{base: newBase(ctx, d), List: listing.ManageRooms()}
}

func (v *ManageRooms) Load() error {
	rooms, err := v.API.AllRooms(v.ctx())
	if err != nil {
		return v.fail("manage rooms", err)
	}
	types, err := v.API.RoomTypes(v.ctx())
	if err != nil {
		return v.fail("room types", err)
	}
	return v.apply(func() {
		v.List.Load(rooms.RoomList)
		v.Types = types
	})
}

// Delete removes the room and drops it from the list in place.
func (v *ManageRooms) Delete(roomID int64, c auth.Confirmer) error {
	if !confirmed(c, DeleteRoomPrompt) {
		return nil
	}
	return v.once(func() error {
		if _, err := v.API.DeleteRoom(v.ctx(), roomID); err != nil {
			return v.fail("delete room", err)
		}
		if err := v.apply(func() { v.List.Remove(roomID) }); err != nil {
			return err
		}
		v.succeed(MsgRoomDeleted)
		return nil
	})
}

type AddRoom struct {
	*base
	Types []string
}

func NewAddRoom(ctx context.Context, d Deps) *AddRoom { return &AddRoom{base: newBase(ctx, d)} }

// Load fetches the known room types to pick from.
func (v *AddRoom) Load() error {
	types, err := v.API.RoomTypes(v.ctx())
	if err != nil {
		return v.fail("room types", err)
	}
	return v.apply(func() { v.Types = types })
}

func (v *AddRoom) Submit(form models.RoomForm, image *models.Upload) error {
	return v.once(func() error {
		if err := models.Check(form, MsgRoomDetails); err != nil {
			return v.fail("add room", err)
		}
		if _, err := v.API.AddRoom(v.ctx(), form, image); err != nil {
			return v.fail("add room", err)
		}
		v.succeed(MsgRoomAdded)
		return nil
	})
}

type EditRoom struct {
	*base
	roomID int64
	Room   *models.Room
}

func NewEditRoom(ctx context.Context, d Deps, roomID int64) *EditRoom {
	return &EditRoom{base: newBase(ctx, d), roomID: roomID}
}

func (v *EditRoom) Load() error {
	res, err := v.API.RoomByID(v.ctx(), v.roomID)
	if err != nil {
		return v.fail("edit room", err)
	}
	return v.apply(func() { v.Room = res.Room })
}

// Form is the loaded room as an editable form.
func (v *EditRoom) Form() models.RoomForm {
	if v.Room == nil {
		return models.RoomForm{}
	}
	return models.RoomForm{Name: v.Room.Name, Type: v.Room.Type, Price: v.Room.Price, Description: v.Room.Description}
}

func (v *EditRoom) Update(form models.RoomForm, image *models.Upload) error {
	return v.once(func() error {
		if err := models.Check(form, MsgRoomDetails); err != nil {
			return v.fail("update room", err)
		}
		res, err := v.API.UpdateRoom(v.ctx(), v.roomID, form, image)
		if err != nil {
			return v.fail("update room", err)
		}
		if res.Room != nil {
			if err := v.apply(func() { v.Room = res.Room }); err != nil {
				return err
			}
		}
		v.succeed(MsgRoomUpdated)
		return nil
	})
}

func (v *EditRoom) Delete(c auth.Confirmer) error {
	if !confirmed(c, DeleteRoomPrompt) {
		return nil
	}
	return v.once(func() error {
		if _, err := v.API.DeleteRoom(v.ctx(), v.roomID); err != nil {
			return v.fail("delete room", err)
		}
		v.succeed(MsgRoomDeleted)
		return nil
	})
}

type ManageUsers struct {
	*base
	List *listing.Controller[models.User]
}

func NewManageUsers(ctx context.Context, d Deps) *ManageUsers {
	return &ManageUsers{base: newBase(ctx, d), List: listing.ManageUsers()}
}

// Load lists active, non-deleted accounts only.
func (v *ManageUsers) Load() error {
	res, err := v.API.AllUsers(v.ctx())
	if err != nil {
		return v.fail("manage users", err)
	}
	return v.apply(func() { listing.LoadUsers(v.List, res.UserList) })
}

func (v *ManageUsers) Delete(userID int64, c auth.Confirmer) error {
	if !confirmed(c, DeleteUserPrompt) {
		return nil
	}
	return v.once(func() error {
		if _, err := v.API.DeleteUser(v.ctx(), userID); err != nil {
			return v.fail("delete user", err)
		}
		if err := v.apply(func() { v.List.Remove(userID) }); err != nil {
			return err
		}
		v.succeed(MsgUserDeleted)
		return nil
	})
}

type AddUser struct{ *base }

func NewAddUser(ctx context.Context, d Deps) *AddUser { return &AddUser{newBase(ctx, d)} }

// Submit creates an active account; the role defaults to USER.
func (v *AddUser) Submit(form models.RegisterForm, image *models.Upload) error {
	return v.once(func() error {
		if form.Role == "" {
			form.Role = models.RoleUser
		}
		if err := models.Check(form, MsgFillAll); err != nil {
			return v.fail("add user", err)
		}
		if _, err := v.API.AddUser(v.ctx(), form, image); err != nil {
			return v.fail("add user", err)
		}
		v.succeed(MsgRegistered)
		return nil
	})
}

type EditUser struct {
	*base
	userID int64
	User   *models.User
}

func NewEditUser(ctx context.Context, d Deps, userID int64) *EditUser {
	return &EditUser{base: newBase(ctx, d), userID: userID}
}

func (v *EditUser) Load() error {
	res, err := v.API.UserByID(v.ctx(), v.userID)
	if err != nil {
		return v.fail("edit user", err)
	}
	return v.apply(func() { v.User = res.User })
}

func (v *EditUser) Form() models.UserForm {
	if v.User == nil {
		return models.UserForm{}
	}
	return userForm(*v.User)
}

func (v *EditUser) Submit(form models.UserForm, image *models.Upload) error {
	return v.once(func() error {
		if form.Role == "" {
			form.Role = models.RoleUser
		}
		if err := models.Check(form, MsgFillAll); err != nil {
			return v.fail("edit user", err)
		}
		if _, err := v.API.UpdateUser(v.ctx(), v.userID, form, image); err != nil {
			return v.fail("edit user", err)
		}
		v.succeed(MsgUserUpdated)
		return nil
	})
}

func (v *EditUser) Delete(c auth.Confirmer) error {
	if !confirmed(c, DeleteUserPrompt) {
		return nil
	}
	return v.once(func() error {
		if _, err := v.API.DeleteUser(v.ctx(), v.userID); err != nil {
			return v.fail("delete user", err)
		}
		v.succeed(MsgUserDeleted)
		return nil
	})
}

type ManageBookings struct {
	*base
	List *listing.Controller[models.Booking]
}

func NewManageBookings(ctx context.Context, d Deps) *ManageBookings {
	return &ManageBookings{base: newBase(ctx, d), List: listing.ManageBookings()}
}

func (v *ManageBookings) Load() error {
	res, err := v.API.AllBookings(v.ctx())
	if err != nil {
		return v.fail("manage bookings", err)
	}
	return v.apply(func() { v.List.Load(res.BookingList) })
}

// EditBooking is one booking looked up by code, which an admin may cancel.
type EditBooking struct {
	*base
	code    string
	Booking *models.Booking
}

func NewEditBooking(ctx context.Context, d Deps, code string) *EditBooking {
	return &EditBooking{base: newBase(ctx, d), code: code}
}

func (v *EditBooking) Load() error {
	res, err := v.API.BookingByCode(v.ctx(), v.code)
	if err != nil {
		v.Log.Warnf("edit booking %s: %v", v.code, err)
		if !v.scope.Closed() {
			v.Notices.Error(MsgBookingMissing)
		}
		return err
	}
	return v.apply(func() { v.Booking = res.Booking })
}

func (v *EditBooking) Cancel(c auth.Confirmer) error {
	if !confirmed(c, CancelBookingPrompt) {
		return nil
	}
	return v.once(func() error {
		if v.Booking == nil {
			return v.invalid("booking", MsgBookingMissing)
		}
		if _, err := v.API.CancelBooking(v.ctx(), v.Booking.ID); err != nil {
			return v.fail("cancel booking", err)
		}
		v.succeed(MsgCancelled)
		return nil
	})
}
