package views

import (
	"context"

	"hotelres/internal/booking"
	"hotelres/internal/listing"
	"hotelres/internal/models"
	"hotelres/internal/utils"
)

const (
	MsgSelectAll      = "Please select all fields"
	MsgNoRooms        = "No rooms available for the selected date range and room type."
	MsgCheckOutBefore = "Check-out date must be after check-in date."
	MsgBooked         = "Your booking has been confirmed. Check your email for further instructions"
	MsgEnterCode      = "Please enter a booking confirmation code"
)

// AllRooms is the public room catalogue.
type AllRooms struct {
	*base
	List  *listing.Controller[models.Room]
	Types []string
}

func NewAllRooms(ctx context.Context, d Deps) *AllRooms {
	return &AllRooms{base: newBase(ctx, d), List: listing.AllRooms()}
}

func (v *AllRooms) Load() error {
	rooms, err := v.API.AllRooms(v.ctx())
	if err != nil {
		return v.fail("all rooms", err)
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

// Show replaces the catalogue with search results.
func (v *AllRooms) Show(rooms []models.Room) error {
	return v.apply(func() { v.List.Load(rooms) })
}

type RoomSearch struct{ *base }

func NewRoomSearch(ctx context.Context, d Deps) *RoomSearch { return &RoomSearch{newBase(ctx, d)} }

// Search lists rooms of roomType free over the whole range. An empty result
// is reported as an error notice, not an error.
func (v *RoomSearch) Search(checkIn, checkOut models.Date, roomType string) ([]models.Room, error) {
	if checkIn.IsZero() || checkOut.IsZero() || roomType == "" {
		return nil, v.invalid("search", MsgSelectAll)
	}
	res, err := v.API.AvailableRooms(v.ctx(), checkIn, checkOut, roomType)
	if err != nil {
		return nil, v.fail("search", err)
	}
	if len(res.RoomList) == 0 {
		v.Notices.Error(MsgNoRooms)
	}
	return res.RoomList, nil
}

// RoomDetails shows one room and books it for the logged-in user.
type RoomDetails struct {
	*base
	roomID int64
	Room   *models.Room
	User   *models.User
	code   string
}

func NewRoomDetails(ctx context.Context, d Deps, roomID int64) *RoomDetails {
	return &RoomDetails{base: newBase(ctx, d), roomID: roomID}
}

func (v *RoomDetails) Load() error {
	room, err := v.API.RoomByID(v.ctx(), v.roomID)
	if err != nil {
		return v.fail("room details", err)
	}
	profile, err := v.API.Profile(v.ctx())
	if err != nil {
		return v.fail("room details", err)
	}
	return v.apply(func() {
		v.Room = room.Room
		v.User = profile.User
	})
}

func (v *RoomDetails) input(checkIn, checkOut models.Date, adults, children int) (booking.Input, error) {
	in := booking.Input{CheckIn: checkIn, CheckOut: checkOut, Adults: adults, Children: children}
	if v.Room != nil {
		in.PricePerNight = v.Room.Price
	}
	if err := in.Validate(); err != nil {
		return in, v.fail("quote", err)
	}
	if checkOut.Before(checkIn) {
		return in, v.invalid("checkOutDate", MsgCheckOutBefore)
	}
	return in, nil
}

// Quote prices the stay without submitting it.
func (v *RoomDetails) Quote(checkIn, checkOut models.Date, adults, children int) (booking.Quote, error) {
	in, err := v.input(checkIn, checkOut, adults, children)
	if err != nil {
		return booking.Quote{}, err
	}
	return booking.Calculate(in)
}

// Finalize submits the booking and returns its confirmation code.
func (v *RoomDetails) Finalize(checkIn, checkOut models.Date, adults, children int) (string, error) {
	var code string
	err := v.once(func() error {
		in, err := v.input(checkIn, checkOut, adults, children)
		if err != nil {
			return err
		}
		if v.User == nil {
			return v.fail("book", utils.NewAPIError(0, "", nil))
		}
		res, err := v.API.BookRoom(v.ctx(), v.Room.ID, v.User.ID, in.Request())
		if err != nil {
			return v.fail("book", err)
		}
		if err := v.apply(func() { v.code = res.BookingConfirmationCode }); err != nil {
			return err
		}
		code = res.BookingConfirmationCode
		v.succeed(MsgBooked)
		return nil
	})
	return code, err
}

// Code is the confirmation code of the last booking made here.
func (v *RoomDetails) Code() string { return v.code }

// FindBooking looks a booking up by confirmation code. A code that matches
// nothing leaves the view empty.
type FindBooking struct {
	*base
	Booking *models.Booking
}

func NewFindBooking(ctx context.Context, d Deps) *FindBooking {
	return &FindBooking{base: newBase(ctx, d)}
}

func (v *FindBooking) Find(code string) (*models.Booking, error) {
	if code == "" {
		return nil, v.invalid("confirmationCode", MsgEnterCode)
	}
	res, err := v.API.BookingByCode(v.ctx(), code)
	if utils.IsNotFound(err) {
		return nil, v.apply(func() { v.Booking = nil })
	}
	if err != nil {
		return nil, v.fail("find booking", err)
	}
	if err := v.apply(func() { v.Booking = res.Booking }); err != nil {
		return nil, err
	}
	return res.Booking, nil
}
