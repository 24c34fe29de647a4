package views

import (
	"context"
	"errors"

	"hotelres/internal/auth"
	"hotelres/internal/models"
)

const (
	MsgProfileFailed = "Failed to load profile data."
	MsgProfileSaved  = "User updated successfully"
)

// Profile is the logged-in user's page with their bookings.
type Profile struct {
	*base
	User     *models.User
	Bookings []models.Booking
}

func NewProfile(ctx context.Context, d Deps) *Profile { return &Profile{base: newBase(ctx, d)} }

func (v *Profile) Load() error {
	res, err := v.API.Profile(v.ctx())
	if err != nil {
		return v.fail("profile", err)
	}
	bookings, err := v.API.UserBookings(v.ctx(), res.User.ID)
	if err != nil {
		return v.fail("profile bookings", err)
	}
	return v.apply(func() {
		v.User = res.User
		v.Bookings = bookings.BookingList
	})
}

// Logout clears the session once confirm agrees. A declined prompt changes
// nothing.
func (v *Profile) Logout(confirm auth.Confirmer) error {
	err := v.Session.Logout(confirm)
	if errors.Is(err, auth.ErrLogoutCancelled) {
		return err
	}
	if err != nil {
		return v.fail("logout", err)
	}
	v.Log.Infof("logged out")
	return nil
}

// EditProfile edits the logged-in user's own record. The role is kept.
type EditProfile struct {
	*base
	User *models.User
}

func NewEditProfile(ctx context.Context, d Deps) *EditProfile {
	return &EditProfile{base: newBase(ctx, d)}
}

func (v *EditProfile) Load() error {
	res, err := v.API.Profile(v.ctx())
	if err != nil {
		return v.fail("edit profile", err)
	}
	return v.apply(func() { v.User = res.User })
}

// Form is the current record as an editable form.
func (v *EditProfile) Form() models.UserForm {
	if v.User == nil {
		return models.UserForm{}
	}
	return userForm(*v.User)
}

func (v *EditProfile) Submit(form models.UserForm, image *models.Upload) error {
	return v.once(func() error {
		if v.User == nil {
			return v.invalid("user", MsgProfileFailed)
		}
		form.Role = v.User.Role
		if err := models.Check(form, MsgFillAll); err != nil {
			return v.fail("edit profile", err)
		}
		if _, err := v.API.UpdateUser(v.ctx(), v.User.ID, form, image); err != nil {
			return v.fail("edit profile", err)
		}
		v.succeed(MsgProfileSaved)
		return nil
	})
}

func userForm(u models.User) models.UserForm {
	return models.UserForm{
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Address:  u.Address,
		City:     u.City,
		Role:     u.Role,
	}
}
