package main

import (
	"context"
	"errors"
	"fmt"

	"hotelres/internal/auth"
	"hotelres/internal/listing"
	"hotelres/internal/models"
	"hotelres/internal/views"
)

type command struct {
	requires auth.Requirement
	run      func(ctx context.Context, a *app) error
}

var commands = map[string]command{
	"login":        {auth.None, cmdLogin},
	"logout":       {auth.Authenticated, cmdLogout},
	"register":     {auth.None, cmdRegister},
	"activate":     {auth.None, cmdActivate},
	"forgot":       {auth.None, cmdForgot},
	"reset":        {auth.None, cmdReset},
	"whoami":       {auth.None, cmdWhoami},
	"rooms":        {auth.None, cmdRooms},
	"types":        {auth.None, cmdTypes},
	"search":       {auth.None, cmdSearch},
	"find-booking": {auth.None, cmdFindBooking},

	"room":         {auth.Authenticated, cmdRoom},
	"quote":        {auth.Authenticated, cmdQuote},
	"book":         {auth.Authenticated, cmdBook},
	"profile":      {auth.Authenticated, cmdProfile},
	"edit-profile": {auth.Authenticated, cmdEditProfile},

	"admin":          {auth.Admin, cmdDashboard},
	"admin-rooms":    {auth.Admin, cmdAdminRooms},
	"add-room":       {auth.Admin, cmdAddRoom},
	"edit-room":      {auth.Admin, cmdEditRoom},
	"delete-room":    {auth.Admin, cmdDeleteRoom},
	"admin-users":    {auth.Admin, cmdAdminUsers},
	"add-user":       {auth.Admin, cmdAddUser},
	"edit-user":      {auth.Admin, cmdEditUser},
	"delete-user":    {auth.Admin, cmdDeleteUser},
	"admin-bookings": {auth.Admin, cmdAdminBookings},
	"cancel-booking": {auth.Admin, cmdCancelBooking},
}

func cmdLogin(ctx context.Context, a *app) error {
	v := views.NewLogin(ctx, a.deps)
	defer v.Close()
	next, err := v.Submit(models.Credentials{Email: a.opts.email, Password: a.opts.password}, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s. Next: %s\n", a.deps.Session.Role(), next)
	return nil
}

func cmdLogout(ctx context.Context, a *app) error {
	v := views.NewProfile(ctx, a.deps)
	defer v.Close()
	if err := v.Logout(a.confirm()); err != nil {
		if errors.Is(err, auth.ErrLogoutCancelled) {
			fmt.Fprintln(a.out, "Logout cancelled.")
			return nil
		}
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func cmdRegister(ctx context.Context, a *app) error {
	img, err := a.upload()
	if err != nil {
		return err
	}
	v := views.NewRegister(ctx, a.deps)
	defer v.Close()
	return v.Submit(a.registerForm(), img)
}

func cmdActivate(ctx context.Context, a *app) error {
	v := views.NewVerify(ctx, a.deps)
	defer v.Close()
	return v.Run(a.opts.code)
}

func cmdForgot(ctx context.Context, a *app) error {
	v := views.NewForgotPassword(ctx, a.deps)
	defer v.Close()
	return v.Submit(models.ForgotPasswordForm{Email: a.opts.email})
}

func cmdReset(ctx context.Context, a *app) error {
	v := views.NewResetPassword(ctx, a.deps, a.opts.code)
	defer v.Close()
	user, err := v.Load()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Resetting password for %s\n", user.Email)
	return v.Submit(models.ResetPasswordForm{Password: a.opts.password, Password2: a.opts.password2})
}

func cmdWhoami(ctx context.Context, a *app) error {
	s := a.deps.Session
	out := map[string]any{"state": s.State().String(), "role": s.Role()}
	if tok := s.Token(); tok != "" {
		if info, err := auth.Claims(tok); err == nil {
			out["subject"] = info.Subject
			out["expires"] = info.Expires
		}
	}
	return a.print(out)
}

// applyList sets the list flags on c and prints the current page.
func applyList[T any](a *app, c *listing.Controller[T]) error {
	o := a.opts
	if o.filter != "" {
		c.SetFilter(o.filter)
	}
	if o.query != "" {
		c.SetQuery(o.query)
	}
	if o.sortKey != "" {
		dir := listing.Asc
		if o.dir == "desc" {
			dir = listing.Desc
		}
		c.SortDir(o.sortKey, dir)
	}
	c.SetPage(o.page)
	if err := a.print(c.Page()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "page %d of %d\n", c.PageNumber(), c.Pages())
	return nil
}

func cmdRooms(ctx context.Context, a *app) error {
	v := views.NewAllRooms(ctx, a.deps)
	defer v.Close()
	if err := v.Load(); err != nil {
		return err
	}
	return applyList(a, v.List)
}

func cmdTypes(ctx context.Context, a *app) error {
	types, err := a.deps.API.RoomTypes(ctx)
	if err != nil {
		a.deps.Notices.Fail(err)
		return err
	}
	return a.print(types)
}

func cmdSearch(ctx context.Context, a *app) error {
	in, out, err := a.dates()
	if err != nil {
		return err
	}
	v := views.NewRoomSearch(ctx, a.deps)
	defer v.Close()
	rooms, err := v.Search(in, out, a.opts.roomType)
	if err != nil {
		return err
	}
	list := views.NewAllRooms(ctx, a.deps)
	defer list.Close()
	if err := list.Show(rooms); err != nil {
		return err
	}
	return applyList(a, list.List)
}

func cmdFindBooking(ctx context.Context, a *app) error {
	v := views.NewFindBooking(ctx, a.deps)
	defer v.Close()
	b, err := v.Find(a.opts.code)
	if err != nil {
		return err
	}
	if b == nil {
		fmt.Fprintln(a.out, "No booking found.")
		return nil
	}
	return a.print(b)
}

func roomDetails(ctx context.Context, a *app) (*views.RoomDetails, error) {
	v := views.NewRoomDetails(ctx, a.deps, a.opts.room)
	if err := v.Load(); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

func cmdRoom(ctx context.Context, a *app) error {
	v, err := roomDetails(ctx, a)
	if err != nil {
		return err
	}
	defer v.Close()
	return a.print(v.Room)
}

func cmdQuote(ctx context.Context, a *app) error {
	in, out, err := a.dates()
	if err != nil {
		return err
	}
	v, err := roomDetails(ctx, a)
	if err != nil {
		return err
	}
	defer v.Close()
	q, err := v.Quote(in, out, a.opts.adults, a.opts.children)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d nights, %d guests, total %.2f\n", q.TotalNights, q.TotalGuests, q.TotalPrice)
	return nil
}

func cmdBook(ctx context.Context, a *app) error {
	in, out, err := a.dates()
	if err != nil {
		return err
	}
	v, err := roomDetails(ctx, a)
	if err != nil {
		return err
	}
	defer v.Close()
	code, err := v.Finalize(in, out, a.opts.adults, a.opts.children)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Confirmation code: %s\n", code)
	return nil
}

func cmdProfile(ctx context.Context, a *app) error {
	v := views.NewProfile(ctx, a.deps)
	defer v.Close()
	if err := v.Load(); err != nil {
		return err
	}
	return a.print(map[string]any{"user": v.User, "bookings": v.Bookings})
}

func cmdEditProfile(ctx context.Context, a *app) error {
	img, err := a.upload()
	if err != nil {
		return err
	}
	v := views.NewEditProfile(ctx, a.deps)
	defer v.Close()
	if err := v.Load(); err != nil {
		return err
	}
	return v.Submit(a.merge(v.Form()), img)
}

func cmdDashboard(ctx context.Context, a *app) error {
	v := views.NewDashboard(ctx, a.deps)
	defer v.Close()
	if err := v.Load(); err != nil {
		return err
	}
	if v.Admin != nil {
		fmt.Fprintf(a.out, "Hello, %s\n", v.Admin.Username)
	}
	fmt.Fprintf(a.out, "rooms: %d, bookings: %d, users: %d\n", v.Rooms, v.Bookings, v.Users)
	return nil
}

func cmdAdminRooms(ctx context.Context, a *app) error {
	v := views.NewManageRooms(ctx, a.deps)
	defer v.Close()
	if err := v.Load(); err != nil {
		return err
	}
	return applyList(a, v.List)
}

func cmdAddRoom(ctx context.Context, a *app) error {
	img, err := a.upload()
	if err != nil {
		return err
	}
	v := views.NewAddRoom(ctx, a.deps)
	defer v.Close()
	return v.Submit(a.roomForm(), img)
}

func cmdEditRoom(ctx context.Context, a *app) error {
	img, err := a.upload()
	if err != nil {
		return err
	}
	v := views.NewEditRoom(ctx, a.deps, a.opts.room)
	defer v.Close()
	if err := v.Load(); err != nil {
		return err
	}
	form := v.Form()
	if a.opts.name != "" {
		form.Name = a.opts.name
	}
	if a.opts.roomType != "" {
		form.Type = a.opts.roomType
	}
	if a.opts.description != "" {
		form.Description = a.opts.description
	}
	if a.opts.price > 0 {
		form.Price = a.opts.price
	}
	return v.Update(form, img)
}

func cmdDeleteRoom(ctx context.Context, a *app) error {
	v := views.NewEditRoom(ctx, a.deps, a.opts.room)
	defer v.Close()
	return v.Delete(a.confirm())
}

func cmdAdminUsers(ctx context.Context, a *app) error {
	v := views.NewManageUsers(ctx, a.deps)
	defer v.Close()
	if err := v.Load(); err != nil {
		return err
	}
	return applyList(a, v.List)
}

func cmdAddUser(ctx context.Context, a *app) error {
	img, err := a.upload()
	if err != nil {
		return err
	}
	v := views.NewAddUser(ctx, a.deps)
	defer v.Close()
	return v.Submit(a.registerForm(), img)
}

func cmdEditUser(ctx context.Context, a *app) error {
	img, err := a.upload()
	if err != nil {
		return err
	}
	v := views.NewEditUser(ctx, a.deps, a.opts.id)
	defer v.Close()
	if err := v.Load(); err != nil {
		return err
	}
	return v.Submit(a.merge(v.Form()), img)
}

func cmdDeleteUser(ctx context.Context, a *app) error {
	v := views.NewEditUser(ctx, a.deps, a.opts.id)
	defer v.Close()
	return v.Delete(a.confirm())
}

func cmdAdminBookings(ctx context.Context, a *app) error {
	v := views.NewManageBookings(ctx, a.deps)
	defer v.Close()
	if err := v.Load(); err != nil {
		return err
	}
	return applyList(a, v.List)
}

func cmdCancelBooking(ctx context.Context, a *app) error {
	v := views.NewEditBooking(ctx, a.deps, a.opts.code)
	defer v.Close()
	if err := v.Load(); err != nil {
		return err
	}
	return v.Cancel(a.confirm())
}
