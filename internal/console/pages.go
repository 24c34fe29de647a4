package console

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"hotelres/internal/auth"
	"hotelres/internal/listing"
	"hotelres/internal/models"
	"hotelres/internal/utils"
	"hotelres/internal/views"
)

var timeNow = time.Now

type methods map[string]page

// pages maps route names of auth.Routes to their handlers.
func (s *Server) pages() map[string]methods {
	return map[string]methods{
		"home":            {http.MethodGet: s.home},
		"login":           {http.MethodGet: s.home, http.MethodPost: s.login},
		"register":        {http.MethodPost: s.register},
		"activate":        {http.MethodGet: s.activate},
		"forgot-password": {http.MethodPost: s.forgot},
		"reset-password":  {http.MethodGet: s.resetInfo, http.MethodPost: s.reset},
		"rooms":           {http.MethodGet: s.rooms},
		"find-booking":    {http.MethodGet: s.findBooking},

		"room-details": {http.MethodGet: s.roomDetails, http.MethodPost: s.book},
		"profile":      {http.MethodGet: s.profile, http.MethodDelete: s.logout},
		"edit-profile": {http.MethodGet: s.editProfile, http.MethodPost: s.saveProfile},

		"admin":           {http.MethodGet: s.dashboard},
		"add-user":        {http.MethodPost: s.addUser},
		"edit-user":       {http.MethodGet: s.editUser, http.MethodPost: s.saveUser, http.MethodDelete: s.deleteUser},
		"manage-users":    {http.MethodGet: s.manageUsers, http.MethodDelete: s.removeUser},
		"manage-rooms":    {http.MethodGet: s.manageRooms, http.MethodDelete: s.removeRoom},
		"edit-room":       {http.MethodGet: s.editRoom, http.MethodPost: s.saveRoom, http.MethodDelete: s.deleteRoom},
		"add-room":        {http.MethodGet: s.roomTypes, http.MethodPost: s.addRoom},
		"manage-bookings": {http.MethodGet: s.manageBookings},
		"edit-booking":    {http.MethodGet: s.editBooking, http.MethodDelete: s.cancelBooking},
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return utils.Invalid("body", "invalid request body")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	n, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, utils.Invalid(name, "invalid "+name)
	}
	return n, nil
}

func queryInt(r *http.Request, name string, def int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return n
	}
	return def
}

func queryDate(r *http.Request, name string) (models.Date, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return d, utils.Invalid(name, err.Error())
	}
	return d, nil
}

// confirmed reads the y/N answer a console request carries.
func confirmed(r *http.Request) auth.Confirmer {
	answer := r.URL.Query().Get("confirm")
	return auth.ConfirmFunc(func(string) bool { return answer == "yes" || answer == "true" })
}

type pageOf[T any] struct {
	Items []T               `json:"items"`
	Page  int               `json:"page"`
	Pages int               `json:"pages"`
	Sort  listing.SortState `json:"sort"`
}

// listPage applies the q, filter, sort, dir and page query parameters.
func listPage[T any](r *http.Request, c *listing.Controller[T]) pageOf[T] {
	q := r.URL.Query()
	if f := q.Get("filter"); f != "" {
		c.SetFilter(f)
	}
	if s := q.Get("q"); s != "" {
		c.SetQuery(s)
	}
	if key := q.Get("sort"); key != "" {
		dir := listing.Asc
		if q.Get("dir") == "desc" {
			dir = listing.Desc
		}
		c.SortDir(key, dir)
	}
	c.SetPage(queryInt(r, "page", 1))
	return pageOf[T]{Items: c.Page(), Page: c.PageNumber(), Pages: c.Pages(), Sort: c.SortState()}
}

func (s *Server) home(r *http.Request, d views.Deps) (any, error) {
	return map[string]string{"state": d.Session.State().String(), "role": string(d.Session.Role())}, nil
}

func (s *Server) login(r *http.Request, d views.Deps) (any, error) {
	var creds models.Credentials
	if err := decode(r, &creds); err != nil {
		return nil, err
	}
	v := views.NewLogin(r.Context(), d)
	defer v.Close()
	next, err := v.Submit(creds, r.URL.Query().Get("from"))
	if err != nil {
		return nil, err
	}
	return map[string]string{"next": next}, nil
}

func (s *Server) register(r *http.Request, d views.Deps) (any, error) {
	var form models.RegisterForm
	if err := decode(r, &form); err != nil {
		return nil, err
	}
	v := views.NewRegister(r.Context(), d)
	defer v.Close()
	return nil, v.Submit(form, nil)
}

func (s *Server) activate(r *http.Request, d views.Deps) (any, error) {
	v := views.NewVerify(r.Context(), d)
	defer v.Close()
	return nil, v.Run(mux.Vars(r)["code"])
}

func (s *Server) forgot(r *http.Request, d views.Deps) (any, error) {
	var form models.ForgotPasswordForm
	if err := decode(r, &form); err != nil {
		return nil, err
	}
	v := views.NewForgotPassword(r.Context(), d)
	defer v.Close()
	return nil, v.Submit(form)
}

func (s *Server) resetInfo(r *http.Request, d views.Deps) (any, error) {
	v := views.NewResetPassword(r.Context(), d, mux.Vars(r)["code"])
	defer v.Close()
	return v.Load()
}

func (s *Server) reset(r *http.Request, d views.Deps) (any, error) {
	var form models.ResetPasswordForm
	if err := decode(r, &form); err != nil {
		return nil, err
	}
	v := views.NewResetPassword(r.Context(), d, mux.Vars(r)["code"])
	defer v.Close()
	if _, err := v.Load(); err != nil {
		return nil, err
	}
	return nil, v.Submit(form)
}

// rooms lists the catalogue, or the free rooms when dates are given.
func (s *Server) rooms(r *http.Request, d views.Deps) (any, error) {
	v := views.NewAllRooms(r.Context(), d)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	checkIn, err := queryDate(r, "checkIn")
	if err != nil {
		return nil, err
	}
	checkOut, err := queryDate(r, "checkOut")
	if err != nil {
		return nil, err
	}
	if !checkIn.IsZero() || !checkOut.IsZero() {
		search := views.NewRoomSearch(r.Context(), d)
		defer search.Close()
		found, err := search.Search(checkIn, checkOut, r.URL.Query().Get("type"))
		if err != nil {
			return nil, err
		}
		if err := v.Show(found); err != nil {
			return nil, err
		}
	}
	return map[string]any{"types": v.Types, "rooms": listPage(r, v.List)}, nil
}

func (s *Server) findBooking(r *http.Request, d views.Deps) (any, error) {
	v := views.NewFindBooking(r.Context(), d)
	defer v.Close()
	b, err := v.Find(r.URL.Query().Get("code"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"booking": b}, nil
}

type stay struct {
	CheckIn  string `json:"checkInDate"`
	CheckOut string `json:"checkOutDate"`
	Adults   int    `json:"numberOfAdults"`
	Children int    `json:"numberOfChildren"`
}

func (st stay) dates() (models.Date, models.Date, error) {
	var in, out models.Date
	var err error
	if st.CheckIn != "" {
		if in, err = models.ParseDate(st.CheckIn); err != nil {
			return in, out, utils.Invalid("checkInDate", err.Error())
		}
	}
	if st.CheckOut != "" {
		if out, err = models.ParseDate(st.CheckOut); err != nil {
			return in, out, utils.Invalid("checkOutDate", err.Error())
		}
	}
	return in, out, nil
}

// roomDetails shows the room and, given checkIn, a quote for the stay.
func (s *Server) roomDetails(r *http.Request, d views.Deps) (any, error) {
	id, err := pathID(r, "roomId")
	if err != nil {
		return nil, err
	}
	v := views.NewRoomDetails(r.Context(), d, id)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	out := map[string]any{"room": v.Room}
	q := r.URL.Query()
	if q.Get("checkIn") == "" {
		return out, nil
	}
	st := stay{CheckIn: q.Get("checkIn"), CheckOut: q.Get("checkOut"), Adults: queryInt(r, "adults", 1), Children: queryInt(r, "children", 0)}
	in, end, err := st.dates()
	if err != nil {
		return nil, err
	}
	quote, err := v.Quote(in, end, st.Adults, st.Children)
	if err != nil {
		return nil, err
	}
	out["quote"] = quote
	return out, nil
}

func (s *Server) book(r *http.Request, d views.Deps) (any, error) {
	id, err := pathID(r, "roomId")
	if err != nil {
		return nil, err
	}
	var st stay
	if err := decode(r, &st); err != nil {
		return nil, err
	}
	in, out, err := st.dates()
	if err != nil {
		return nil, err
	}
	v := views.NewRoomDetails(r.Context(), d, id)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	code, err := v.Finalize(in, out, st.Adults, st.Children)
	if err != nil {
		return nil, err
	}
	return map[string]string{"bookingConfirmationCode": code}, nil
}

func (s *Server) profile(r *http.Request, d views.Deps) (any, error) {
	v := views.NewProfile(r.Context(), d)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	return map[string]any{"user": v.User, "bookings": v.Bookings}, nil
}

func (s *Server) logout(r *http.Request, d views.Deps) (any, error) {
	v := views.NewProfile(r.Context(), d)
	defer v.Close()
	if err := v.Logout(confirmed(r)); err != nil {
		return nil, err
	}
	return map[string]string{"next": auth.EntryPoint}, nil
}

func (s *Server) editProfile(r *http.Request, d views.Deps) (any, error) {
	v := views.NewEditProfile(r.Context(), d)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	return v.Form(), nil
}

func (s *Server) saveProfile(r *http.Request, d views.Deps) (any, error) {
	var form models.UserForm
	if err := decode(r, &form); err != nil {
		return nil, err
	}
	v := views.NewEditProfile(r.Context(), d)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	return nil, v.Submit(form, nil)
}

func (s *Server) dashboard(r *http.Request, d views.Deps) (any, error) {
	v := views.NewDashboard(r.Context(), d)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	return map[string]any{"admin": v.Admin, "rooms": v.Rooms, "bookings": v.Bookings, "users": v.Users}, nil
}

func (s *Server) addUser(r *http.Request, d views.Deps) (any, error) {
	var form models.RegisterForm
	if err := decode(r, &form); err != nil {
		return nil, err
	}
	v := views.NewAddUser(r.Context(), d)
	defer v.Close()
	return nil, v.Submit(form, nil)
}

func (s *Server) editUser(r *http.Request, d views.Deps) (any, error) {
	id, err := pathID(r, "userId")
	if err != nil {
		return nil, err
	}
	v := views.NewEditUser(r.Context(), d, id)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	return v.User, nil
}

func (s *Server) saveUser(r *http.Request, d views.Deps) (any, error) {
	id, err := pathID(r, "userId")
	if err != nil {
		return nil, err
	}
	var form models.UserForm
	if err := decode(r, &form); err != nil {
		return nil, err
	}
	v := views.NewEditUser(r.Context(), d, id)
	defer v.Close()
	return nil, v.Submit(form, nil)
}

func (s *Server) deleteUser(r *http.Request, d views.Deps) (any, error) {
	id, err := pathID(r, "userId")
	if err != nil {
		return nil, err
	}
	v := views.NewEditUser(r.Context(), d, id)
	defer v.Close()
	return nil, v.Delete(confirmed(r))
}

func (s *Server) manageUsers(r *http.Request, d views.Deps) (any, error) {
	v := views.NewManageUsers(r.Context(), d)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	return listPage(r, v.List), nil
}

func queryID(r *http.Request) (int64, error) {
	n, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		return 0, utils.Invalid("id", "invalid id")
	}
	return n, nil
}

// removeUser deletes ?id= and answers the refreshed page.
func (s *Server) removeUser(r *http.Request, d views.Deps) (any, error) {
	id, err := queryID(r)
	if err != nil {
		return nil, err
	}
	v := views.NewManageUsers(r.Context(), d)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	if err := v.Delete(id, confirmed(r)); err != nil {
		return nil, err
	}
	return listPage(r, v.List), nil
}

func (s *Server) manageRooms(r *http.Request, d views.Deps) (any, error) {
	v := views.NewManageRooms(r.Context(), d)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	return map[string]any{"types": v.Types, "rooms": listPage(r, v.List)}, nil
}

func (s *Server) removeRoom(r *http.Request, d views.Deps) (any, error) {
	id, err := queryID(r)
	if err != nil {
		return nil, err
	}
	v := views.NewManageRooms(r.Context(), d)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	if err := v.Delete(id, confirmed(r)); err != nil {
		return nil, err
	}
	return map[string]any{"types": v.Types, "rooms": listPage(r, v.List)}, nil
}

func (s *Server) editRoom(r *http.Request, d views.Deps) (any, error) {
	id, err := pathID(r, "roomId")
	if err != nil {
		return nil, err
	}
	v := views.NewEditRoom(r.Context(), d, id)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	return v.Room, nil
}

func (s *Server) saveRoom(r *http.Request, d views.Deps) (any, error) {
	id, err := pathID(r, "roomId")
	if err != nil {
		return nil, err
	}
	var form models.RoomForm
	if err := decode(r, &form); err != nil {
		return nil, err
	}
	v := views.NewEditRoom(r.Context(), d, id)
	defer v.Close()
	if err := v.Update(form, nil); err != nil {
		return nil, err
	}
	return v.Room, nil
}

func (s *Server) deleteRoom(r *http.Request, d views.Deps) (any, error) {
	id, err := pathID(r, "roomId")
	if err != nil {
		return nil, err
	}
	v := views.NewEditRoom(r.Context(), d, id)
	defer v.Close()
	return nil, v.Delete(confirmed(r))
}

func (s *Server) roomTypes(r *http.Request, d views.Deps) (any, error) {
	v := views.NewAddRoom(r.Context(), d)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	return map[string]any{"types": v.Types}, nil
}

func (s *Server) addRoom(r *http.Request, d views.Deps) (any, error) {
	var form models.RoomForm
	if err := decode(r, &form); err != nil {
		return nil, err
	}
	v := views.NewAddRoom(r.Context(), d)
	defer v.Close()
	return nil, v.Submit(form, nil)
}

func (s *Server) manageBookings(r *http.Request, d views.Deps) (any, error) {
	v := views.NewManageBookings(r.Context(), d)
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	return listPage(r, v.List), nil
}

func (s *Server) editBooking(r *http.Request, d views.Deps) (any, error) {
	v := views.NewEditBooking(r.Context(), d, mux.Vars(r)["bookingCode"])
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	return v.Booking, nil
}

func (s *Server) cancelBooking(r *http.Request, d views.Deps) (any, error) {
	v := views.NewEditBooking(r.Context(), d, mux.Vars(r)["bookingCode"])
	defer v.Close()
	if err := v.Load(); err != nil {
		return nil, err
	}
	if err := v.Cancel(confirmed(r)); err != nil {
		return nil, err
	}
	return map[string]string{"next": "/admin/manage-bookings"}, nil
}
