package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hotelres/internal/models"
)

func (b *Backend) register(c *gin.Context) {
	form, okForm := bindRegister(c)
	if !okForm {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.byEmail(form.Email) != nil {
		fail(c, http.StatusBadRequest, form.Email+" Already Exists")
		return
	}
	acc := b.newAccount(formUser(form), form.Password)
	acc.user.ProfileImage = imageName(c, "profileImage")
	acc.activation = uuid.NewString()
	ok(c, gin.H{"message": "Registration successful, check your email to activate your account"})
}

func bindRegister(c *gin.Context) (models.RegisterForm, bool) {
	var form models.RegisterForm
	if c.ContentType() == "application/json" {
		if err := c.ShouldBindJSON(&form); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return form, false
		}
	} else {
		form = models.RegisterForm{
			Username: c.PostForm("username"),
			Email:    c.PostForm("email"),
			Password: c.PostForm("password"),
			Phone:    c.PostForm("phone"),
			Address:  c.PostForm("address"),
			City:     c.PostForm("city"),
			Role:     models.Role(c.PostForm("role")),
		}
	}
	if form.Email == "" || form.Password == "" || form.Username == "" {
		fail(c, http.StatusBadRequest, "Username, email and password are required")
		return form, false
	}
	return form, true
}

func formUser(f models.RegisterForm) models.User {
	return models.User{
		Username: f.Username,
		Email:    f.Email,
		Phone:    f.Phone,
		Address:  f.Address,
		City:     f.City,
		Role:     f.Role,
	}
}

func imageName(c *gin.Context, field string) string {
	fh, err := c.FormFile(field)
	if err != nil {
		return ""
	}
	return "/images/" + fh.Filename
}

func (b *Backend) login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.byEmail(creds.Email)
	if acc == nil || acc.user.Deleted || bcrypt.CompareHashAndPassword(acc.hash, []byte(creds.Password)) != nil {
		fail(c, http.StatusBadRequest, "Invalid email or password")
		return
	}
	if !acc.user.Active {
		fail(c, http.StatusForbidden, "Account not activated, check your email")
		return
	}
	tok, err := b.sign(acc.user)
	if err != nil {
		fail(c, http.StatusInternalServerError, "")
		return
	}
	ok(c, gin.H{"token": tok, "role": acc.user.Role, "expirationTime": "7 Days"})
}

func (b *Backend) forgot(c *gin.Context) {
	var form models.ForgotPasswordForm
	if err := c.ShouldBindJSON(&form); err != nil || form.Email == "" {
		fail(c, http.StatusBadRequest, "Email is required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.byEmail(form.Email)
	if acc == nil {
		fail(c, http.StatusNotFound, "User Not Found")
		return
	}
	acc.reset = uuid.NewString()
	ok(c, gin.H{"message": "Password reset link sent to " + form.Email})
}

func (b *Backend) activate(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, acc := range b.accounts {
		if acc.activation != "" && acc.activation == c.Param("code") {
			acc.activation = ""
			acc.user.Active = true
			ok(c, gin.H{"message": "Account activated"})
			return
		}
	}
	fail(c, http.StatusNotFound, "Invalid activation code")
}

func (b *Backend) byReset(code string) *account {
	for _, acc := range b.accounts {
		if acc.reset != "" && acc.reset == code {
			return acc
		}
	}
	return nil
}

func (b *Backend) resetInfo(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.byReset(c.Param("code"))
	if acc == nil {
		fail(c, http.StatusNotFound, "Invalid reset code")
		return
	}
	ok(c, gin.H{"user": b.userView(acc, false)})
}

func (b *Backend) resetPassword(c *gin.Context) {
	var form models.ResetPasswordForm
	if err := c.ShouldBindJSON(&form); err != nil || form.Password == "" {
		fail(c, http.StatusBadRequest, "Password is required")
		return
	}
	if form.Password != form.Password2 {
		fail(c, http.StatusBadRequest, "Passwords do not match")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.byReset(c.Param("code"))
	if acc == nil {
		fail(c, http.StatusNotFound, "Invalid reset code")
		return
	}
	acc.hash, _ = bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.MinCost)
	acc.reset = ""
	ok(c, gin.H{"message": "Password updated"})
}

func (b *Backend) allUsers(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	users := make([]models.User, 0, len(b.accounts))
	for _, acc := range b.accounts {
		users = append(users, b.userView(acc, false))
	}
	ok(c, gin.H{"userList": users})
}

func (b *Backend) profile(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ok(c, gin.H{"user": b.userView(caller(c), true)})
}

// self loads the account at param name, which only its owner or an admin may touch.
func (b *Backend) self(c *gin.Context, name string) *account {
	id, valid := paramID(c, name)
	if !valid {
		return nil
	}
	me := caller(c)
	if me.user.Role != models.RoleAdmin && me.user.ID != id {
		fail(c, http.StatusForbidden, "Access denied")
		return nil
	}
	acc := b.account(id)
	if acc == nil {
		fail(c, http.StatusNotFound, "User Not Found")
		return nil
	}
	return acc
}

func (b *Backend) userByID(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc := b.self(c, "id"); acc != nil {
		ok(c, gin.H{"user": b.userView(acc, true)})
	}
}

func (b *Backend) addUser(c *gin.Context) {
	form, okForm := bindRegister(c)
	if !okForm {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.byEmail(form.Email) != nil {
		fail(c, http.StatusBadRequest, form.Email+" Already Exists")
		return
	}
	acc := b.newAccount(formUser(form), form.Password)
	acc.user.Active = true
	acc.user.ProfileImage = imageName(c, "profileImage")
	ok(c, gin.H{"message": "User added", "user": b.userView(acc, false)})
}

func (b *Backend) editUser(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.self(c, "id")
	if acc == nil {
		return
	}
	u := &acc.user
	set := func(dst *string, field string) {
		if v := c.PostForm(field); v != "" {
			*dst = v
		}
	}
	set(&u.Username, "username")
	set(&u.Email, "email")
	set(&u.Phone, "phone")
	set(&u.Address, "address")
	set(&u.City, "city")
	if role := models.Role(c.PostForm("role")); caller(c).user.Role == models.RoleAdmin && (role == models.RoleUser || role == models.RoleAdmin) {
		u.Role = role
	}
	if pw := c.PostForm("password"); pw != "" {
		acc.hash, _ = bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	}
	if img := imageName(c, "profileImage"); img != "" {
		u.ProfileImage = img
	}
	ok(c, gin.H{"message": "User updated", "user": b.userView(acc, false)})
}

func (b *Backend) deleteUser(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.account(id)
	if acc == nil {
		fail(c, http.StatusNotFound, "User Not Found")
		return
	}
	acc.user.Deleted = true
	ok(c, gin.H{"message": "User deleted"})
}

func (b *Backend) allRooms(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ok(c, gin.H{"roomList": b.roomList(func(*models.Room) bool { return true })})
}

func (b *Backend) roomTypes(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := map[string]bool{}
	types := []string{}
	for _, r := range b.rooms {
		if !seen[r.Type] {
			seen[r.Type] = true
			types = append(types, r.Type)
		}
	}
	sort.Strings(types)
	c.JSON(http.StatusOK, types)
}

func (b *Backend) roomByID(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.room(id)
	if r == nil {
		fail(c, http.StatusNotFound, "Room Not Found")
		return
	}
	ok(c, gin.H{"room": b.roomView(r, true)})
}

func (b *Backend) allAvailableRooms(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ok(c, gin.H{"roomList": b.roomList(func(r *models.Room) bool { return !b.booked(r.ID) })})
}

func (b *Backend) availableRooms(c *gin.Context) {
	in, errIn := models.ParseDate(c.Query("checkInDate"))
	out, errOut := models.ParseDate(c.Query("checkOutDate"))
	roomType := c.Query("roomType")
	if errIn != nil || errOut != nil || roomType == "" {
		fail(c, http.StatusBadRequest, "All fields are required: checkInDate, checkOutDate, roomType")
		return
	}
	if out.Before(in) {
		fail(c, http.StatusBadRequest, "Check in date must come before check out date")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ok(c, gin.H{"roomList": b.roomList(func(r *models.Room) bool {
		return strings.EqualFold(r.Type, roomType) && b.free(r.ID, in, out)
	})})
}

func (b *Backend) addRoom(c *gin.Context) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	room := models.Room{
		Name:        c.PostForm("name"),
		Type:        c.PostForm("type"),
		Description: c.PostForm("description"),
		Price:       price,
		Image:       imageName(c, "image"),
	}
	if err != nil || price <= 0 || room.Type == "" || room.Name == "" {
		fail(c, http.StatusBadRequest, "Please provide values for all fields")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	room.ID = b.id()
	b.rooms = append(b.rooms, &room)
	ok(c, gin.H{"message": "Room added", "room": b.roomView(&room, false)})
}

func (b *Backend) updateRoom(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.room(id)
	if r == nil {
		fail(c, http.StatusNotFound, "Room Not Found")
		return
	}
	if v := c.PostForm("name"); v != "" {
		r.Name = v
	}
	if v := c.PostForm("type"); v != "" {
		r.Type = v
	}
	if v := c.PostForm("description"); v != "" {
		r.Description = v
	}
	if p, err := strconv.ParseFloat(c.PostForm("price"), 64); err == nil && p > 0 {
		r.Price = p
	}
	if img := imageName(c, "image"); img != "" {
		r.Image = img
	}
	ok(c, gin.H{"message": "Room updated", "room": b.roomView(r, false)})
}

func (b *Backend) deleteRoom(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.rooms {
		if r.ID == id {
			b.rooms = append(b.rooms[:i], b.rooms[i+1:]...)
			kept := b.bookings[:0]
			for _, res := range b.bookings {
				if res.roomID != id {
					kept = append(kept, res)
				}
			}
			b.bookings = kept
			ok(c, gin.H{"message": "Room deleted"})
			return
		}
	}
	fail(c, http.StatusNotFound, "Room Not Found")
}

func (b *Backend) bookRoom(c *gin.Context) {
	roomID, valid := paramID(c, "roomId")
	if !valid {
		return
	}
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.CheckInDate.IsZero() || req.CheckOutDate.IsZero() {
		fail(c, http.StatusBadRequest, "Check in and check out dates are required")
		return
	}
	if req.CheckOutDate.Before(req.CheckInDate) {
		fail(c, http.StatusBadRequest, "Check in date must come before check out date")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.self(c, "userId")
	if acc == nil {
		return
	}
	if b.room(roomID) == nil {
		fail(c, http.StatusNotFound, "Room Not Found")
		return
	}
	if !b.free(roomID, req.CheckInDate, req.CheckOutDate) {
		fail(c, http.StatusConflict, "Room not Available for selected date range")
		return
	}
	res := b.book(roomID, acc.user.ID, req)
	ok(c, gin.H{"bookingConfirmationCode": res.booking.ConfirmationCode})
}

func (b *Backend) book(roomID, userID int64, req models.BookingRequest) *reservation {
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	res := &reservation{
		roomID: roomID,
		userID: userID,
		booking: models.Booking{
			ID:                  b.id(),
			ConfirmationCode:    code,
			CheckInDate:         req.CheckInDate,
			CheckOutDate:        req.CheckOutDate,
			NumberOfAdults:      req.NumberOfAdults,
			NumberOfChildren:    req.NumberOfChildren,
			TotalNumberOfGuests: req.NumberOfAdults + req.NumberOfChildren,
		},
	}
	b.bookings = append(b.bookings, res)
	return res
}

func (b *Backend) allBookings(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := make([]models.Booking, 0, len(b.bookings))
	for _, res := range b.bookings {
		list = append(list, b.bookingView(res, true, true))
	}
	ok(c, gin.H{"bookingList": list})
}

func (b *Backend) bookingByCode(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, res := range b.bookings {
		if res.booking.ConfirmationCode == c.Param("code") {
			ok(c, gin.H{"booking": b.bookingView(res, true, true)})
			return
		}
	}
	fail(c, http.StatusNotFound, "Booking Not Found")
}

func (b *Backend) userBookings(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.self(c, "userId")
	if acc == nil {
		return
	}
	ok(c, gin.H{"bookingList": b.bookingsOf(acc.user.ID)})
}

func (b *Backend) cancelBooking(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	me := caller(c)
	for i, res := range b.bookings {
		if res.booking.ID != id {
			continue
		}
		if me.user.Role != models.RoleAdmin && me.user.ID != res.userID {
			fail(c, http.StatusForbidden, "Access denied")
			return
		}
		b.bookings = append(b.bookings[:i], b.bookings[i+1:]...)
		ok(c, gin.H{"message": "Booking cancelled"})
		return
	}
	fail(c, http.StatusNotFound, "Booking Not Found")
}

func (b *Backend) booked(roomID int64) bool {
	for _, res := range b.bookings {
		if res.roomID == roomID {
			return true
		}
	}
	return false
}

// free reports whether no booking of roomID overlaps [in, out].
func (b *Backend) free(roomID int64, in, out models.Date) bool {
	for _, res := range b.bookings {
		if res.roomID != roomID {
			continue
		}
		if !out.Before(res.booking.CheckInDate) && !res.booking.CheckOutDate.Before(in) {
			return false
		}
	}
	return true
}

func (b *Backend) roomList(keep func(*models.Room) bool) []models.Room {
	list := make([]models.Room, 0, len(b.rooms))
	for _, r := range b.rooms {
		if keep(r) {
			list = append(list, b.roomView(r, false))
		}
	}
	return list
}

func (b *Backend) roomView(r *models.Room, withBookings bool) models.Room {
	v := *r
	v.Booked = b.booked(r.ID)
	v.Bookings = nil
	if withBookings {
		for _, res := range b.bookings {
			if res.roomID == r.ID {
				v.Bookings = append(v.Bookings, b.bookingView(res, false, false))
			}
		}
	}
	return v
}

func (b *Backend) userView(acc *account, withBookings bool) models.User {
	v := acc.user
	v.Bookings = nil
	if withBookings {
		v.Bookings = b.bookingsOf(v.ID)
	}
	return v
}

func (b *Backend) bookingsOf(userID int64) []models.Booking {
	list := []models.Booking{}
	for _, res := range b.bookings {
		if res.userID == userID {
			list = append(list, b.bookingView(res, false, true))
		}
	}
	return list
}

func (b *Backend) bookingView(res *reservation, withUser, withRoom bool) models.Booking {
	v := res.booking
	if withUser {
		if acc := b.account(res.userID); acc != nil {
			u := b.userView(acc, false)
			v.User = &u
		}
	}
	if withRoom {
		if r := b.room(res.roomID); r != nil {
			room := b.roomView(r, false)
			v.Room = &room
		}
	}
	return v
}
