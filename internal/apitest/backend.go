// Package apitest is an in-memory hotel backend for tests. It answers the same
// routes and envelopes as the real service under /api.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hotelres/internal/models"
)

// Call is one request the backend received.
type Call struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
}

type reservation struct {
	booking models.Booking
	roomID  int64
	userID  int64
}

type account struct {
	user       models.User
	hash       []byte
	activation string
	reset      string
}

// Backend holds users, rooms and bookings in memory.
type Backend struct {
	mu       sync.Mutex
	secret   []byte
	accounts []*account
	rooms    []*models.Room
	bookings []*reservation
	nextID   int64
	calls    []Call
	engine   *gin.Engine
}

func New() *Backend {
	gin.SetMode(gin.TestMode)
	b := &Backend{secret: []byte(uuid.NewString()), nextID: 1}
	b.engine = gin.New()
	b.engine.Use(b.record)
	b.routes(b.engine.Group("/api"))
	return b
}

// Start serves b on a fresh httptest server and returns the API base URL.
func Start(t testing.TB) (*Backend, string) {
	t.Helper()
	b := New()
	srv := httptest.NewServer(b.engine)
	t.Cleanup(srv.Close)
	return b, srv.URL + "/api"
}

func (b *Backend) Handler() http.Handler { return b.engine }

func (b *Backend) routes(api *gin.RouterGroup) {
	a := api.Group("/auth")
	a.POST("/register", b.register)
	a.POST("/login", b.login)
	a.POST("/forgot", b.forgot)
	a.GET("/activate/:code", b.activate)
	a.GET("/reset/:code", b.resetInfo)
	a.POST("/reset/:code", b.resetPassword)

	u := api.Group("/users", b.requireAuth)
	u.GET("/all", b.requireAdmin, b.allUsers)
	u.GET("/get-logged-in-profile-info", b.profile)
	u.GET("/get-by-id/:id", b.userByID)
	u.POST("/add/user", b.requireAdmin, b.addUser)
	u.PATCH("/edit-user/:id", b.editUser)
	u.DELETE("/delete/:id", b.requireAdmin, b.deleteUser)

	r := api.Group("/rooms")
	r.GET("/all", b.allRooms)
	r.GET("/types", b.roomTypes)
	r.GET("/room-by-id/:id", b.roomByID)
	r.GET("/all-available-rooms", b.allAvailableRooms)
	r.GET("/available-rooms-by-date-and-type", b.availableRooms)
	r.POST("/add", b.requireAuth, b.requireAdmin, b.addRoom)
	r.PATCH("/update/:id", b.requireAuth, b.requireAdmin, b.updateRoom)
	r.DELETE("/delete/:id", b.requireAuth, b.requireAdmin, b.deleteRoom)

	k := api.Group("/bookings")
	k.POST("/book-room/:roomId/:userId", b.requireAuth, b.bookRoom)
	k.GET("/all", b.requireAuth, b.requireAdmin, b.allBookings)
	k.GET("/get-by-confirmation-code/:code", b.bookingByCode)
	k.GET("/user/:userId", b.requireAuth, b.userBookings)
	k.DELETE("/cancel/:id", b.requireAuth, b.cancelBooking)
}

func (b *Backend) record(c *gin.Context) {
	b.mu.Lock()
	b.calls = append(b.calls, Call{
		Method:        c.Request.Method,
		Path:          strings.TrimPrefix(c.Request.URL.Path, "/api"),
		Authorization: c.GetHeader("Authorization"),
		ContentType:   c.ContentType(),
	})
	b.mu.Unlock()
	c.Next()
}

// Calls returns the requests received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// ResetCalls forgets recorded requests.
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	b.calls = nil
	b.mu.Unlock()
}

// SeedUser stores an active account and returns it with its ID.
func (b *Backend) SeedUser(u models.User, password string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.newAccount(u, password)
	acc.user.Active = true
	return acc.user
}

func (b *Backend) newAccount(u models.User, password string) *account {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u.ID = b.id()
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	acc := &account{user: u, hash: hash}
	b.accounts = append(b.accounts, acc)
	return acc
}

// SeedRoom stores r and returns it with its ID.
func (b *Backend) SeedRoom(r models.Room) models.Room {
	b.mu.Lock()
	defer b.mu.Unlock()
	r.ID = b.id()
	b.rooms = append(b.rooms, &r)
	return r
}

// SeedBooking books roomID for userID directly and returns the booking.
func (b *Backend) SeedBooking(roomID, userID int64, req models.BookingRequest) models.Booking {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.book(roomID, userID, req).booking
}

// ActivationCode returns the pending activation code for email.
func (b *Backend) ActivationCode(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc := b.byEmail(email); acc != nil {
		return acc.activation
	}
	return ""
}

// ResetCode returns the pending password reset code for email.
func (b *Backend) ResetCode(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc := b.byEmail(email); acc != nil {
		return acc.reset
	}
	return ""
}

// User returns the stored user with id, including inactive and deleted ones.
func (b *Backend) User(id int64) (models.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc := b.account(id); acc != nil {
		return acc.user, true
	}
	return models.User{}, false
}

// Token issues a token for the stored user with email.
func (b *Backend) Token(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.byEmail(email)
	if acc == nil {
		return ""
	}
	tok, _ := b.sign(acc.user)
	return tok
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (b *Backend) sign(u models.User) (string, error) {
	claims := tokenClaims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

func (b *Backend) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(*jwt.Token) (interface{}, error) {
		return b.secret, nil
	})
	if err != nil {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	b.mu.Lock()
	acc := b.byEmail(claims.Subject)
	b.mu.Unlock()
	if acc == nil || acc.user.Deleted {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	c.Set("account", acc)
	c.Next()
}

func (b *Backend) requireAdmin(c *gin.Context) {
	if caller(c).user.Role != models.RoleAdmin {
		fail(c, http.StatusForbidden, "Access denied")
		return
	}
	c.Next()
}

func caller(c *gin.Context) *account {
	v, _ := c.Get("account")
	acc, _ := v.(*account)
	if acc == nil {
		return &account{}
	}
	return acc
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"statusCode": status, "message": message})
}

func ok(c *gin.Context, body gin.H) {
	body["statusCode"] = http.StatusOK
	if _, set := body["message"]; !set {
		body["message"] = "successful"
	}
	c.JSON(http.StatusOK, body)
}

func paramID(c *gin.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return n, true
}

func (b *Backend) id() int64 {
	n := b.nextID
	b.nextID++
	return n
}

func (b *Backend) byEmail(email string) *account {
	for _, acc := range b.accounts {
		if strings.EqualFold(acc.user.Email, email) {
			return acc
		}
	}
	return nil
}

func (b *Backend) account(id int64) *account {
	for _, acc := range b.accounts {
		if acc.user.ID == id {
			return acc
		}
	}
	return nil
}

func (b *Backend) room(id int64) *models.Room {
	for _, r := range b.rooms {
		if r.ID == id {
			return r
		}
	}
	return nil
}
