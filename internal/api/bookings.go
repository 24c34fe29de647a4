package api

import (
	"context"
	"net/http"
	"net/url"

	"hotelres/internal/models"
)

// BookRoom submits a booking; the backend answers with the confirmation code.
func (c *Client) BookRoom(ctx context.Context, roomID, userID int64, booking models.BookingRequest) (*models.Response, error) {
	r, err := jsonRequest("book room", http.MethodPost, "/bookings/book-room/"+pathID(roomID)+"/"+pathID(userID), booking)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, r, models.FieldConfirmationCode)
}

func (c *Client) AllBookings(ctx context.Context) (*models.Response, error) {
	r := bareRequest("all bookings", http.MethodGet, "/bookings/all")
	return c.call(ctx, r, models.FieldBookingList)
}

// BookingByCode needs no authentication; guests look bookings up by code.
func (c *Client) BookingByCode(ctx context.Context, code string) (*models.Response, error) {
	r := bareRequest("booking by code", http.MethodGet, "/bookings/get-by-confirmation-code/"+url.PathEscape(code))
	return c.call(ctx, r, models.FieldBooking)
}

func (c *Client) UserBookings(ctx context.Context, userID int64) (*models.Response, error) {
	r := bareRequest("user bookings", http.MethodGet, "/bookings/user/"+pathID(userID))
	return c.call(ctx, r, models.FieldBookingList)
}

func (c *Client) CancelBooking(ctx context.Context, bookingID int64) (*models.Response, error) {
	r := bareRequest("cancel booking", http.MethodDelete, "/bookings/cancel/"+pathID(bookingID))
	return c.call(ctx, r)
}
