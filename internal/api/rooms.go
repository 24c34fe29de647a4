package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"hotelres/internal/models"
	"hotelres/internal/utils"
)

func (c *Client) AllRooms(ctx context.Context) (*models.Response, error) {
	r := bareRequest("all rooms", http.MethodGet, "/rooms/all")
	return c.call(ctx, r, models.FieldRoomList)
}

// RoomTypes is the one endpoint answering a bare JSON array.
func (c *Client) RoomTypes(ctx context.Context) ([]string, error) {
	r := bareRequest("room types", http.MethodGet, "/rooms/types")
	var types []string
	if err := c.do(ctx, r, &types); err != nil {
		return nil, err
	}
	if types == nil {
		return nil, &utils.DecodeError{Op: r.op, Err: models.ErrMissingField}
	}
	return types, nil
}

func (c *Client) RoomByID(ctx context.Context, roomID int64) (*models.Response, error) {
	r := bareRequest("room by id", http.MethodGet, "/rooms/room-by-id/"+pathID(roomID))
	return c.call(ctx, r, models.FieldRoom)
}

func (c *Client) AllAvailableRooms(ctx context.Context) (*models.Response, error) {
	r := bareRequest("available rooms", http.MethodGet, "/rooms/all-available-rooms")
	return c.call(ctx, r, models.FieldRoomList)
}

func (c *Client) AvailableRooms(ctx context.Context, checkIn, checkOut models.Date, roomType string) (*models.Response, error) {
	r := bareRequest("available rooms by date and type", http.MethodGet, "/rooms/available-rooms-by-date-and-type")
	r.query = url.Values{
		"checkInDate":  {checkIn.String()},
		"checkOutDate": {checkOut.String()},
		"roomType":     {roomType},
	}
	return c.call(ctx, r, models.FieldRoomList)
}

func (c *Client) AddRoom(ctx context.Context, form models.RoomForm, image *models.Upload) (*models.Response, error) {
	r, err := multipartRequest("add room", http.MethodPost, "/rooms/add", roomFields(form), "image", image)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, r)
}

func (c *Client) UpdateRoom(ctx context.Context, roomID int64, form models.RoomForm, image *models.Upload) (*models.Response, error) {
	r, err := multipartRequest("update room", http.MethodPatch, "/rooms/update/"+pathID(roomID), roomFields(form), "image", image)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, r)
}

func (c *Client) DeleteRoom(ctx context.Context, roomID int64) (*models.Response, error) {
	r := bareRequest("delete room", http.MethodDelete, "/rooms/delete/"+pathID(roomID))
	return c.call(ctx, r)
}

func roomFields(f models.RoomForm) [][2]string {
	return [][2]string{
		{"type", f.Type},
		{"price", strconv.FormatFloat(f.Price, 'f', -1, 64)},
		{"description", f.Description},
		{"name", f.Name},
	}
}
