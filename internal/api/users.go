package api

import (
	"context"
	"net/http"

	"hotelres/internal/models"
)

func (c *Client) AllUsers(ctx context.Context) (*models.Response, error) {
	r := bareRequest("all users", http.MethodGet, "/users/all")
	return c.call(ctx, r, models.FieldUserList)
}

// Profile returns the user the session token belongs to.
func (c *Client) Profile(ctx context.Context) (*models.Response, error) {
	r := bareRequest("profile", http.MethodGet, "/users/get-logged-in-profile-info")
	return c.call(ctx, r, models.FieldUser)
}

func (c *Client) UserByID(ctx context.Context, userID int64) (*models.Response, error) {
	r := bareRequest("user by id", http.MethodGet, "/users/get-by-id/"+pathID(userID))
	return c.call(ctx, r, models.FieldUser)
}

// AddUser is the admin create; always multipart.
func (c *Client) AddUser(ctx context.Context, form models.RegisterForm, image *models.Upload) (*models.Response, error) {
	if form.Role == "" {
		form.Role = models.RoleUser
	}
	r, err := multipartRequest("add user", http.MethodPost, "/users/add/user", registerFields(form), "profileImage", image)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, r)
}

func (c *Client) UpdateUser(ctx context.Context, userID int64, form models.UserForm, image *models.Upload) (*models.Response, error) {
	fields := [][2]string{
		{"username", form.Username},
		{"email", form.Email},
		{"phone", form.Phone},
		{"address", form.Address},
		{"city", form.City},
		{"role", string(form.Role)},
	}
	if form.Password != "" {
		fields = append(fields, [2]string{"password", form.Password})
	}
	r, err := multipartRequest("update user", http.MethodPatch, "/users/edit-user/"+pathID(userID), fields, "profileImage", image)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, r)
}

// DeleteUser soft-deletes; the backend keeps the record flagged.
func (c *Client) DeleteUser(ctx context.Context, userID int64) (*models.Response, error) {
	r := bareRequest("delete user", http.MethodDelete, "/users/delete/"+pathID(userID))
	return c.call(ctx, r)
}
