package api

import (
	"context"
	"net/http"
	"net/url"

	"hotelres/internal/models"
)

// Register creates an account. The body is JSON unless a profile image is
// attached, in which case it is multipart.
func (c *Client) Register(ctx context.Context, form models.RegisterForm, image *models.Upload) (*models.Response, error) {
	var (
		r   request
		err error
	)
	if image != nil {
		r, err = multipartRequest("register", http.MethodPost, "/auth/register", registerFields(form), "profileImage", image)
	} else {
		r, err = jsonRequest("register", http.MethodPost, "/auth/register", form)
	}
	if err != nil {
		return nil, err
	}
	return c.call(ctx, r)
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.Response, error) {
	r, err := jsonRequest("login", http.MethodPost, "/auth/login", creds)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, r, models.FieldToken, models.FieldRole)
}

func (c *Client) ForgotPassword(ctx context.Context, form models.ForgotPasswordForm) (*models.Response, error) {
	r, err := jsonRequest("forgot password", http.MethodPost, "/auth/forgot", form)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, r)
}

// VerifyAccount activates an account from its emailed code.
func (c *Client) VerifyAccount(ctx context.Context, code string) (*models.Response, error) {
	r := bareRequest("verify account", http.MethodGet, "/auth/activate/"+url.PathEscape(code))
	return c.call(ctx, r)
}

// ResetPasswordInfo loads the user a reset code belongs to.
func (c *Client) ResetPasswordInfo(ctx context.Context, code string) (*models.Response, error) {
	r := bareRequest("reset password info", http.MethodGet, "/auth/reset/"+url.PathEscape(code))
	return c.call(ctx, r, models.FieldUser)
}

func (c *Client) ResetPassword(ctx context.Context, code string, form models.ResetPasswordForm) (*models.Response, error) {
	r, err := jsonRequest("reset password", http.MethodPost, "/auth/reset/"+url.PathEscape(code), form)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, r)
}

func registerFields(f models.RegisterForm) [][2]string {
	fields := [][2]string{
		{"username", f.Username},
		{"email", f.Email},
		{"password", f.Password},
		{"phone", f.Phone},
		{"address", f.Address},
		{"city", f.City},
	}
	if f.Role != "" {
		fields = append(fields, [2]string{"role", string(f.Role)})
	}
	return fields
}
