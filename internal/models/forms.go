package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"hotelres/internal/utils"
)

var validate = validator.New()

// Credentials is the login body.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterForm is self-registration; AddUser reuses it with a role.
type RegisterForm struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN"`
}

// UserForm edits an existing user. Password stays unchanged when empty.
type UserForm struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password,omitempty"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	Role     Role   `json:"role" validate:"required,oneof=USER ADMIN"`
}

type RoomForm struct {
	Name        string  `json:"name" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Price       float64 `json:"price" validate:"gt=0"`
	Description string  `json:"description" validate:"required"`
}

type ForgotPasswordForm struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordForm struct {
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
	Email     string `json:"email"`
}

// Upload is an optional file attached to a multipart form.
type Upload struct {
	Filename string
	Data     []byte
}

// Check validates form and reports the first failing field as a
// *utils.ValidationError carrying message.
func Check(form any, message string) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := message
		if fe.Tag() == "eqfield" {
			msg = "Passwords do not match."
		}
		return &utils.ValidationError{Field: strings.ToLower(fe.Field()), Message: msg}
	}
	return &utils.ValidationError{Message: message}
}
