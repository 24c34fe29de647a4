package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericMessage is shown when the backend did not say what went wrong.
const GenericMessage = "something went wrong, try again"

// APIError is a failed backend call. Status is 0 for transport failures.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("Code: %d, Message: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// NewAPIError keeps the backend message when there is one.
func NewAPIError(status int, message string, cause error) *APIError {
	if message == "" {
		message = GenericMessage
	}
	return &APIError{Status: status, Message: message, Err: cause}
}

// ValidationError is raised before any network call when input is missing or invalid.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// DecodeError is a response that did not match the expected schema.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// Message returns the text a user should see for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return GenericMessage
}
