package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError is the tagged error carried from the workflow layer to the HTTP
// boundary. Failure bodies keep the historical "msg" key.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Msg        string `json:"msg"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func NewAPIError(statusCode int, code, msg string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Msg: msg}
}

var (
	ErrValidation   = NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "The request is invalid.")
	ErrUnauthorized = NewAPIError(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required and has failed or has not been provided.")
	ErrForbidden    = NewAPIError(http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource.")
	ErrNotFound     = NewAPIError(http.StatusNotFound, "NOT_FOUND", "The requested resource could not be found.")
	ErrConflict     = NewAPIError(http.StatusConflict, "CONFLICT", "A conflict occurred with the current state of the resource.")
	ErrInternal     = NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred on the server.")
)

// WithMsg returns a copy with a more specific message, leaving the sentinel
// value untouched so errors.Is keeps working against the originals.
func (e *APIError) WithMsg(msg string) *APIError {
	c := *e
	c.Msg = msg
	return &c
}

// WithDetails returns a copy carrying structured details (e.g. per-field
// validation messages).
func (e *APIError) WithDetails(details any) *APIError {
	c := *e
	c.Details = details
	return &c
}

// Is makes copies produced by WithMsg/WithDetails match their sentinel under
// errors.Is.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// FormatValidationErrors converts validator.ValidationErrors into a
// field -> message map suitable for APIError details.
func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMap := make(map[string]string)
	for _, e := range errs {
		field := strings.ToLower(e.Field())
		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("The %s field is required.", field)
		case "email":
			message = fmt.Sprintf("The %s field must be a valid email address.", field)
		case "min":
			message = fmt.Sprintf("The %s field must be at least %s characters long.", field, e.Param())
		case "oneof":
			message = fmt.Sprintf("The %s field must be one of the following values: %s.", field, e.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", field, e.Tag())
		}
		errorMap[field] = message
	}
	return errorMap
}
