// Package response holds the JSON bodies shared by every HTTP error path.
package response

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

const StatusError = "error"

// Response is the body of every error reply.
type Response struct {
	Status      string            `json:"status"`
	Message     string            `json:"message"`
	Errors      []validationError `json:"errors,omitempty"`
	OriginalURL string            `json:"originalUrl,omitempty"`
}

type validationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

var (
	EmptyRequestBodyResponse   = ErrorResponse("empty request body")
	InvalidRequestBodyResponse = ErrorResponse("invalid request body")
	LinkNotFoundResponse       = ErrorResponse("link not found")
	TooManyRequestsResponse    = ErrorResponse("too many requests, please try again later")
	ServerErrorResponse        = ErrorResponse("server error occurred")
)

// ErrorResponse returns an error body with msg.
func ErrorResponse(msg string) Response {
	return Response{
		Status:  StatusError,
		Message: msg,
	}
}

// ExpiredResponse reports an expired link, echoing its original URL so the
// client can recreate it.
func ExpiredResponse(originalURL string) Response {
	return Response{
		Status:      StatusError,
		Message:     "link expired",
		OriginalURL: originalURL,
	}
}

// ValidationErrorResponse lists the failed fields of a validator error.
func ValidationErrorResponse(err error) Response {
	return Response{
		Status:  StatusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url", "abs_url":
		return "invalid url"
	case "short_code":
		return "must be 4-10 characters of a-z, A-Z, 0-9, _ or -"
	case "gte", "lte", "min", "max":
		return "value out of range"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []validationError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	validationErrs := make([]validationError, 0, len(errs))
	for _, e := range errs {
		validationErrs = append(validationErrs, validationError{
			Field:   e.Field(),
			Value:   e.Value(),
			Message: messageForTag(e.Tag()),
		})
	}

	return validationErrs
}
