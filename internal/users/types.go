package users

import (
	"errors"
	"fmt"
)

// User mirrors a record served by the /users collection.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ErrCanceled marks a request that was aborted through its context. Callers
// are expected to recognise it and drop the result silently.
var ErrCanceled = errors.New("request canceled")

// IsCanceled reports whether err stems from a canceled request.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// StatusError is returned when the API answers with a status >= 400.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.Code)
}

// canceledError keeps the original cause while matching ErrCanceled.
type canceledError struct {
	cause error
}

func (e *canceledError) Error() string {
	return "canceled"
}

func (e *canceledError) Is(target error) bool {
	return target == ErrCanceled
}

func (e *canceledError) Unwrap() error {
	return e.cause
}
