package services

import (
	"errors"
	"fmt"
)

// ErrExternalService classifies transport failures, non-200 statuses and
// undecodable bodies from the movie catalog API. Callers match it with
// errors.Is; handlers translate it into a 502 page.
var ErrExternalService = errors.New("movie catalog service error")

// MalformedResponseError is returned when a catalog detail response decodes
// but is missing one of the fields a movie record is built from.
type MalformedResponseError struct {
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("movie catalog response missing field %q", e.Field)
}

// InvalidRatingError is returned when a submitted rating cannot be parsed
// as a float. The raw input is kept for the form to re-render.
type InvalidRatingError struct {
	Value string
	Err   error
}

func (e *InvalidRatingError) Error() string {
	return fmt.Sprintf("invalid rating %q: %v", e.Value, e.Err)
}

func (e *InvalidRatingError) Unwrap() error {
	return e.Err
}
