package seed

import (
	"fmt"
	"net/http"
)

// Error is returned when a seed source cannot be read or parsed.
type Error struct {
	// Source is the file path or label of the seed source.
	Source string
	// Op is "read" or "parse".
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("seed %s %s: %v", e.Op, e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
func (e *Error) StatusCode() int {
	return http.StatusInternalServerError
}

// ShapeError is reported when a collection key holds something other than an
// array. It never fails a load; the collection is served empty instead.
type ShapeError struct {
	Collection string
	Got        string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("seed collection %q is %s, not an array", e.Collection, e.Got)
}
