package stateful

import (
	"fmt"
	"net/http"
)

// NotFoundError is returned when an id is absent from a collection.
type NotFoundError struct {
	Collection string
	ID         string
}

// Error returns the message served in 404 bodies.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Collection)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// UnknownCollectionError is returned when a name is not one of the store's
// collections.
type UnknownCollectionError struct {
	Name string
}

func (e *UnknownCollectionError) Error() string {
	return fmt.Sprintf("collection %q not found", e.Name)
}

// StatusCode returns the HTTP status code for this error.
func (e *UnknownCollectionError) StatusCode() int {
	return http.StatusNotFound
}
