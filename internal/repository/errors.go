// Package repository owns persistence for the movie list. The sentinel
// errors below let handlers distinguish failure scenarios without
// inspecting driver errors: the store, not the workflow, is the single
// source of truth for title uniqueness.
package repository

import "errors"

// ErrNotFound is returned when an operation references a movie id that
// does not exist. Handlers should translate this into an HTTP 404.
var ErrNotFound = errors.New("movie not found")

// ErrDuplicateTitle is returned when a create hits the unique index on
// title. Handlers should translate this into an HTTP 409.
var ErrDuplicateTitle = errors.New("movie title already exists")
