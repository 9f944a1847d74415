// Package repository holds the data access layer.  Sentinel errors
// defined here let handlers distinguish failure scenarios without
// inspecting SQL errors directly.
package repository

import "errors"

// ErrOrderNotFound is returned when an order lookup matches no row,
// including the case where the order belongs to a different user.
// Handlers should translate it into an HTTP 404 response.
var ErrOrderNotFound = errors.New("order not found")
