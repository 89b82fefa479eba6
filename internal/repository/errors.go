// Package repository holds the data access layer for the hostel back
// office.  This file defines sentinel errors shared across the
// repositories so that higher layers can distinguish failure
// scenarios with errors.Is.  Lookup failures get one sentinel per
// entity; handlers translate them into HTTP 404 responses.
package repository

import "errors"

// ErrRoomNotFound is returned when a room lookup matches no row.
var ErrRoomNotFound = errors.New("room not found")

// ErrResidentNotFound is returned when a resident lookup matches no row.
var ErrResidentNotFound = errors.New("resident not found")

// ErrPaymentNotFound is returned when a payment lookup matches no row.
var ErrPaymentNotFound = errors.New("payment not found")
