// Package repository implements persistence for professors, reservations
// and refresh tokens on MySQL, plus an in-memory variant used by tests.
// Sentinel errors defined here let the service layer translate store
// failures into the typed error taxonomy without inspecting driver
// error strings itself.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrSlotTaken is returned when a reservation cannot be committed
// because another reservation occupies the buffered window, including
// the case where the database unique key rejects the insert after the
// locking read saw a free slot.
var ErrSlotTaken = errors.New("slot taken")

// ErrEmailExists is returned when a professor insert or update violates
// the unique email constraint.
var ErrEmailExists = errors.New("email already exists")
