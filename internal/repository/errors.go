// Package repository defines sentinel errors shared across repositories.
// Higher layers compare against these values with errors.Is to decide how
// a failure is reported; they should never inspect error strings.
package repository

import "errors"

// ErrFormationNotFound is returned when a formation lookup matches no row.
var ErrFormationNotFound = errors.New("formation not found")

// ErrNoSeatsAvailable is returned by ReserveSeat when the conditional
// decrement matched no row, i.e. the formation is either absent or has
// zero seats left.  Callers that need to tell the two apart perform a
// plain FindByID afterwards.
var ErrNoSeatsAvailable = errors.New("no seats available")

// ErrAlreadyEnrolled is returned when inserting an enrollment would
// violate the (user_id, formation_id) unique index.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// ErrEnrollmentNotFound is returned when an enrollment lookup matches no
// row for the requesting user.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// ErrInvalidEnrollment is returned when an enrollment record is missing a
// required denormalized field.  This indicates a bug in snapshot
// construction, not a user error.
var ErrInvalidEnrollment = errors.New("invalid enrollment record")

// ErrEmailExists is returned when registering a user with an email that
// is already taken.
var ErrEmailExists = errors.New("email already exists")
