package model

import "time"

// Enrollment is an immutable receipt binding one user to one formation.
// The formation and user fields are denormalized at enrollment time so the
// receipt stays meaningful even if the source records change later.  A
// unique index on (user_id, formation_id) guarantees at most one
// enrollment per pair; the record is never updated or deleted once written.
//
// FormationSeats is an audit value: the seat count at the moment this
// user's seat was claimed, i.e. one more than what the atomic reservation
// left behind.
type Enrollment struct {
	ID                  uint64    `json:"id"`
	UserID              uint64    `json:"userId"`
	UserName            string    `json:"userName"`
	UserEmail           string    `json:"userEmail"`
	FormationID         uint64    `json:"formationId"`
	FormationTitle      string    `json:"formationTitle"`
	FormationDate       string    `json:"formationDate"`
	FormationLocation   string    `json:"formationLocation"`
	FormationDuration   string    `json:"formationDuration"`
	FormationInstructor string    `json:"formationInstructor"`
	FormationPrice      string    `json:"formationPrice"`
	FormationSeats      int       `json:"formationSeats"`
	FormationLevel      string    `json:"formationLevel"`
	EnrolledAt          time.Time `json:"enrolledAt"`
}
