// Package queue defines the enrollment event payload, its RabbitMQ
// publisher and the background consumer that writes the enrollment log.
package queue

// EnrollmentConfirmedEvent is published after an enrollment has been
// fully persisted.  It carries enough denormalized data for downstream
// consumers to log or notify without querying the primary database.
type EnrollmentConfirmedEvent struct {
	EnrollmentID      uint64 `json:"enrollment_id"`
	UserID            uint64 `json:"user_id"`
	UserEmail         string `json:"user_email"`
	FormationID       uint64 `json:"formation_id"`
	FormationTitle    string `json:"formation_title"`
	FormationDate     string `json:"formation_date"`
	FormationLocation string `json:"formation_location"`
	SeatsLeft         int    `json:"seats_left"`
	EnrolledAt        string `json:"enrolled_at"`
}
