package model

import "time"

// Opinion is a contact-form submission.  Plain append-only CRUD with no
// shared mutable state; listed only by admins.
type Opinion struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
