package model

import "time"

// User roles.  Regular visitors sign up as USER; ADMIN accounts are
// seeded out of band and may manage the catalog.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User mirrors the `users` table.  Name and Email are copied onto
// enrollment records at enrollment time, so both are required at signup.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name.
//  Email        – unique, stored lower-cased.
//  PasswordHash – bcrypt hash; never serialized.
//  Role         – USER or ADMIN.
//  CreatedAt    – row creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
