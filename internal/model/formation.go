package model

import "time"

// Formation levels accepted by the catalog.  The level column is an ENUM
// in the database; any other value is rejected before the insert.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// ValidLevel reports whether s is one of the accepted formation levels.
func ValidLevel(s string) bool {
	return s == LevelBeginner || s == LevelIntermediate || s == LevelAdvanced
}

// Formation represents a scheduled training course offering as stored in
// the `formations` table.  Seats is the only field ever mutated after
// creation, and only through FormationRepo.ReserveSeat; it must never go
// negative.  Date, Duration and Price are display strings, not parsed
// values, mirroring how the catalog presents them.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – course title.
//  Description – course description shown in the catalog.
//  Date        – opaque display date (e.g. "12-14 March 2026").
//  Location    – city or venue.
//  Duration    – display duration (e.g. "3 days").
//  Instructor  – instructor display name.
//  Price       – display price (e.g. "1200 EUR").
//  Seats       – remaining seat count, >= 0 at all times.
//  Level       – one of Beginner, Intermediate, Advanced.
//  Image       – optional illustration URL.
//  CreatedAt   – row creation timestamp.
//  UpdatedAt   – last update timestamp.
type Formation struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Duration    string    `json:"duration"`
	Instructor  string    `json:"instructor"`
	Price       string    `json:"price"`
	Seats       int       `json:"seats"`
	Level       string    `json:"level"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
