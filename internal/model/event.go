package model

import "time"

// Event mirrors the 'events' table.
type Event struct {
	ID        uint64
	Title     string
	Date      *time.Time
	OwnerID   uint64
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

// EventDetail mirrors the 'event_details' table, the one-to-one logistics
// record of an event.
type EventDetail struct {
	ID               uint64
	EventID          uint64
	Location         string
	LocationURL      string
	RegistrationDate *time.Time
	Timeline         string
	Category         string
	Level            string
	RegistrationFee  string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// EventFooter mirrors the 'event_footers' table with trailing free-form
// notes and links.
type EventFooter struct {
	ID        uint64
	EventID   uint64
	Notes     string
	URL       string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
