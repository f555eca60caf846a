package models

import "time"

// Movie is the shared record users collaborate on. CreatedBy is set exactly
// once at creation from the acting session's user id and is never changed by
// an edit. Rating is optional; nil means no rating was given.
type Movie struct {
	ID          string
	Name        string
	Description string
	Year        int
	Genres      []string
	Rating      *float64
	CreatedBy   string
	// CreatorName is the denormalized username of the creator, populated on
	// reads for display only.
	CreatorName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
