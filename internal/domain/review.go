package domain

import "time"

// Review represents a single user's review of a book. BookID and UserID are
// immutable after creation; only Rating and Content may change.
type Review struct {
	ID        string
	BookID    string
	UserID    string
	UserName  string // joined from the author at read time, never stored
	Rating    int
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingAggregate carries the derived rating columns for a book. Average is
// nil while the book has no reviews.
type RatingAggregate struct {
	Average *float64
	Count   int
}
