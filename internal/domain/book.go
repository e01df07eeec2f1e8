package domain

import "time"

// Book represents the canonical book entity in the database/service.
//
// AverageRating and ReviewCount are derived from the book's reviews and are
// written only by the rating aggregator; they are nil/zero until the first
// review lands.
type Book struct {
	ID              string
	Title           string
	Author          string
	Description     string
	Genre           []string
	ISBN            *string
	PublicationYear *int
	Publisher       *string
	CoverImage      *string
	Featured        bool
	AverageRating   *float64
	ReviewCount     int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
