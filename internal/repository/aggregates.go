package repository

import (
	"context"
	"fmt"

	"github.com/readloop/readloop/internal/domain"
)

// AggregatesRepository is the sole writer of the derived rating columns on
// books. Any path that needs fresh aggregates must go through Recompute
// rather than adjusting the columns inline.
type AggregatesRepository struct {
	db Querier
}

// Recompute re-derives average_rating and review_count for a book from the
// full current review set and writes both onto the book row in one statement.
// The average is rounded to one decimal and NULL while the book has no
// reviews. Calling it twice with no intervening review changes yields
// identical results, so a failed or racing call can always be retried.
func (r *AggregatesRepository) Recompute(ctx context.Context, bookID string) (domain.RatingAggregate, error) {
	const query = `
        UPDATE books b
        SET average_rating = agg.avg_rating,
            review_count = agg.cnt,
            updated_at = now()
        FROM (
            SELECT ROUND(AVG(rating)::numeric, 1)::float8 AS avg_rating,
                   COUNT(*)::int AS cnt
            FROM reviews
            WHERE book_id = $1
        ) AS agg
        WHERE b.id = $1
        RETURNING b.average_rating, b.review_count
    `

	var agg domain.RatingAggregate
	err := r.db.QueryRow(ctx, query, bookID).Scan(&agg.Average, &agg.Count)
	if err != nil {
		if notFoundErr(err) {
			return domain.RatingAggregate{}, ErrNotFound
		}
		return domain.RatingAggregate{}, fmt.Errorf("recompute rating aggregate: %w", err)
	}
	return agg, nil
}
