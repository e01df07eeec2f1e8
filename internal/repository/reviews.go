package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/readloop/readloop/internal/domain"
)

// ReviewsRepository provides persistence helpers for reviews. Every read joins
// the author row so responses can carry the reviewer's name without a stored
// denormalization.
type ReviewsRepository struct {
	db Querier
}

const reviewColumns = `
    r.id,
    r.book_id,
    r.user_id,
    u.name,
    r.rating,
    r.content,
    r.created_at,
    r.updated_at
`

// ReviewCreateParams bundles the fields required to create a review.
type ReviewCreateParams struct {
	BookID  string
	UserID  string
	Rating  int
	Content string
}

// Create inserts a new review. A second review for the same (book, user) pair
// returns ErrConflict; a dangling book or user reference returns ErrNotFound.
func (r *ReviewsRepository) Create(ctx context.Context, params ReviewCreateParams) (domain.Review, error) {
	const query = `
        WITH inserted AS (
            INSERT INTO reviews (id, book_id, user_id, rating, content)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id, book_id, user_id, rating, content, created_at, updated_at
        )
        SELECT r.id, r.book_id, r.user_id, u.name, r.rating, r.content, r.created_at, r.updated_at
        FROM inserted r
        JOIN users u ON u.id = r.user_id
    `

	review, err := scanReview(r.db.QueryRow(ctx, query, uuid.NewString(), params.BookID, params.UserID, params.Rating, params.Content))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.Review{}, ErrConflict
		case isForeignKeyViolation(err):
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// GetByID fetches a review by its identifier.
func (r *ReviewsRepository) GetByID(ctx context.Context, id string) (domain.Review, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.id = $1
    `, reviewColumns)

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if notFoundErr(err) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// ListByBook returns a page of reviews for one book, newest first.
func (r *ReviewsRepository) ListByBook(ctx context.Context, bookID string, limit, offset int) ([]domain.Review, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.book_id = $1
        ORDER BY r.created_at DESC, r.id DESC
        LIMIT $2 OFFSET $3
    `, reviewColumns)
	return r.list(ctx, query, bookID, limit, offset)
}

// ListByUser returns a page of one author's reviews, newest first.
func (r *ReviewsRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Review, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.user_id = $1
        ORDER BY r.created_at DESC, r.id DESC
        LIMIT $2 OFFSET $3
    `, reviewColumns)
	return r.list(ctx, query, userID, limit, offset)
}

// ListAll returns a page across all reviews, newest first.
func (r *ReviewsRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Review, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        ORDER BY r.created_at DESC, r.id DESC
        LIMIT $1 OFFSET $2
    `, reviewColumns)
	return r.list(ctx, query, limit, offset)
}

// CountByBook returns the number of reviews referencing a book.
func (r *ReviewsRepository) CountByBook(ctx context.Context, bookID string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE book_id = $1`, bookID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews by book: %w", err)
	}
	return count, nil
}

// CountByUser returns the number of reviews written by a user.
func (r *ReviewsRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews by user: %w", err)
	}
	return count, nil
}

// CountAll returns the total number of reviews.
func (r *ReviewsRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

// Update applies the provided rating/content fields and stamps updated_at.
// Book and author references never change.
func (r *ReviewsRepository) Update(ctx context.Context, id string, rating *int, content *string) (domain.Review, error) {
	const query = `
        UPDATE reviews r
        SET rating = COALESCE($2, r.rating),
            content = COALESCE($3, r.content),
            updated_at = now()
        FROM users u
        WHERE r.id = $1 AND u.id = r.user_id
        RETURNING r.id, r.book_id, r.user_id, u.name, r.rating, r.content, r.created_at, r.updated_at
    `

	review, err := scanReview(r.db.QueryRow(ctx, query, id, rating, content))
	if err != nil {
		if notFoundErr(err) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// Delete removes a review.
func (r *ReviewsRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return ErrNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReviewsRepository) list(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var (
		review    domain.Review
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(
		&review.ID,
		&review.BookID,
		&review.UserID,
		&review.UserName,
		&review.Rating,
		&review.Content,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Review{}, err
	}

	review.CreatedAt = createdAt
	review.UpdatedAt = updatedAt
	return review, nil
}
