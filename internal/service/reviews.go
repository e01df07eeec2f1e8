package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/readloop/readloop/internal/domain"
	"github.com/readloop/readloop/internal/repository"
)

const (
	// DefaultPage and DefaultLimit apply when pagination input is absent or
	// non-positive.
	DefaultPage  = 1
	DefaultLimit = 10

	minRating        = 1
	maxRating        = 5
	minContentLength = 10
)

// Page is a normalized pagination request.
type Page struct {
	Number int
	Limit  int
}

// NormalizePage clamps page/limit to valid values, falling back to defaults.
func NormalizePage(page, limit int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return Page{Number: page, Limit: limit}
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Limit
}

// Pagination describes the result window returned alongside a list.
type Pagination struct {
	TotalCount  int
	TotalPages  int
	CurrentPage int
	Limit       int
}

func paginate(page Page, total int) Pagination {
	totalPages := (total + page.Limit - 1) / page.Limit
	return Pagination{
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: page.Number,
		Limit:       page.Limit,
	}
}

// CreateReviewParams is the request payload for posting a review.
type CreateReviewParams struct {
	BookID  string
	Rating  int
	Content string
}

// ReviewPatch carries the mutable review fields; nil means "leave unchanged".
type ReviewPatch struct {
	Rating  *int
	Content *string
}

// ReviewService orchestrates review CRUD: it validates input, enforces the
// mutation policy, and runs each review write together with the book's rating
// recomputation in a single transaction.
type ReviewService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewReviewService constructs the service over a pool-backed repository.
func NewReviewService(repo *repository.Repository, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{repo: repo, logger: logger}
}

// List returns a page of reviews, optionally scoped to one book. A bookID
// that does not resolve fails with repository.ErrNotFound: "no such book" is
// distinct from "book with zero reviews".
func (s *ReviewService) List(ctx context.Context, bookID *string, page Page) ([]domain.Review, Pagination, error) {
	if bookID != nil {
		if _, err := s.repo.Books.GetByID(ctx, *bookID); err != nil {
			return nil, Pagination{}, err
		}
		items, err := s.repo.Reviews.ListByBook(ctx, *bookID, page.Limit, page.offset())
		if err != nil {
			return nil, Pagination{}, err
		}
		total, err := s.repo.Reviews.CountByBook(ctx, *bookID)
		if err != nil {
			return nil, Pagination{}, err
		}
		return items, paginate(page, total), nil
	}

	items, err := s.repo.Reviews.ListAll(ctx, page.Limit, page.offset())
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.repo.Reviews.CountAll(ctx)
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, paginate(page, total), nil
}

// ListByActor returns a page of the authenticated actor's own reviews.
func (s *ReviewService) ListByActor(ctx context.Context, actor domain.Actor, page Page) ([]domain.Review, Pagination, error) {
	items, err := s.repo.Reviews.ListByUser(ctx, actor.ID, page.Limit, page.offset())
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.repo.Reviews.CountByUser(ctx, actor.ID)
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, paginate(page, total), nil
}

// Get returns a single review by ID.
func (s *ReviewService) Get(ctx context.Context, id string) (domain.Review, error) {
	return s.repo.Reviews.GetByID(ctx, id)
}

// Create validates and persists a new review by the actor, recomputing the
// book's rating aggregate in the same transaction. Fails with
// repository.ErrNotFound when the book does not exist and
// repository.ErrConflict when the actor already reviewed it.
func (s *ReviewService) Create(ctx context.Context, actor domain.Actor, params CreateReviewParams) (domain.Review, error) {
	if strings.TrimSpace(params.BookID) == "" {
		return domain.Review{}, invalidField("bookId", "book ID is required")
	}
	if err := validateRating(params.Rating); err != nil {
		return domain.Review{}, err
	}
	content, err := validateContent(params.Content)
	if err != nil {
		return domain.Review{}, err
	}

	if _, err := s.repo.Books.GetByID(ctx, params.BookID); err != nil {
		return domain.Review{}, err
	}

	var review domain.Review
	err = s.repo.InTx(ctx, func(tx *repository.Repository) error {
		var err error
		review, err = tx.Reviews.Create(ctx, repository.ReviewCreateParams{
			BookID:  params.BookID,
			UserID:  actor.ID,
			Rating:  params.Rating,
			Content: content,
		})
		if err != nil {
			return err
		}
		_, err = tx.Aggregates.Recompute(ctx, params.BookID)
		return err
	})
	if err != nil {
		return domain.Review{}, err
	}

	s.logger.Info("review created", "review_id", review.ID, "book_id", review.BookID, "user_id", actor.ID)
	return review, nil
}

// Update applies a partial patch to a review the actor is allowed to mutate,
// recomputing the book's aggregate in the same transaction when the rating
// changed.
func (s *ReviewService) Update(ctx context.Context, actor domain.Actor, id string, patch ReviewPatch) (domain.Review, error) {
	existing, err := s.repo.Reviews.GetByID(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if !actor.CanMutate(existing) {
		return domain.Review{}, ErrForbidden
	}

	if patch.Rating == nil && patch.Content == nil {
		return domain.Review{}, invalidField("body", "at least one of rating or content is required")
	}
	if patch.Rating != nil {
		if err := validateRating(*patch.Rating); err != nil {
			return domain.Review{}, err
		}
	}
	if patch.Content != nil {
		content, err := validateContent(*patch.Content)
		if err != nil {
			return domain.Review{}, err
		}
		patch.Content = &content
	}

	ratingChanged := patch.Rating != nil && *patch.Rating != existing.Rating

	var review domain.Review
	err = s.repo.InTx(ctx, func(tx *repository.Repository) error {
		var err error
		review, err = tx.Reviews.Update(ctx, id, patch.Rating, patch.Content)
		if err != nil {
			return err
		}
		if ratingChanged {
			if _, err := tx.Aggregates.Recompute(ctx, review.BookID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Review{}, err
	}

	s.logger.Info("review updated", "review_id", review.ID, "book_id", review.BookID, "actor_id", actor.ID)
	return review, nil
}

// Delete removes a review the actor is allowed to mutate and recomputes the
// book's aggregate in the same transaction.
func (s *ReviewService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	existing, err := s.repo.Reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(existing) {
		return ErrForbidden
	}

	err = s.repo.InTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Reviews.Delete(ctx, id); err != nil {
			return err
		}
		_, err := tx.Aggregates.Recompute(ctx, existing.BookID)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("review deleted", "review_id", id, "book_id", existing.BookID, "actor_id", actor.ID)
	return nil
}

func validateRating(rating int) error {
	if rating < minRating || rating > maxRating {
		return invalidField("rating", fmt.Sprintf("rating must be an integer between %d and %d", minRating, maxRating))
	}
	return nil
}

func validateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < minContentLength {
		return "", invalidField("content", fmt.Sprintf("review must be at least %d characters", minContentLength))
	}
	return trimmed, nil
}
