package httpserver

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/readloop/readloop/internal/domain"
	"github.com/readloop/readloop/internal/service"
)

type reviewCreateRequest struct {
	BookID  string `json:"bookId"`
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

type reviewUpdateRequest struct {
	Rating  *int    `json:"rating"`
	Content *string `json:"content"`
}

type reviewResponse struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var bookID *string
	if val := strings.TrimSpace(query.Get("bookId")); val != "" {
		bookID = &val
	}

	items, pagination, err := s.reviews.List(r.Context(), bookID, parsePage(query))
	if err != nil {
		s.respondServiceError(w, err, "list reviews")
		return
	}
	s.respondPage(w, http.StatusOK, toReviewResponses(items), pagination)
}

func (s *Server) handleListMyReviews(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())

	items, pagination, err := s.reviews.ListByActor(r.Context(), actor, parsePage(r.URL.Query()))
	if err != nil {
		s.respondServiceError(w, err, "list own reviews")
		return
	}
	s.respondPage(w, http.StatusOK, toReviewResponses(items), pagination)
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	review, err := s.reviews.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err, "get review")
		return
	}
	s.respondData(w, http.StatusOK, toReviewResponse(review))
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	review, err := s.reviews.Create(r.Context(), actorFrom(r.Context()), service.CreateReviewParams{
		BookID:  req.BookID,
		Rating:  req.Rating,
		Content: req.Content,
	})
	if err != nil {
		s.respondServiceError(w, err, "create review")
		return
	}
	s.respondData(w, http.StatusCreated, toReviewResponse(review))
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	review, err := s.reviews.Update(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"), service.ReviewPatch{
		Rating:  req.Rating,
		Content: req.Content,
	})
	if err != nil {
		s.respondServiceError(w, err, "update review")
		return
	}
	s.respondData(w, http.StatusOK, toReviewResponse(review))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := s.reviews.Delete(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, err, "delete review")
		return
	}
	s.respondData(w, http.StatusOK, struct{}{})
}

// parsePage reads page/limit query values. Absent or non-numeric values fall
// back to defaults rather than erroring.
func parsePage(query url.Values) service.Page {
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	return service.NormalizePage(page, limit)
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:        review.ID,
		BookID:    review.BookID,
		UserID:    review.UserID,
		UserName:  review.UserName,
		Rating:    review.Rating,
		Content:   review.Content,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func toReviewResponses(reviews []domain.Review) []reviewResponse {
	items := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toReviewResponse(review))
	}
	return items
}
