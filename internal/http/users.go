package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/readloop/readloop/internal/domain"
)

type profileUpdateRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

type userResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	Bio         *string     `json:"bio,omitempty"`
	ReviewCount int         `json:"reviewCount"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())

	user, err := s.repo.Users.GetByID(r.Context(), actor.ID)
	if err != nil {
		s.respondServiceError(w, err, "get profile")
		return
	}
	s.respondUser(w, r, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name cannot be empty")
		return
	}

	actor := actorFrom(r.Context())
	user, err := s.repo.Users.UpdateProfile(r.Context(), actor.ID, req.Name, req.Bio)
	if err != nil {
		s.respondServiceError(w, err, "update profile")
		return
	}
	s.logger.Info("profile updated", "user_id", user.ID)
	s.respondUser(w, r, http.StatusOK, user)
}

func (s *Server) handleGetUserByID(w http.ResponseWriter, r *http.Request) {
	user, err := s.repo.Users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err, "get user")
		return
	}
	s.respondUser(w, r, http.StatusOK, user)
}

// respondUser shapes a user response, attaching the author's review count.
func (s *Server) respondUser(w http.ResponseWriter, r *http.Request, status int, user domain.User) {
	reviewCount, err := s.repo.Reviews.CountByUser(r.Context(), user.ID)
	if err != nil {
		s.respondServiceError(w, err, "count user reviews")
		return
	}

	s.respondData(w, status, userResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Bio:         user.Bio,
		ReviewCount: reviewCount,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	})
}
