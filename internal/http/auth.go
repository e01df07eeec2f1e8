package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/readloop/readloop/internal/auth"
	"github.com/readloop/readloop/internal/domain"
	"github.com/readloop/readloop/internal/repository"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  actorDetail `json:"user"`
}

type actorDetail struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	if !strings.Contains(email, "@") {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "a valid email is required")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		s.logger.Error("hash password", "error", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user")
		return
	}

	user, err := s.repo.Users.Create(r.Context(), repository.UserCreateParams{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Email already registered")
			return
		}
		s.logger.Error("register user", "error", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user")
		return
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	s.respondData(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "email and password are required")
		return
	}

	user, err := s.repo.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
			return
		}
		s.logger.Error("login lookup", "error", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		s.logger.Error("issue token", "error", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	s.logger.Info("user logged in", "user_id", user.ID, "email", user.Email)
	s.respondData(w, http.StatusOK, loginResponse{
		Token: token,
		User: actorDetail{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// handleLogout exists for API symmetry; tokens are stateless, so the client
// simply discards its copy.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	s.logger.Info("user logged out", "user_id", actor.ID)
	s.respondData(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
