package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/readloop/readloop/internal/repository"
	"github.com/readloop/readloop/internal/service"
)

const maxRequestBody = 1 << 20 // 1 MiB

type paginationPayload struct {
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

type successEnvelope struct {
	Success    bool               `json:"success"`
	Data       interface{}        `json:"data"`
	Pagination *paginationPayload `json:"pagination,omitempty"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Success bool         `json:"success"`
	Error   errorPayload `json:"error"`
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error("encode response", "error", err)
		}
	}
}

// respondData wraps payload in the success envelope.
func (s *Server) respondData(w http.ResponseWriter, status int, data interface{}) {
	s.respondJSON(w, status, successEnvelope{Success: true, Data: data})
}

// respondPage wraps a list payload plus pagination in the success envelope.
func (s *Server) respondPage(w http.ResponseWriter, status int, data interface{}, p service.Pagination) {
	s.respondJSON(w, status, successEnvelope{
		Success: true,
		Data:    data,
		Pagination: &paginationPayload{
			TotalCount:  p.TotalCount,
			TotalPages:  p.TotalPages,
			CurrentPage: p.CurrentPage,
			Limit:       p.Limit,
		},
	})
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorEnvelope{
		Success: false,
		Error:   errorPayload{Code: code, Message: message},
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

// respondServiceError maps the service/repository error taxonomy onto HTTP
// statuses; anything unrecognized is logged and reported as a 500.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, op string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error())
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, repository.ErrConflict):
		s.respondError(w, http.StatusConflict, "CONFLICT", "Resource already exists")
	case errors.Is(err, service.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "FORBIDDEN", "Not authorized to perform this action")
	default:
		s.logger.Error(op, "error", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
