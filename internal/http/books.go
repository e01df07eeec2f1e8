package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/readloop/readloop/internal/domain"
	"github.com/readloop/readloop/internal/repository"
)

type bookCreateRequest struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Description     string   `json:"description"`
	Genre           []string `json:"genre"`
	ISBN            *string  `json:"isbn"`
	PublicationYear *int     `json:"publicationYear"`
	Publisher       *string  `json:"publisher"`
	CoverImage      *string  `json:"coverImage"`
	Featured        bool     `json:"featured"`
}

type bookUpdateRequest struct {
	Title           *string  `json:"title"`
	Author          *string  `json:"author"`
	Description     *string  `json:"description"`
	Genre           []string `json:"genre"`
	ISBN            *string  `json:"isbn"`
	PublicationYear *int     `json:"publicationYear"`
	Publisher       *string  `json:"publisher"`
	CoverImage      *string  `json:"coverImage"`
	Featured        *bool    `json:"featured"`
}

type bookResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	Genre           []string  `json:"genre"`
	ISBN            *string   `json:"isbn,omitempty"`
	PublicationYear *int      `json:"publicationYear,omitempty"`
	Publisher       *string   `json:"publisher,omitempty"`
	CoverImage      *string   `json:"coverImage,omitempty"`
	Featured        bool      `json:"featured"`
	AverageRating   *float64  `json:"averageRating"`
	ReviewCount     int       `json:"reviewCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parsePage(query)

	filters := repository.BookListFilters{
		Limit:  page.Limit,
		Offset: (page.Number - 1) * page.Limit,
	}
	if val := strings.TrimSpace(query.Get("title")); val != "" {
		filters.Title = &val
	}
	if val := strings.TrimSpace(query.Get("author")); val != "" {
		filters.Author = &val
	}
	if val := strings.TrimSpace(query.Get("genre")); val != "" {
		filters.Genre = &val
	}

	items, total, err := s.repo.Books.List(r.Context(), filters)
	if err != nil {
		s.respondServiceError(w, err, "list books")
		return
	}

	totalPages := (total + page.Limit - 1) / page.Limit
	s.respondJSON(w, http.StatusOK, successEnvelope{
		Success: true,
		Data:    toBookResponses(items),
		Pagination: &paginationPayload{
			TotalCount:  total,
			TotalPages:  totalPages,
			CurrentPage: page.Number,
			Limit:       page.Limit,
		},
	})
}

func (s *Server) handleFeaturedBooks(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.Books.ListFeatured(r.Context(), 10)
	if err != nil {
		s.respondServiceError(w, err, "list featured books")
		return
	}
	s.respondData(w, http.StatusOK, toBookResponses(items))
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.repo.Books.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err, "get book")
		return
	}
	s.respondData(w, http.StatusOK, toBookResponse(book))
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	params, errMsg := buildBookCreateParams(req)
	if errMsg != "" {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", errMsg)
		return
	}

	book, err := s.repo.Books.Create(r.Context(), params)
	if err != nil {
		s.respondServiceError(w, err, "create book")
		return
	}
	s.logger.Info("book created", "book_id", book.ID, "title", book.Title)
	s.respondData(w, http.StatusCreated, toBookResponse(book))
}

func (s *Server) handleCreateBooksBulk(w http.ResponseWriter, r *http.Request) {
	var reqs []bookCreateRequest
	if err := decodeJSONBody(w, r, &reqs); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if len(reqs) == 0 {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request body must be a non-empty array of books")
		return
	}

	batch := make([]repository.BookCreateParams, 0, len(reqs))
	for _, req := range reqs {
		params, errMsg := buildBookCreateParams(req)
		if errMsg != "" {
			s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", errMsg)
			return
		}
		batch = append(batch, params)
	}

	books, err := s.repo.Books.CreateBulk(r.Context(), batch)
	if err != nil {
		s.respondServiceError(w, err, "bulk create books")
		return
	}
	s.logger.Info("bulk books created", "count", len(books))
	s.respondData(w, http.StatusCreated, toBookResponses(books))
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var req bookUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "title cannot be empty")
		return
	}
	if req.Author != nil && strings.TrimSpace(*req.Author) == "" {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "author cannot be empty")
		return
	}

	book, err := s.repo.Books.Update(r.Context(), chi.URLParam(r, "id"), repository.BookPatch{
		Title:           req.Title,
		Author:          req.Author,
		Description:     req.Description,
		Genre:           req.Genre,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Publisher:       req.Publisher,
		CoverImage:      req.CoverImage,
		Featured:        req.Featured,
	})
	if err != nil {
		s.respondServiceError(w, err, "update book")
		return
	}
	s.logger.Info("book updated", "book_id", book.ID, "title", book.Title)
	s.respondData(w, http.StatusOK, toBookResponse(book))
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Books.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, err, "delete book")
		return
	}
	s.respondData(w, http.StatusOK, struct{}{})
}

func buildBookCreateParams(req bookCreateRequest) (repository.BookCreateParams, string) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" {
		return repository.BookCreateParams{}, "title and author are required"
	}
	if req.PublicationYear != nil && *req.PublicationYear <= 0 {
		return repository.BookCreateParams{}, "publicationYear must be positive"
	}
	return repository.BookCreateParams{
		Title:           strings.TrimSpace(req.Title),
		Author:          strings.TrimSpace(req.Author),
		Description:     req.Description,
		Genre:           req.Genre,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Publisher:       req.Publisher,
		CoverImage:      req.CoverImage,
		Featured:        req.Featured,
	}, ""
}

func toBookResponse(book domain.Book) bookResponse {
	return bookResponse{
		ID:              book.ID,
		Title:           book.Title,
		Author:          book.Author,
		Description:     book.Description,
		Genre:           book.Genre,
		ISBN:            book.ISBN,
		PublicationYear: book.PublicationYear,
		Publisher:       book.Publisher,
		CoverImage:      book.CoverImage,
		Featured:        book.Featured,
		AverageRating:   book.AverageRating,
		ReviewCount:     book.ReviewCount,
		CreatedAt:       book.CreatedAt,
		UpdatedAt:       book.UpdatedAt,
	}
}

func toBookResponses(books []domain.Book) []bookResponse {
	items := make([]bookResponse, 0, len(books))
	for _, book := range books {
		items = append(items, toBookResponse(book))
	}
	return items
}
