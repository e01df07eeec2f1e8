package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/readloop/readloop/internal/domain"
)

// BooksRepository provides persistence helpers for book entities.
type BooksRepository struct {
	db Querier
}

const bookColumns = `
    id,
    title,
    author,
    description,
    genre,
    isbn,
    publication_year,
    publisher,
    cover_image,
    featured,
    average_rating,
    review_count,
    created_at,
    updated_at
`

// BookCreateParams bundles the fields required to create a book.
type BookCreateParams struct {
	Title           string
	Author          string
	Description     string
	Genre           []string
	ISBN            *string
	PublicationYear *int
	Publisher       *string
	CoverImage      *string
	Featured        bool
}

// BookPatch captures an admin metadata update. Nil fields are left unchanged.
type BookPatch struct {
	Title           *string
	Author          *string
	Description     *string
	Genre           []string
	ISBN            *string
	PublicationYear *int
	Publisher       *string
	CoverImage      *string
	Featured        *bool
}

// BookListFilters encapsulates search and pagination options.
type BookListFilters struct {
	Title  *string
	Author *string
	Genre  *string
	Limit  int
	Offset int
}

// Create inserts a new book row and returns the stored entity.
func (r *BooksRepository) Create(ctx context.Context, params BookCreateParams) (domain.Book, error) {
	genre := params.Genre
	if genre == nil {
		genre = []string{}
	}

	query := fmt.Sprintf(`
        INSERT INTO books (id, title, author, description, genre, isbn, publication_year, publisher, cover_image, featured)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING %s
    `, bookColumns)

	row := r.db.QueryRow(ctx, query,
		uuid.NewString(), params.Title, params.Author, params.Description, genre,
		params.ISBN, params.PublicationYear, params.Publisher, params.CoverImage, params.Featured)
	return scanBook(row)
}

// CreateBulk inserts several books, returning them in input order.
func (r *BooksRepository) CreateBulk(ctx context.Context, batch []BookCreateParams) ([]domain.Book, error) {
	books := make([]domain.Book, 0, len(batch))
	for _, params := range batch {
		book, err := r.Create(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("bulk create %q: %w", params.Title, err)
		}
		books = append(books, book)
	}
	return books, nil
}

// GetByID fetches a book by its identifier.
func (r *BooksRepository) GetByID(ctx context.Context, id string) (domain.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)
	book, err := scanBook(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if notFoundErr(err) {
			return domain.Book{}, ErrNotFound
		}
		return domain.Book{}, err
	}
	return book, nil
}

// List returns books matching the provided filters plus the unpaginated total.
func (r *BooksRepository) List(ctx context.Context, filters BookListFilters) ([]domain.Book, int, error) {
	if filters.Limit <= 0 {
		filters.Limit = 10
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	where := make([]string, 0)
	args := make([]any, 0)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Title != nil && strings.TrimSpace(*filters.Title) != "" {
		where = append(where, fmt.Sprintf("title ILIKE %s", arg("%"+strings.TrimSpace(*filters.Title)+"%")))
	}
	if filters.Author != nil && strings.TrimSpace(*filters.Author) != "" {
		where = append(where, fmt.Sprintf("author ILIKE %s", arg("%"+strings.TrimSpace(*filters.Author)+"%")))
	}
	if filters.Genre != nil && strings.TrimSpace(*filters.Genre) != "" {
		where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(genre) g WHERE g ILIKE %s)", arg(strings.TrimSpace(*filters.Genre))))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM books"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM books%s ORDER BY created_at DESC, id DESC LIMIT %s OFFSET %s`,
		bookColumns, whereClause, arg(filters.Limit), arg(filters.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]domain.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListFeatured returns up to limit featured books, best-rated first.
func (r *BooksRepository) ListFeatured(ctx context.Context, limit int) ([]domain.Book, error) {
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf(`
        SELECT %s FROM books
        WHERE featured
        ORDER BY average_rating DESC NULLS LAST, created_at DESC
        LIMIT $1
    `, bookColumns)

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a metadata patch and stamps updated_at. The derived rating
// columns are deliberately untouched here.
func (r *BooksRepository) Update(ctx context.Context, id string, patch BookPatch) (domain.Book, error) {
	query := fmt.Sprintf(`
        UPDATE books
        SET title = COALESCE($2, title),
            author = COALESCE($3, author),
            description = COALESCE($4, description),
            genre = COALESCE($5, genre),
            isbn = COALESCE($6, isbn),
            publication_year = COALESCE($7, publication_year),
            publisher = COALESCE($8, publisher),
            cover_image = COALESCE($9, cover_image),
            featured = COALESCE($10, featured),
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, bookColumns)

	row := r.db.QueryRow(ctx, query, id,
		patch.Title, patch.Author, patch.Description, patch.Genre,
		patch.ISBN, patch.PublicationYear, patch.Publisher, patch.CoverImage, patch.Featured)
	book, err := scanBook(row)
	if err != nil {
		if notFoundErr(err) {
			return domain.Book{}, ErrNotFound
		}
		return domain.Book{}, err
	}
	return book, nil
}

// Delete removes a book; its reviews go with it via ON DELETE CASCADE.
func (r *BooksRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
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

func scanBook(row pgx.Row) (domain.Book, error) {
	var (
		book          domain.Book
		genre         []string
		averageRating *float64
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&genre,
		&book.ISBN,
		&book.PublicationYear,
		&book.Publisher,
		&book.CoverImage,
		&book.Featured,
		&averageRating,
		&book.ReviewCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Book{}, err
	}

	book.Genre = genre
	book.AverageRating = averageRating
	book.CreatedAt = createdAt
	book.UpdatedAt = updatedAt
	return book, nil
}
