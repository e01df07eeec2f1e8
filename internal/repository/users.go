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

// UsersRepository provides persistence helpers for user accounts.
type UsersRepository struct {
	db Querier
}

const userColumns = `
    id,
    name,
    email,
    password_hash,
    role,
    bio,
    created_at,
    updated_at
`

// UserCreateParams bundles the fields required to register a user.
type UserCreateParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         domain.Role
}

// Create inserts a new user row. A duplicate email returns ErrConflict.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	role := params.Role
	if role == "" {
		role = domain.RoleUser
	}

	query := fmt.Sprintf(`
        INSERT INTO users (id, name, email, password_hash, role)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING %s
    `, userColumns)

	row := r.db.QueryRow(ctx, query, uuid.NewString(), params.Name, strings.ToLower(params.Email), params.PasswordHash, role)
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if notFoundErr(err) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByEmail fetches a user by email. Lookup is case-insensitive because
// emails are stored lowercased.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	user, err := scanUser(r.db.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		if notFoundErr(err) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdateProfile applies the provided name/bio fields and stamps updated_at.
func (r *UsersRepository) UpdateProfile(ctx context.Context, id string, name *string, bio *string) (domain.User, error) {
	query := fmt.Sprintf(`
        UPDATE users
        SET name = COALESCE($2, name),
            bio = COALESCE($3, bio),
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id, name, bio))
	if err != nil {
		if notFoundErr(err) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user      domain.User
		role      string
		bio       *string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&bio,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	user.Role = domain.Role(role)
	user.Bio = bio
	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return user, nil
}
