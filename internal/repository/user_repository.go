package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shashi-bhusan/fitpreneurs/internal/db"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
)

type UserRepository struct {
	DB *db.Postgres
}

type CreateUserParams struct {
	Name         string
	Email        string
	Role         domain.UserRole
	PasswordHash *string
	IsGoogle     bool
}

const userColumns = `id, name, email, role, is_google, password_hash, created_at, updated_at`

func (r UserRepository) Create(ctx context.Context, p CreateUserParams) (*domain.User, error) {
	now := time.Now()
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, role, is_google, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
		RETURNING `+userColumns,
		uuid.New(), p.Name, strings.ToLower(p.Email), string(p.Role), p.IsGoogle, p.PasswordHash, now)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return user, nil
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, strings.ToLower(email))
	user, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return user, nil
}

func (r UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&role,
		&u.IsGoogle,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}
