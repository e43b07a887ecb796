package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shashi-bhusan/fitpreneurs/internal/db"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrInvalidReference is returned when a referenced record does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// pgxQuerier is satisfied by both pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// CustomerFilter narrows customer listings. A zero Limit returns every match.
type CustomerFilter struct {
	Search       string
	CreatedSince *time.Time
	PaymentMode  domain.PaymentMode
	WithTrainer  bool
	Limit        int
	Offset       int
}

// EmployeeFilter narrows employee listings. A zero Limit returns every match.
type EmployeeFilter struct {
	Search string
	Limit  int
	Offset int
}

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
}

// mapErr translates driver errors into repository sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case db.IsUniqueViolation(err):
		return ErrDuplicate
	case db.IsForeignKeyViolation(err):
		return ErrInvalidReference
	}
	return err
}

// IsDuplicate detects unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate) || db.IsUniqueViolation(err)
}
