package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shashi-bhusan/fitpreneurs/internal/db"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
)

type NotificationRepository struct {
	DB *db.Postgres
}

const notificationColumns = `id, kind, customer_id, title, message, channel, status, error, event_date, created_at, read_at`

// Create stores a notification. A second notification for the same kind,
// customer, channel and event date returns ErrDuplicate.
func (r NotificationRepository) Create(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING `+notificationColumns,
		n.ID, string(n.Kind), n.CustomerID, n.Title, n.Message, string(n.Channel), string(n.Status), n.Error, n.EventDate, n.CreatedAt, n.ReadAt)
	out, err := scanNotification(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r NotificationRepository) List(ctx context.Context, f NotificationFilter) ([]domain.Notification, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE ($1 = FALSE OR read_at IS NULL)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, f.UnreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

func (r NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Notification, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE notifications SET read_at = COALESCE(read_at, $2)
		WHERE id=$1
		RETURNING `+notificationColumns, id, at)
	out, err := scanNotification(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func scanNotification(row interface{ Scan(dest ...any) error }) (*domain.Notification, error) {
	var n domain.Notification
	if err := row.Scan(
		&n.ID,
		(*string)(&n.Kind),
		&n.CustomerID,
		&n.Title,
		&n.Message,
		(*string)(&n.Channel),
		(*string)(&n.Status),
		&n.Error,
		&n.EventDate,
		&n.CreatedAt,
		&n.ReadAt,
	); err != nil {
		return nil, err
	}
	return &n, nil
}
