package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shashi-bhusan/fitpreneurs/internal/db"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
)

type EmployeeRepository struct {
	DB *db.Postgres
}

const employeeColumns = `id, fullname, email_id, mobile_number, address, role, date_of_birth, join_date, active, created_at, updated_at`

func (r EmployeeRepository) Create(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING `+employeeColumns,
		e.ID, e.Fullname, e.EmailID, e.MobileNumber, e.Address, e.Role, e.DateOfBirth, e.JoinDate, e.Active, e.CreatedAt, e.UpdatedAt)
	out, err := scanEmployee(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r EmployeeRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	out, err := scanEmployee(r.DB.Pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id=$1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r EmployeeRepository) List(ctx context.Context, f EmployeeFilter) ([]domain.Employee, int, error) {
	var (
		where string
		args  []any
	)
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = ` WHERE fullname ILIKE $1 OR email_id ILIKE $1 OR mobile_number ILIKE $1 OR role ILIKE $1`
	}

	var total int
	if err := r.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + employeeColumns + ` FROM employees` + where + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *e)
	}
	return items, total, rows.Err()
}

func (r EmployeeRepository) Update(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE employees SET fullname=$2, email_id=$3, mobile_number=$4, address=$5, role=$6,
			date_of_birth=$7, join_date=$8, active=$9, updated_at=$10
		WHERE id=$1
		RETURNING `+employeeColumns,
		e.ID, e.Fullname, e.EmailID, e.MobileNumber, e.Address, e.Role, e.DateOfBirth, e.JoinDate, e.Active, e.UpdatedAt)
	out, err := scanEmployee(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Missing returns the ids from the input that have no employee record.
func (r EmployeeRepository) Missing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	rows, err := r.DB.Pool.Query(ctx, `SELECT id FROM employees WHERE id = ANY($1::uuid[])`, raw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[uuid.UUID]struct{}, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	if err := row.Scan(
		&e.ID,
		&e.Fullname,
		&e.EmailID,
		&e.MobileNumber,
		&e.Address,
		&e.Role,
		&e.DateOfBirth,
		&e.JoinDate,
		&e.Active,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
