package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shashi-bhusan/fitpreneurs/internal/db"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
)

type CustomerRepository struct {
	DB *db.Postgres
}

const customerColumns = `
	id, fullname, email_id, mobile_number, date_of_birth, address, preferred_time,
	plan, plan_days, plan_cost, session_type, session_cost, total_amount, amount_paid,
	plan_debt, session_debt, payment_mode, status, freeze_days, freeze_date,
	membership_start_date, membership_end_date, created_at, updated_at`

func (r CustomerRepository) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	err := r.DB.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO customers (`+customerColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
		`, customerArgs(c)...)
		if err != nil {
			return mapErr(err)
		}
		if err := insertPayments(ctx, tx, c.ID, c.Payments, 0); err != nil {
			return err
		}
		if err := insertPlanHistory(ctx, tx, c.ID, c.PlanHistory, 0); err != nil {
			return err
		}
		return replaceAssignments(ctx, tx, c.ID, c.AssignedEmployees)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, c.ID)
}

func (r CustomerRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return getCustomerWith(ctx, r.DB.Pool, id, false)
}

func (r CustomerRepository) List(ctx context.Context, f CustomerFilter) ([]domain.Customer, int, error) {
	where, args := customerWhere(f)

	var total int
	if err := r.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + customerColumns + ` FROM customers` + where + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	items, err := queryCustomers(ctx, r.DB.Pool, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update loads the customer under a row lock, applies fn and persists the
// result in the same transaction. Ledger and history rows are append-only.
func (r CustomerRepository) Update(ctx context.Context, id uuid.UUID, fn func(*domain.Customer) error) (*domain.Customer, error) {
	var out *domain.Customer
	err := r.DB.WithTx(ctx, func(tx pgx.Tx) error {
		current, err := getCustomerWith(ctx, tx, id, true)
		if err != nil {
			return err
		}
		paymentCount, historyCount := len(current.Payments), len(current.PlanHistory)

		next := current.Clone()
		if err := fn(&next); err != nil {
			return err
		}
		if len(next.Payments) < paymentCount || len(next.PlanHistory) < historyCount {
			return fmt.Errorf("update customer %s: ledger is append-only", id)
		}

		_, err = tx.Exec(ctx, `
			UPDATE customers SET
				fullname=$2, email_id=$3, mobile_number=$4, date_of_birth=$5, address=$6, preferred_time=$7,
				plan=$8, plan_days=$9, plan_cost=$10, session_type=$11, session_cost=$12, total_amount=$13,
				amount_paid=$14, plan_debt=$15, session_debt=$16, payment_mode=$17, status=$18,
				freeze_days=$19, freeze_date=$20, membership_start_date=$21, membership_end_date=$22,
				created_at=$23, updated_at=$24
			WHERE id=$1
		`, customerArgs(next)...)
		if err != nil {
			return mapErr(err)
		}
		if err := insertPayments(ctx, tx, id, next.Payments[paymentCount:], paymentCount); err != nil {
			return err
		}
		if err := insertPlanHistory(ctx, tx, id, next.PlanHistory[historyCount:], historyCount); err != nil {
			return err
		}
		if err := replaceAssignments(ctx, tx, id, next.AssignedEmployees); err != nil {
			return err
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r CustomerRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM customers`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListExpiring returns non-transferred customers whose membership ends within [from, to].
func (r CustomerRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]domain.Customer, error) {
	return queryCustomers(ctx, r.DB.Pool, `
		SELECT `+customerColumns+` FROM customers
		WHERE membership_end_date BETWEEN $1 AND $2 AND status <> 'transferred'
		ORDER BY membership_end_date ASC
	`, from, to)
}

// ListWithBirthday returns customers that have a date of birth on record.
func (r CustomerRepository) ListWithBirthday(ctx context.Context) ([]domain.Customer, error) {
	return queryCustomers(ctx, r.DB.Pool, `
		SELECT `+customerColumns+` FROM customers
		WHERE date_of_birth IS NOT NULL
		ORDER BY fullname ASC
	`)
}

func (r CustomerRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.Customer, error) {
	return queryCustomers(ctx, r.DB.Pool, `
		SELECT `+prefixed("c", customerColumns)+` FROM customers c
		JOIN customer_employees ce ON ce.customer_id = c.id
		WHERE ce.employee_id = $1
		ORDER BY c.fullname ASC
	`, employeeID)
}

// ListPayments returns every ledger entry dated within [from, to).
func (r CustomerRepository) ListPayments(ctx context.Context, from, to time.Time) ([]domain.CustomerPayment, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT p.customer_id, c.fullname, c.mobile_number, p.id, p.amount, p.paid_at, p.mode, p.type, p.notes
		FROM customer_payments p
		JOIN customers c ON c.id = p.customer_id
		WHERE p.paid_at >= $1 AND p.paid_at < $2
		ORDER BY p.paid_at ASC, p.seq ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CustomerPayment
	for rows.Next() {
		var cp domain.CustomerPayment
		if err := rows.Scan(&cp.CustomerID, &cp.Fullname, &cp.MobileNumber, &cp.ID, &cp.Amount, &cp.Date,
			(*string)(&cp.Mode), (*string)(&cp.Type), &cp.Notes); err != nil {
			return nil, err
		}
		items = append(items, cp)
	}
	return items, rows.Err()
}

func customerWhere(f CustomerFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(fullname ILIKE $%d OR email_id ILIKE $%d OR mobile_number ILIKE $%d OR address ILIKE $%d)", n, n, n, n))
	}
	if f.CreatedSince != nil {
		args = append(args, *f.CreatedSince)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.PaymentMode != "" {
		args = append(args, string(f.PaymentMode))
		conds = append(conds, fmt.Sprintf("payment_mode = $%d", len(args)))
	}
	if f.WithTrainer {
		conds = append(conds, "(session_cost > 0 OR EXISTS (SELECT 1 FROM customer_employees ce WHERE ce.customer_id = customers.id))")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func getCustomerWith(ctx context.Context, q pgxQuerier, id uuid.UUID, forUpdate bool) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanCustomer(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapErr(err)
	}
	items := []domain.Customer{*c}
	if err := loadChildren(ctx, q, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func queryCustomers(ctx context.Context, q pgxQuerier, query string, args ...any) ([]domain.Customer, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var items []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, *c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := loadChildren(ctx, q, items); err != nil {
		return nil, err
	}
	return items, nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(
		&c.ID,
		&c.Fullname,
		&c.EmailID,
		&c.MobileNumber,
		&c.DateOfBirth,
		&c.Address,
		&c.Time,
		&c.Plan,
		&c.PlanDays,
		&c.PlanCost,
		&c.SessionType,
		&c.SessionCost,
		&c.TotalAmount,
		&c.AmountPaid,
		&c.PlanDebt,
		&c.SessionDebt,
		(*string)(&c.PaymentMode),
		(*string)(&c.Status),
		&c.FreezeDays,
		&c.FreezeDate,
		&c.MembershipStartDate,
		&c.MembershipEndDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func customerArgs(c domain.Customer) []any {
	return []any{
		c.ID, c.Fullname, c.EmailID, c.MobileNumber, c.DateOfBirth, c.Address, c.Time,
		c.Plan, c.PlanDays, c.PlanCost, c.SessionType, c.SessionCost, c.TotalAmount, c.AmountPaid,
		c.PlanDebt, c.SessionDebt, string(c.PaymentMode), string(c.Status), c.FreezeDays, c.FreezeDate,
		c.MembershipStartDate, c.MembershipEndDate, c.CreatedAt, c.UpdatedAt,
	}
}

// loadChildren fills payments, plan history and assignments for items in place.
func loadChildren(ctx context.Context, q pgxQuerier, items []domain.Customer) error {
	if len(items) == 0 {
		return nil
	}
	index := make(map[uuid.UUID]int, len(items))
	ids := make([]string, len(items))
	for i := range items {
		index[items[i].ID] = i
		ids[i] = items[i].ID.String()
		items[i].Payments = []domain.Payment{}
		items[i].PlanHistory = []domain.PlanPeriod{}
		items[i].AssignedEmployees = []uuid.UUID{}
	}

	rows, err := q.Query(ctx, `
		SELECT customer_id, id, amount, paid_at, mode, type, notes
		FROM customer_payments WHERE customer_id = ANY($1::uuid[])
		ORDER BY customer_id, seq
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var (
			owner uuid.UUID
			p     domain.Payment
		)
		if err := rows.Scan(&owner, &p.ID, &p.Amount, &p.Date, (*string)(&p.Mode), (*string)(&p.Type), &p.Notes); err != nil {
			rows.Close()
			return err
		}
		i := index[owner]
		items[i].Payments = append(items[i].Payments, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, `
		SELECT customer_id, plan, start_date, end_date
		FROM customer_plan_history WHERE customer_id = ANY($1::uuid[])
		ORDER BY customer_id, seq
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var (
			owner uuid.UUID
			h     domain.PlanPeriod
		)
		if err := rows.Scan(&owner, &h.Plan, &h.StartDate, &h.EndDate); err != nil {
			rows.Close()
			return err
		}
		i := index[owner]
		items[i].PlanHistory = append(items[i].PlanHistory, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, `
		SELECT customer_id, employee_id
		FROM customer_employees WHERE customer_id = ANY($1::uuid[])
		ORDER BY customer_id, position
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var owner, employee uuid.UUID
		if err := rows.Scan(&owner, &employee); err != nil {
			return err
		}
		i := index[owner]
		items[i].AssignedEmployees = append(items[i].AssignedEmployees, employee)
	}
	return rows.Err()
}

func insertPayments(ctx context.Context, q pgxQuerier, customerID uuid.UUID, payments []domain.Payment, startSeq int) error {
	for i, p := range payments {
		_, err := q.Exec(ctx, `
			INSERT INTO customer_payments (id, customer_id, seq, amount, paid_at, mode, type, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, p.ID, customerID, startSeq+i, p.Amount, p.Date, string(p.Mode), string(p.Type), p.Notes)
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func insertPlanHistory(ctx context.Context, q pgxQuerier, customerID uuid.UUID, history []domain.PlanPeriod, startSeq int) error {
	for i, h := range history {
		_, err := q.Exec(ctx, `
			INSERT INTO customer_plan_history (customer_id, seq, plan, start_date, end_date)
			VALUES ($1,$2,$3,$4,$5)
		`, customerID, startSeq+i, h.Plan, h.StartDate, h.EndDate)
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func replaceAssignments(ctx context.Context, q pgxQuerier, customerID uuid.UUID, employees []uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM customer_employees WHERE customer_id=$1`, customerID); err != nil {
		return err
	}
	for i, e := range employees {
		_, err := q.Exec(ctx, `
			INSERT INTO customer_employees (customer_id, employee_id, position)
			VALUES ($1,$2,$3)
		`, customerID, e, i)
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
