package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashi-bhusan/fitpreneurs/internal/config"
	"github.com/shashi-bhusan/fitpreneurs/internal/db"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
)

// openTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// the tables. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *db.Postgres {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, db.Migrate(url))

	ctx := context.Background()
	pg, err := db.New(ctx, config.Config{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	_, err = pg.Pool.Exec(ctx, `TRUNCATE notifications, customers, employees CASCADE`)
	require.NoError(t, err)
	return pg
}

func TestPostgresCustomerLifecycle(t *testing.T) {
	pg := openTestDB(t)
	ctx := context.Background()
	customers := CustomerRepository{DB: pg}
	employees := EmployeeRepository{DB: pg}
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	coach, err := employees.Create(ctx, domain.Employee{
		ID: uuid.New(), Fullname: "Ravi Coach", MobileNumber: "+917777", Role: "trainer",
		JoinDate: now, Active: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	c, err := domain.NewCustomer(domain.Registration{
		Fullname:            "Kiran Shah",
		EmailID:             "kiran@gym.test",
		MobileNumber:        "+910001",
		Plan:                "1 Month",
		PlanCost:            2000,
		SessionType:         "4 Sessions",
		SessionCost:         1000,
		InitialPayment:      1500,
		MembershipStartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		AssignedEmployees:   []uuid.UUID{coach.ID},
	}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), now)
	require.NoError(t, err)

	created, err := customers.Create(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{coach.ID}, created.AssignedEmployees)
	assert.Len(t, created.Payments, 2)

	dup := c
	dup.ID = uuid.New()
	dup.MobileNumber = "+910002"
	_, err = customers.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicate)

	updated, err := customers.Update(ctx, c.ID, func(cur *domain.Customer) error {
		_, err := cur.RecordPayment(domain.PaymentInput{Amount: 500, Type: domain.PaymentPlanDebt}, now)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.PlanDebt)
	assert.Equal(t, int64(2000), updated.AmountPaid)
	require.Len(t, updated.Payments, 3)

	// A failed mutation leaves the stored row untouched.
	_, err = customers.Update(ctx, c.ID, func(cur *domain.Customer) error {
		_, err := cur.RecordPayment(domain.PaymentInput{Amount: 1, Type: domain.PaymentPlanDebt}, now)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrDebtExceeded)
	got, err := customers.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, got.Payments, 3)

	payments, err := customers.ListPayments(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, payments, 3)

	trained, err := customers.ListByEmployee(ctx, coach.ID)
	require.NoError(t, err)
	require.Len(t, trained, 1)

	items, total, err := customers.List(ctx, CustomerFilter{Search: "kiran", WithTrainer: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)

	require.NoError(t, employees.Delete(ctx, coach.ID))
	got, err = customers.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AssignedEmployees)

	require.NoError(t, customers.Delete(ctx, c.ID))
	_, err = customers.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, customers.Delete(ctx, c.ID), ErrNotFound)
}

func TestPostgresNotificationDedupe(t *testing.T) {
	pg := openTestDB(t)
	ctx := context.Background()
	notifications := NotificationRepository{DB: pg}
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	c, err := domain.NewCustomer(domain.Registration{
		Fullname: "Kiran Shah", EmailID: "kiran@gym.test", MobileNumber: "+910001",
		Plan: "1 Month", PlanCost: 2000, MembershipStartDate: day,
	}, day, day)
	require.NoError(t, err)
	_, err = CustomerRepository{DB: pg}.Create(ctx, c)
	require.NoError(t, err)

	n := domain.Notification{
		ID: uuid.New(), Kind: domain.NotificationBirthday, CustomerID: &c.ID, Title: "Birthday", Message: "Wish Kiran",
		Channel: domain.ChannelInbox, Status: domain.DeliveryStored, EventDate: day, CreatedAt: day,
	}
	_, err = notifications.Create(ctx, n)
	require.NoError(t, err)

	again := n
	again.ID = uuid.New()
	_, err = notifications.Create(ctx, again)
	assert.ErrorIs(t, err, ErrDuplicate)

	read, err := notifications.MarkRead(ctx, n.ID, day.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, read.ReadAt)

	unread, err := notifications.List(ctx, NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)
}
