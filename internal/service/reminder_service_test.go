package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository/memory"
)

type fakeSMS struct {
	mu   sync.Mutex
	sent []string
	fail map[string]bool
}

func (f *fakeSMS) Send(_ context.Context, to, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[to] {
		return "", errors.New("undeliverable")
	}
	f.sent = append(f.sent, to+": "+body)
	return "SM123", nil
}

func seedReminderCustomers(t *testing.T, svc MembershipService) {
	t.Helper()
	ctx := context.Background()

	expiring := registration("exp@x.com", "+911111")
	expiring.Plan = "Per Day"
	expiring.PlanDays = 12
	_, err := svc.Register(ctx, expiring)
	require.NoError(t, err)

	bday := registration("bday@x.com", "+912222")
	dob := time.Date(1995, 6, 12, 0, 0, 0, 0, time.UTC)
	bday.DateOfBirth = &dob
	_, err = svc.Register(ctx, bday)
	require.NoError(t, err)
}

func TestReminderRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	membership := newMembership(store)
	seedReminderCustomers(t, membership)

	sms := &fakeSMS{fail: map[string]bool{"+912222": true}}
	svc := ReminderService{
		Membership:    membership,
		Notifications: store.Notifications(),
		SMS:           sms,
		Logger:        membership.Logger,
		WindowDays:    7,
	}

	res, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Expiring)
	assert.Equal(t, 1, res.Birthdays)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.SMSSent)
	assert.Equal(t, 1, res.SMSFailed)
	require.Len(t, sms.sent, 1)
	assert.Contains(t, sms.sent[0], "+911111")

	res, err = svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, sms.sent, 1)

	items, err := svc.List(ctx, false, 0)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	var failed int
	for _, n := range items {
		if n.Status == domain.DeliveryFailed {
			failed++
			assert.Equal(t, "undeliverable", n.Error)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestReminderWithoutSMS(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	membership := newMembership(store)
	seedReminderCustomers(t, membership)

	svc := ReminderService{Membership: membership, Notifications: store.Notifications()}
	res, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Zero(t, res.SMSSent)

	items, err := svc.List(ctx, true, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	read, err := svc.MarkRead(ctx, items[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, read.ReadAt)

	unread, err := svc.List(ctx, true, 10)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}

func TestReminderStartRejectsBadSpec(t *testing.T) {
	store := memory.New()
	svc := ReminderService{Membership: newMembership(store), Notifications: store.Notifications()}
	_, err := svc.Start(context.Background(), "not a cron expression")
	assert.Error(t, err)
}
