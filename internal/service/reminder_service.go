package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/metrics"
	"github.com/shashi-bhusan/fitpreneurs/internal/ports"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository"
)

// ReminderService builds the daily digest of expiring memberships and
// upcoming birthdays. Each event is stored once per customer, kind and date,
// so repeated runs on the same day are no-ops.
type ReminderService struct {
	Membership    MembershipService
	Notifications NotificationStore
	SMS           ports.SMSSender
	Logger        *slog.Logger
	WindowDays    int
}

type DigestResult struct {
	Expiring  int `json:"expiring"`
	Birthdays int `json:"birthdays"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
	SMSSent   int `json:"smsSent"`
	SMSFailed int `json:"smsFailed"`
}

type reminderEvent struct {
	kind     domain.NotificationKind
	customer domain.Customer
	date     time.Time
	title    string
	message  string
}

func (s ReminderService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Start schedules Run on schedule and stops the scheduler when ctx is done.
func (s ReminderService) Start(ctx context.Context, schedule string) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(s.Membership.loc()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(schedule, func() {
		if _, err := s.Run(ctx); err != nil {
			s.logger().Error("reminder digest failed", "err", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule reminders %q: %w", schedule, err)
	}
	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	s.logger().Info("reminder scheduler started", "schedule", schedule)
	return c, nil
}

func (s ReminderService) Run(ctx context.Context) (*DigestResult, error) {
	started := time.Now()
	defer func() { metrics.ObserveReminderRun(time.Since(started)) }()

	days := s.WindowDays
	if days <= 0 {
		days = defaultWindowDays
	}

	expiring, err := s.Membership.Expiring(ctx, days)
	if err != nil {
		return nil, err
	}
	birthdays, err := s.Membership.Birthdays(ctx, days)
	if err != nil {
		return nil, err
	}

	events := make([]reminderEvent, 0, len(expiring)+len(birthdays))
	for _, c := range expiring {
		end := domain.DayStart(c.MembershipEndDate, s.Membership.loc())
		events = append(events, reminderEvent{
			kind:     domain.NotificationExpiring,
			customer: c,
			date:     end,
			title:    "Membership expiring",
			message: fmt.Sprintf("Hi %s, your %s membership ends on %s. Renew at the front desk to keep training.",
				c.Fullname, c.Plan, end.Format("02 Jan 2006")),
		})
	}
	for _, b := range birthdays {
		events = append(events, reminderEvent{
			kind:     domain.NotificationBirthday,
			customer: b.Customer,
			date:     b.NextBirthday,
			title:    "Upcoming birthday",
			message:  fmt.Sprintf("Happy birthday in advance, %s! The whole team wishes you a great year ahead.", b.Customer.Fullname),
		})
	}

	res := &DigestResult{Expiring: len(expiring), Birthdays: len(birthdays)}
	for _, ev := range events {
		if err := s.deliver(ctx, ev, res); err != nil {
			return res, err
		}
	}
	s.logger().Info("reminder digest finished",
		"expiring", res.Expiring, "birthdays", res.Birthdays,
		"created", res.Created, "skipped", res.Skipped,
		"sms_sent", res.SMSSent, "sms_failed", res.SMSFailed)
	return res, nil
}

func (s ReminderService) deliver(ctx context.Context, ev reminderEvent, res *DigestResult) error {
	customerID := ev.customer.ID
	inbox := domain.Notification{
		ID:         uuid.New(),
		Kind:       ev.kind,
		CustomerID: &customerID,
		Title:      ev.title,
		Message:    ev.message,
		Channel:    domain.ChannelInbox,
		Status:     domain.DeliveryStored,
		EventDate:  ev.date,
	}
	if _, err := s.Notifications.Create(ctx, inbox); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			res.Skipped++
			return nil
		}
		return fmt.Errorf("store notification: %w", err)
	}
	res.Created++
	metrics.RecordReminder(string(ev.kind), string(domain.ChannelInbox), string(domain.DeliveryStored))

	if s.SMS == nil || ev.customer.MobileNumber == "" {
		return nil
	}

	sms := inbox
	sms.ID = uuid.New()
	sms.Channel = domain.ChannelSMS
	sms.Status = domain.DeliverySent
	if _, err := s.SMS.Send(ctx, ev.customer.MobileNumber, ev.message); err != nil {
		sms.Status = domain.DeliveryFailed
		sms.Error = err.Error()
		res.SMSFailed++
		s.logger().Warn("reminder sms failed", "customer_id", customerID, "err", err)
	} else {
		res.SMSSent++
	}
	metrics.RecordReminder(string(ev.kind), string(domain.ChannelSMS), string(sms.Status))
	if _, err := s.Notifications.Create(ctx, sms); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("store sms notification: %w", err)
	}
	return nil
}

func (s ReminderService) List(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error) {
	items, err := s.Notifications.List(ctx, repository.NotificationFilter{UnreadOnly: unreadOnly, Limit: limit})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return items, nil
}

func (s ReminderService) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return s.Notifications.MarkRead(ctx, id, time.Now())
}
