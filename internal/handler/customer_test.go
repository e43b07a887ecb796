package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/service"
)

func createCustomer(t *testing.T, env *testEnv, email, mobile string) domain.Customer {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/customer", customerBody(email, mobile))
	requireStatus(t, rec, http.StatusCreated)
	return decodeData[domain.Customer](t, rec)
}

func TestCreateCustomer(t *testing.T) {
	env := newTestEnv(t)
	c := createCustomer(t, env, "kiran@gym.test", "+910001")

	assert.Equal(t, "1 month", c.Plan)
	assert.Equal(t, int64(3000), c.TotalAmount)
	assert.Equal(t, int64(1500), c.AmountPaid)
	assert.Equal(t, int64(1500), c.PlanDebt)
	assert.Zero(t, c.SessionDebt)
	assert.Equal(t, domain.StatusActive, c.Status)
	assert.True(t, c.MembershipEndDate.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
	require.Len(t, c.Payments, 2)

	rec := env.do(t, http.MethodGet, "/customer/"+c.ID.String(), nil)
	requireStatus(t, rec, http.StatusOK)
	got := decodeData[domain.Customer](t, rec)
	assert.Equal(t, c.ID, got.ID)
}

func TestCreateCustomerRejections(t *testing.T) {
	env := newTestEnv(t)
	createCustomer(t, env, "kiran@gym.test", "+910001")

	cases := []struct {
		name   string
		mutate func(map[string]any)
		status int
	}{
		{"duplicate email", func(b map[string]any) { b["mobileNumber"] = "+919999" }, http.StatusConflict},
		{"unknown plan", func(b map[string]any) { b["emailId"] = "a@gym.test"; b["plan"] = "weekly" }, http.StatusBadRequest},
		{"start before cutoff", func(b map[string]any) { b["emailId"] = "b@gym.test"; b["membershipStartDate"] = "2023-12-31" }, http.StatusBadRequest},
		{"missing name", func(b map[string]any) { b["emailId"] = "c@gym.test"; delete(b, "fullname") }, http.StatusBadRequest},
		{"bad date", func(b map[string]any) { b["emailId"] = "d@gym.test"; b["membershipStartDate"] = "June 1" }, http.StatusBadRequest},
		{"overpayment", func(b map[string]any) { b["emailId"] = "e@gym.test"; b["initialPayment"] = 5000 }, http.StatusBadRequest},
		{"unknown trainer", func(b map[string]any) {
			b["emailId"] = "f@gym.test"
			b["assignedEmployees"] = []string{uuid.NewString()}
		}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := customerBody("kiran@gym.test", "+910001")
			tc.mutate(body)
			rec := env.do(t, http.MethodPost, "/customer", body)
			requireStatus(t, rec, tc.status)
			resp := decodeEnvelope(t, rec)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.status, resp.Error.Code)
		})
	}
}

func TestGetCustomerErrors(t *testing.T) {
	env := newTestEnv(t)
	requireStatus(t, env.do(t, http.MethodGet, "/customer/"+uuid.NewString(), nil), http.StatusNotFound)
	requireStatus(t, env.do(t, http.MethodGet, "/customer/not-a-uuid", nil), http.StatusBadRequest)
}

func TestListCustomers(t *testing.T) {
	env := newTestEnv(t)
	for i, email := range []string{"a@gym.test", "b@gym.test", "c@gym.test"} {
		createCustomer(t, env, email, "+91000"+string(rune('1'+i)))
	}

	rec := env.do(t, http.MethodGet, "/customer?page=1&limit=2", nil)
	requireStatus(t, rec, http.StatusOK)
	page := decodeData[service.CustomerPage](t, rec)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Customers, 2)

	rec = env.do(t, http.MethodGet, "/customer?all=true&search=b%40gym", nil)
	requireStatus(t, rec, http.StatusOK)
	page = decodeData[service.CustomerPage](t, rec)
	require.Len(t, page.Customers, 1)
	assert.Equal(t, "b@gym.test", page.Customers[0].EmailID)

	requireStatus(t, env.do(t, http.MethodGet, "/customer?page=x", nil), http.StatusBadRequest)
}

func TestUpdateCustomerProfile(t *testing.T) {
	env := newTestEnv(t)
	c := createCustomer(t, env, "kiran@gym.test", "+910001")

	rec := env.do(t, http.MethodPut, "/customer/"+c.ID.String(), map[string]any{
		"address":     "12 MG Road",
		"time":        "morning",
		"paymentMode": "UPI",
	})
	requireStatus(t, rec, http.StatusOK)
	got := decodeData[domain.Customer](t, rec)
	assert.Equal(t, "12 MG Road", got.Address)
	assert.Equal(t, "morning", got.Time)
	assert.Equal(t, domain.ModeUPI, got.PaymentMode)
	assert.Equal(t, c.TotalAmount, got.TotalAmount)

	rec = env.do(t, http.MethodPut, "/customer/"+c.ID.String(), map[string]any{"paymentMode": "cheque"})
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestPaymentsFlow(t *testing.T) {
	env := newTestEnv(t)
	c := createCustomer(t, env, "kiran@gym.test", "+910001")
	path := "/customer/" + c.ID.String() + "/payments"

	rec := env.do(t, http.MethodPost, path, map[string]any{
		"amount":      500,
		"paymentType": "planDebt",
		"paymentMode": "upi",
	})
	requireStatus(t, rec, http.StatusCreated)

	rec = env.do(t, http.MethodPost, path, map[string]any{"amount": 5000, "paymentType": "planDebt"})
	requireStatus(t, rec, http.StatusBadRequest)
	rec = env.do(t, http.MethodPost, path, map[string]any{"amount": 0})
	requireStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodGet, path, nil)
	requireStatus(t, rec, http.StatusOK)
	history := decodeData[service.PaymentHistory](t, rec)
	assert.Equal(t, int64(2000), history.AmountPaid)
	assert.Equal(t, int64(2000), history.TotalPaid)
	assert.Equal(t, int64(1000), history.PlanDebt)
	assert.Equal(t, int64(1000), history.TotalDebt)
	require.Len(t, history.Payments, 3)
	assert.Equal(t, domain.PaymentPlanDebt, history.Payments[0].Type)
}

func TestPaymentFieldAliases(t *testing.T) {
	env := newTestEnv(t)
	c := createCustomer(t, env, "kiran@gym.test", "+910001")
	id := c.ID.String()

	rec := env.do(t, http.MethodPost, "/customer/"+id+"/payments", map[string]any{
		"totalAmount": 500,
		"mode":        "cash",
		"type":        "planDebt",
		"notes":       "second instalment",
	})
	requireStatus(t, rec, http.StatusCreated)
	type recorded struct {
		Payment  domain.Payment  `json:"payment"`
		Customer domain.Customer `json:"customer"`
	}
	created := decodeData[recorded](t, rec)
	assert.Equal(t, int64(500), created.Payment.Amount)
	assert.Equal(t, domain.ModeCash, created.Payment.Mode)
	assert.Equal(t, domain.PaymentPlanDebt, created.Payment.Type)
	assert.Equal(t, int64(1000), created.Customer.PlanDebt)

	rec = env.do(t, http.MethodPut, "/customer/status/"+id, map[string]any{"status": "freeze", "freezeDays": 5, "totalAmount": 300, "mode": "card"})
	requireStatus(t, rec, http.StatusOK)
	got := decodeData[domain.Customer](t, rec)
	last := got.Payments[len(got.Payments)-1]
	assert.Equal(t, domain.PaymentFreeze, last.Type)
	assert.Equal(t, int64(300), last.Amount)
	assert.Equal(t, domain.ModeCard, last.Mode)

	rec = env.do(t, http.MethodPut, "/customer/status/"+id, map[string]any{"status": "unfreeze", "expiryDate": "2024-08-01", "totalAmount": 100})
	requireStatus(t, rec, http.StatusOK)
	got = decodeData[domain.Customer](t, rec)
	last = got.Payments[len(got.Payments)-1]
	assert.Equal(t, int64(100), last.Amount)
	assert.Equal(t, "freeze account", last.Notes)
}

func TestLifecycleRoutes(t *testing.T) {
	env := newTestEnv(t)
	c := createCustomer(t, env, "kiran@gym.test", "+910001")
	id := c.ID.String()

	rec := env.do(t, http.MethodPut, "/customer/upgrade/"+id, map[string]any{"plan": "3 months", "totalAmount": 3000})
	requireStatus(t, rec, http.StatusOK)
	got := decodeData[domain.Customer](t, rec)
	assert.Equal(t, "3 months", got.Plan)
	assert.Equal(t, int64(4500), got.PlanDebt)
	assert.True(t, got.MembershipEndDate.Equal(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)))

	rec = env.do(t, http.MethodPut, "/customer/status/"+id, map[string]any{"status": "freeze", "freezeDays": 10, "amount": 200})
	requireStatus(t, rec, http.StatusOK)
	got = decodeData[domain.Customer](t, rec)
	assert.Equal(t, domain.StatusFreeze, got.Status)
	assert.Equal(t, 10, got.FreezeDays)

	rec = env.do(t, http.MethodPut, "/customer/status/"+id, map[string]any{"status": "unfreeze"})
	requireStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodPut, "/customer/status/"+id, map[string]any{"status": "unfreeze", "expiryDate": "2024-09-11"})
	requireStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodPut, "/customer/renew/"+id, map[string]any{"plan": "1 month", "totalAmount": 2000, "startDate": "2024-09-11"})
	requireStatus(t, rec, http.StatusOK)
	got = decodeData[domain.Customer](t, rec)
	assert.True(t, got.MembershipEndDate.Equal(time.Date(2024, 10, 11, 0, 0, 0, 0, time.UTC)))
	assert.Zero(t, got.AmountPaid)

	rec = env.do(t, http.MethodPut, "/customer/status/"+id, map[string]any{"status": "transferred"})
	requireStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodPut, "/customer/upgrade/"+id, map[string]any{"plan": "6 months", "totalAmount": 1000})
	requireStatus(t, rec, http.StatusConflict)
	rec = env.do(t, http.MethodPut, "/customer/status/"+id, map[string]any{"status": "hibernate"})
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestRevenueReport(t *testing.T) {
	env := newTestEnv(t)
	c := createCustomer(t, env, "kiran@gym.test", "+910001")
	rec := env.do(t, http.MethodPost, "/customer/"+c.ID.String()+"/payments", map[string]any{
		"amount":      500,
		"paymentType": "planDebt",
		"paymentMode": "upi",
	})
	requireStatus(t, rec, http.StatusCreated)

	for _, path := range []string{"/customer/revenue?year=2024&month=6", "/revenue/new-revenue", "/customer/revenue?filter=specificMonth&year=2024&month=6"} {
		rec = env.do(t, http.MethodGet, path, nil)
		requireStatus(t, rec, http.StatusOK)
		report := decodeData[domain.RevenueReport](t, rec)
		assert.Equal(t, int64(2000), report.TotalRevenue, path)
		assert.Equal(t, int64(1500), report.CashRevenue, path)
		assert.Equal(t, int64(500), report.UpiRevenue, path)
		assert.Equal(t, int64(500), report.OnlineUpiRevenue, path)
		assert.Equal(t, int64(1000), report.MembershipRevenue, path)
		assert.Equal(t, int64(1000), report.SessionsRevenue, path)
		assert.Equal(t, 3, report.PaymentCount, path)
		assert.Equal(t, "INR", report.Currency, path)
	}

	rec = env.do(t, http.MethodGet, "/customer/revenue?year=2024&month=7", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Zero(t, decodeData[domain.RevenueReport](t, rec).TotalRevenue)

	requireStatus(t, env.do(t, http.MethodGet, "/customer/revenue?year=2024&month=13", nil), http.StatusBadRequest)
	requireStatus(t, env.do(t, http.MethodGet, "/customer/revenue?filter=specificMonth", nil), http.StatusBadRequest)
}

func TestCalendarRoutes(t *testing.T) {
	env := newTestEnv(t)
	body := customerBody("soon@gym.test", "+910001")
	body["plan"] = "Per Day"
	body["planDays"] = 12
	body["dateOfBirth"] = "1990-06-14"
	requireStatus(t, env.do(t, http.MethodPost, "/customer", body), http.StatusCreated)
	createCustomer(t, env, "later@gym.test", "+910002")

	rec := env.do(t, http.MethodGet, "/customer/expiring-memberships?days=7", nil)
	requireStatus(t, rec, http.StatusOK)
	expiring := decodeData[[]domain.Customer](t, rec)
	require.Len(t, expiring, 1)
	assert.Equal(t, "soon@gym.test", expiring[0].EmailID)

	rec = env.do(t, http.MethodGet, "/customer/upcoming-birthdays?days=7", nil)
	requireStatus(t, rec, http.StatusOK)
	birthdays := decodeData[[]service.UpcomingBirthday](t, rec)
	require.Len(t, birthdays, 1)
	assert.Equal(t, 4, birthdays[0].DaysUntil)
}

func TestDeleteCustomers(t *testing.T) {
	env := newTestEnv(t)
	c := createCustomer(t, env, "a@gym.test", "+910001")
	createCustomer(t, env, "b@gym.test", "+910002")

	requireStatus(t, env.do(t, http.MethodDelete, "/customer/"+c.ID.String(), nil), http.StatusOK)
	requireStatus(t, env.do(t, http.MethodDelete, "/customer/"+c.ID.String(), nil), http.StatusNotFound)

	rec := env.do(t, http.MethodDelete, "/customer/all", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, map[string]int64{"deleted": 1}, decodeData[map[string]int64](t, rec))
}
