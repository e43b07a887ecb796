package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository"
	"github.com/shashi-bhusan/fitpreneurs/internal/service"
)

// ExportHandler serves customer and employee spreadsheets.
type ExportHandler struct {
	Membership service.MembershipService
	Employees  service.EmployeeService
}

func (h ExportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/export/exportcustomers", h.customers(repository.CustomerFilter{}, "customers"))
	r.Get("/export/exportcustomerwithpt", h.customers(repository.CustomerFilter{WithTrainer: true}, "customers_with_pt"))
	r.Get("/export/customerpaidcash", h.customers(repository.CustomerFilter{PaymentMode: domain.ModeCash}, "customers_paid_cash"))
	r.Get("/export/customerpaidcard", h.customers(repository.CustomerFilter{PaymentMode: domain.ModeCard}, "customers_paid_card"))
	r.Get("/export/exportemployees", h.employees)
	r.Get("/export/revenue", RevenueHandler{Service: h.Membership}.export)
}

var customerColumns = []column{
	{"Full Name", 24},
	{"Email", 28},
	{"Mobile Number", 16},
	{"Date of Birth", 14},
	{"Address", 28},
	{"Preferred Time", 14},
	{"Plan", 12},
	{"Plan Days", 10},
	{"Plan Cost", 12},
	{"Session Type", 14},
	{"Session Cost", 12},
	{"Total Amount", 14},
	{"Amount Paid", 14},
	{"Plan Debt", 12},
	{"Session Debt", 12},
	{"Payment Mode", 14},
	{"Status", 12},
	{"Start Date", 14},
	{"End Date", 14},
	{"Trainers", 12},
}

func (h ExportHandler) customers(filter repository.CustomerFilter, base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := filter
		f.Search = strings.TrimSpace(r.URL.Query().Get("search"))
		items, err := h.Membership.ListFiltered(r.Context(), f)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		rows := make([][]any, 0, len(items))
		for _, c := range items {
			rows = append(rows, customerRow(c))
		}
		writeWorkbook(w, r, base, sheet{Name: "Customers", Columns: customerColumns, Rows: rows})
	}
}

func customerRow(c domain.Customer) []any {
	return []any{
		c.Fullname,
		c.EmailID,
		c.MobileNumber,
		formatDate(c.DateOfBirth),
		c.Address,
		c.Time,
		c.Plan,
		c.PlanDays,
		c.PlanCost,
		c.SessionType,
		c.SessionCost,
		c.TotalAmount,
		c.AmountPaid,
		c.PlanDebt,
		c.SessionDebt,
		string(c.PaymentMode),
		string(c.Status),
		formatDate(&c.MembershipStartDate),
		formatDate(&c.MembershipEndDate),
		len(c.AssignedEmployees),
	}
}

func (h ExportHandler) employees(w http.ResponseWriter, r *http.Request) {
	page, err := h.Employees.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")), 1, 0, true)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rows := make([][]any, 0, len(page.Employees))
	for _, e := range page.Employees {
		active := "no"
		if e.Active {
			active = "yes"
		}
		rows = append(rows, []any{
			e.Fullname,
			e.EmailID,
			e.MobileNumber,
			e.Role,
			e.Address,
			formatDate(e.DateOfBirth),
			formatDate(&e.JoinDate),
			active,
		})
	}
	writeWorkbook(w, r, "employees", sheet{
		Name: "Employees",
		Columns: []column{
			{"Full Name", 24},
			{"Email", 28},
			{"Mobile Number", 16},
			{"Role", 14},
			{"Address", 28},
			{"Date of Birth", 14},
			{"Join Date", 14},
			{"Active", 8},
		},
		Rows: rows,
	})
}
