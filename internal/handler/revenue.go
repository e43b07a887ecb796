package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/service"
)

// RevenueHandler reports monthly revenue partitioned by mode and category.
type RevenueHandler struct {
	Service service.MembershipService
}

func (h RevenueHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customer/revenue", h.report)
	r.Get("/revenue/new-revenue", h.report)
	r.Get("/revenue/revenue-export", h.export)
}

func (h RevenueHandler) month(r *http.Request) (int, time.Month, error) {
	year, err := parseIntQuery(r, "year", 0)
	if err != nil {
		return 0, 0, err
	}
	month, err := parseIntQuery(r, "month", 0)
	if err != nil {
		return 0, 0, err
	}
	if r.URL.Query().Get("filter") == "specificMonth" && (year == 0 || month == 0) {
		return 0, 0, fmt.Errorf("%w: specificMonth needs year and month", service.ErrInvalidInput)
	}
	return h.Service.RevenueMonth(year, month)
}

func (h RevenueHandler) report(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.month(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, _, err := h.Service.Revenue(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h RevenueHandler) export(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.month(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, entries, err := h.Service.Revenue(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.Date.In(h.loc()).Format(dateLayout),
			e.Fullname,
			e.MobileNumber,
			e.Amount,
			string(e.Mode),
			string(e.Type),
			domain.RevenueCategory(e.Type),
			e.Notes,
		})
	}
	payments := sheet{
		Name: "Payments",
		Columns: []column{
			{"Date", 12},
			{"Customer", 24},
			{"Mobile Number", 16},
			{"Amount", 12},
			{"Mode", 10},
			{"Type", 14},
			{"Category", 12},
			{"Notes", 28},
		},
		Rows: rows,
	}
	summary := sheet{
		Name:    "Summary",
		Columns: []column{{"Metric", 22}, {"Amount", 14}},
		Rows: [][]any{
			{"Total Revenue", report.TotalRevenue},
			{"Cash", report.CashRevenue},
			{"Online", report.OnlineRevenue},
			{"UPI", report.UpiRevenue},
			{"Card", report.CardRevenue},
			{"Online + UPI", report.OnlineUpiRevenue},
			{"Membership", report.MembershipRevenue},
			{"Sessions", report.SessionsRevenue},
			{"Other", report.OtherRevenue},
			{"Payments", report.PaymentCount},
		},
	}
	writeWorkbook(w, r, fmt.Sprintf("revenue_%04d_%02d", year, int(month)), payments, summary)
}

func (h RevenueHandler) loc() *time.Location {
	if h.Service.Location == nil {
		return time.Local
	}
	return h.Service.Location
}
