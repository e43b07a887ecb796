package handler

import (
	"cmp"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/service"
)

// CustomerHandler exposes the membership lifecycle over HTTP.
type CustomerHandler struct {
	Service         service.MembershipService
	AllowBulkDelete bool
}

func (h CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customer", h.list)
	r.Post("/customer", h.create)
	r.Get("/customer/expiring-memberships", h.expiring)
	r.Get("/customer/expiring", h.expiring)
	r.Get("/customer/upcoming-birthdays", h.birthdays)
	r.Put("/customer/upgrade/{id}", h.upgrade)
	r.Put("/customer/renew/{id}", h.renew)
	r.Put("/customer/status/{id}", h.updateStatus)
	r.Get("/customer/{id}", h.get)
	r.Put("/customer/{id}", h.update)
	r.Get("/customer/{id}/payments", h.payments)
	r.Post("/customer/{id}/payments", h.addPayment)
}

// RegisterManagerRoutes mounts the destructive customer routes.
func (h CustomerHandler) RegisterManagerRoutes(r chi.Router) {
	if h.AllowBulkDelete {
		r.Delete("/customer/all", h.deleteAll)
	}
	r.Delete("/customer/{id}", h.delete)
}

func (h CustomerHandler) loc() *time.Location {
	if h.Service.Location == nil {
		return time.Local
	}
	return h.Service.Location
}

func (h CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	page, err := parseIntQuery(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseIntQuery(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.Service.List(r.Context(), service.ListCustomersInput{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Filter: r.URL.Query().Get("filter"),
		Page:   page,
		Limit:  limit,
		All:    parseBoolQuery(r, "all"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h CustomerHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fullname            string   `json:"fullname" validate:"required"`
		EmailID             string   `json:"emailId" validate:"required,email"`
		MobileNumber        string   `json:"mobileNumber" validate:"required"`
		DateOfBirth         string   `json:"dateOfBirth"`
		Address             string   `json:"address"`
		Time                string   `json:"time"`
		Plan                string   `json:"plan" validate:"required"`
		PlanDays            int      `json:"planDays" validate:"gte=0"`
		PlanCost            int64    `json:"planCost" validate:"gte=0"`
		SessionType         string   `json:"sessionType"`
		SessionCost         int64    `json:"sessionCost" validate:"gte=0"`
		InitialPayment      int64    `json:"initialPayment" validate:"gte=0"`
		PlanDebt            *int64   `json:"planDebt" validate:"omitempty,gte=0"`
		SessionDebt         *int64   `json:"sessionDebt" validate:"omitempty,gte=0"`
		PaymentMode         string   `json:"paymentMode"`
		PaymentDate         string   `json:"paymentDate"`
		MembershipStartDate string   `json:"membershipStartDate" validate:"required"`
		AssignedEmployees   []string `json:"assignedEmployees"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loc := h.loc()
	dob, err := parseDate(req.DateOfBirth, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	paidAt, err := parseDate(req.PaymentDate, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	start, err := parseDate(req.MembershipStartDate, loc)
	if err != nil || start == nil {
		writeError(w, http.StatusBadRequest, "membershipStartDate must be a date (YYYY-MM-DD)")
		return
	}
	employees, err := parseIDs(req.AssignedEmployees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.Service.Register(r.Context(), domain.Registration{
		Fullname:            req.Fullname,
		EmailID:             req.EmailID,
		MobileNumber:        req.MobileNumber,
		DateOfBirth:         dob,
		Address:             req.Address,
		Time:                req.Time,
		Plan:                req.Plan,
		PlanDays:            req.PlanDays,
		PlanCost:            req.PlanCost,
		SessionType:         req.SessionType,
		SessionCost:         req.SessionCost,
		InitialPayment:      req.InitialPayment,
		PlanDebt:            req.PlanDebt,
		SessionDebt:         req.SessionDebt,
		PaymentMode:         domain.PaymentMode(strings.ToLower(req.PaymentMode)),
		PaymentDate:         paidAt,
		MembershipStartDate: *start,
		AssignedEmployees:   employees,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "customer registered", out)
}

func (h CustomerHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h CustomerHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Fullname          *string   `json:"fullname" validate:"omitempty,min=1"`
		EmailID           *string   `json:"emailId" validate:"omitempty,email"`
		MobileNumber      *string   `json:"mobileNumber" validate:"omitempty,min=1"`
		DateOfBirth       *string   `json:"dateOfBirth"`
		Address           *string   `json:"address"`
		Time              *string   `json:"time"`
		PaymentMode       *string   `json:"paymentMode"`
		AssignedEmployees *[]string `json:"assignedEmployees"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := service.ProfileUpdate{
		Fullname:     req.Fullname,
		EmailID:      req.EmailID,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		Time:         req.Time,
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth, h.loc())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.DateOfBirth = dob
	}
	if req.PaymentMode != nil {
		mode := domain.PaymentMode(strings.ToLower(*req.PaymentMode))
		in.PaymentMode = &mode
	}
	if req.AssignedEmployees != nil {
		ids, err := parseIDs(*req.AssignedEmployees)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.AssignedEmployees = &ids
	}

	out, err := h.Service.UpdateProfile(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "customer updated", out)
}

func (h CustomerHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "customer deleted", map[string]uuid.UUID{"id": id})
}

func (h CustomerHandler) deleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.DeleteAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "all customers deleted", map[string]int64{"deleted": n})
}

func (h CustomerHandler) upgrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Plan        string `json:"plan" validate:"required"`
		PlanDays    int    `json:"planDays" validate:"gte=0"`
		TotalAmount int64  `json:"totalAmount" validate:"gte=0"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.Service.Upgrade(r.Context(), id, service.UpgradeInput{
		Plan:        req.Plan,
		PlanDays:    req.PlanDays,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "plan upgraded", out)
}

func (h CustomerHandler) renew(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Plan        string `json:"plan" validate:"required"`
		PlanDays    int    `json:"planDays" validate:"gte=0"`
		TotalAmount int64  `json:"totalAmount" validate:"gte=0"`
		StartDate   string `json:"startDate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	start, err := parseDate(req.StartDate, h.loc())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in := domain.Renewal{Plan: req.Plan, PlanDays: req.PlanDays, TotalAmount: req.TotalAmount}
	if start != nil {
		in.StartDate = *start
	}
	out, err := h.Service.Renew(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "membership renewed", out)
}

func (h CustomerHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Status      string `json:"status" validate:"required"`
		FreezeDays  int    `json:"freezeDays" validate:"gte=0"`
		FreezeDate  string `json:"freezeDate"`
		ExpiryDate  string `json:"expiryDate"`
		Amount      int64  `json:"amount" validate:"gte=0"`
		TotalAmount int64  `json:"totalAmount" validate:"gte=0"`
		PaymentMode string `json:"paymentMode"`
		Mode        string `json:"mode"`
		PaymentDate string `json:"paymentDate"`
		Notes       string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loc := h.loc()
	in := domain.StatusChange{
		Status:      req.Status,
		FreezeDays:  req.FreezeDays,
		Amount:      cmp.Or(req.Amount, req.TotalAmount),
		PaymentMode: domain.PaymentMode(strings.ToLower(cmp.Or(req.PaymentMode, req.Mode))),
		Notes:       req.Notes,
	}
	for _, field := range []struct {
		raw string
		dst **time.Time
	}{
		{req.FreezeDate, &in.FreezeDate},
		{req.ExpiryDate, &in.ExpiryDate},
		{req.PaymentDate, &in.PaymentDate},
	} {
		parsed, err := parseDate(field.raw, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		*field.dst = parsed
	}

	out, err := h.Service.UpdateStatus(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "status updated", out)
}

func (h CustomerHandler) payments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.Service.PaymentHistory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h CustomerHandler) addPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Amount      int64  `json:"amount" validate:"gte=0"`
		TotalAmount int64  `json:"totalAmount" validate:"gte=0"`
		PaymentDate string `json:"paymentDate"`
		PaymentMode string `json:"paymentMode"`
		Mode        string `json:"mode"`
		PaymentType string `json:"paymentType"`
		Type        string `json:"type"`
		Notes       string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	paidAt, err := parseDate(req.PaymentDate, h.loc())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	customer, payment, err := h.Service.AddPayment(r.Context(), id, domain.PaymentInput{
		Amount: cmp.Or(req.Amount, req.TotalAmount),
		Date:   paidAt,
		Mode:   domain.PaymentMode(strings.ToLower(cmp.Or(req.PaymentMode, req.Mode))),
		Type:   domain.PaymentType(cmp.Or(req.PaymentType, req.Type)),
		Notes:  req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "payment recorded", map[string]any{
		"payment":  payment,
		"customer": customer,
	})
}

func (h CustomerHandler) expiring(w http.ResponseWriter, r *http.Request) {
	days, err := parseIntQuery(r, "days", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.Service.Expiring(r.Context(), days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h CustomerHandler) birthdays(w http.ResponseWriter, r *http.Request) {
	days, err := parseIntQuery(r, "days", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.Service.Birthdays(r.Context(), days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
