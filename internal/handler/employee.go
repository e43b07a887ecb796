package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/service"
)

type EmployeeHandler struct {
	Service  service.EmployeeService
	Location *time.Location
}

type employeeRequest struct {
	Fullname     string `json:"fullname" validate:"required"`
	EmailID      string `json:"emailId" validate:"omitempty,email"`
	MobileNumber string `json:"mobileNumber" validate:"required"`
	Address      string `json:"address"`
	Role         string `json:"role"`
	DateOfBirth  string `json:"dateOfBirth"`
	JoinDate     string `json:"joinDate"`
	Active       *bool  `json:"active"`
}

func (h EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/employee", h.list)
	r.Get("/employee/{id}", h.get)
	r.Get("/employee/{id}/customers", h.customers)
}

// RegisterManagerRoutes mounts employee management.
func (h EmployeeHandler) RegisterManagerRoutes(r chi.Router) {
	r.Post("/employee", h.create)
	r.Post("/employee/assign", h.assign)
	r.Put("/employee/{id}", h.update)
	r.Delete("/employee/{id}", h.delete)
}

func (h EmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
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
	out, err := h.Service.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")), page, limit, parseBoolQuery(r, "all"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h EmployeeHandler) get(w http.ResponseWriter, r *http.Request) {
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

func (h EmployeeHandler) customers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.Service.AssignedCustomers(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h EmployeeHandler) input(req employeeRequest) (service.EmployeeInput, error) {
	in := service.EmployeeInput{
		Fullname:     req.Fullname,
		EmailID:      req.EmailID,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		Role:         req.Role,
		Active:       req.Active,
	}
	loc := h.loc()
	dob, err := parseDate(req.DateOfBirth, loc)
	if err != nil {
		return in, err
	}
	joined, err := parseDate(req.JoinDate, loc)
	if err != nil {
		return in, err
	}
	in.DateOfBirth, in.JoinDate = dob, joined
	return in, nil
}

func (h EmployeeHandler) loc() *time.Location {
	if h.Location == nil {
		return time.Local
	}
	return h.Location
}

func (h EmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := h.input(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "employee created", out)
}

func (h EmployeeHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := h.input(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.Service.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "employee updated", out)
}

func (h EmployeeHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "employee deleted", map[string]uuid.UUID{"id": id})
}

func (h EmployeeHandler) assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID  string `json:"customerId" validate:"required,uuid"`
		EmployeeID  string `json:"employeeId" validate:"required,uuid"`
		SessionType string `json:"sessionType"`
		SessionCost int64  `json:"sessionCost" validate:"gte=0"`
		PaidCost    int64  `json:"paidCost" validate:"gte=0,ltefield=SessionCost"`
		PaymentMode string `json:"paymentMode"`
		PaymentDate string `json:"paymentDate"`
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
	out, err := h.Service.Assign(r.Context(), service.AssignInput{
		CustomerID:  uuid.MustParse(req.CustomerID),
		EmployeeID:  uuid.MustParse(req.EmployeeID),
		SessionType: req.SessionType,
		SessionCost: req.SessionCost,
		PaidCost:    req.PaidCost,
		PaymentMode: domain.PaymentMode(strings.ToLower(req.PaymentMode)),
		PaymentDate: paidAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "trainer assigned", out)
}
