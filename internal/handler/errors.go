package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository"
	"github.com/shashi-bhusan/fitpreneurs/internal/service"
)

var validate = validator.New()

var badRequestErrors = []error{
	domain.ErrUnknownPlan,
	domain.ErrInvalidPlanDays,
	domain.ErrStartBeforeCutoff,
	domain.ErrInvalidAmount,
	domain.ErrNegativeAmount,
	domain.ErrInvalidDebt,
	domain.ErrOverpayment,
	domain.ErrDebtExceeded,
	domain.ErrInvalidPaymentMode,
	domain.ErrInvalidPaymentType,
	domain.ErrUnknownStatus,
	domain.ErrExpiryRequired,
	service.ErrUnknownEmployee,
	service.ErrInvalidInput,
	repository.ErrInvalidReference,
}

// statusFor maps service and domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicate), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrGoogleLoginDisabled):
		return http.StatusServiceUnavailable
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	switch {
	case errors.Is(err, repository.ErrNotFound):
		message = "not found"
	case errors.Is(err, repository.ErrDuplicate):
		message = "email or mobile number already registered"
	}
	writeError(w, status, message)
}

// decodeJSON reads the body into dst and runs struct validation.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("validation: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid id")
	}
	return id, nil
}
