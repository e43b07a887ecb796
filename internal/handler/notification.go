package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashi-bhusan/fitpreneurs/internal/service"
)

// NotificationHandler exposes the reminder inbox and a manual digest trigger.
type NotificationHandler struct {
	Service service.ReminderService
}

func (h NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/notifications", h.list)
	r.Put("/notifications/{id}/read", h.markRead)
	r.Post("/notifications/run", h.run)
}

func (h NotificationHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntQuery(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.Service.List(r.Context(), parseBoolQuery(r, "unread"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h NotificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.Service.MarkRead(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h NotificationHandler) run(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.Run(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "reminder digest finished", res)
}
