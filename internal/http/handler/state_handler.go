package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/relation-sync/internal/store"
)

// StateHandler exposes read-only store snapshots so a view can render
// without issuing a Gateway request
type StateHandler struct {
	clients  *store.ClientStore
	tasks    *store.TaskStore
	calendar *store.CalendarStore
}

func NewStateHandler(clients *store.ClientStore, tasks *store.TaskStore, cal *store.CalendarStore) *StateHandler {
	return &StateHandler{clients: clients, tasks: tasks, calendar: cal}
}

// Get godoc
// @Summary Store snapshot
// @Tags State
// @Produce json
// @Param store path string true "Store name" Enums(clients, tasks, calendar)
// @Success 200 {object} object
// @Failure 404 {object} domain.APIError
// @Router /state/{store} [get]
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "store") {
	case "clients":
		respondJSON(w, http.StatusOK, h.clients.Snapshot())
	case "tasks":
		respondJSON(w, http.StatusOK, h.tasks.Snapshot())
	case "calendar":
		respondJSON(w, http.StatusOK, h.calendar.CalendarSnapshot())
	default:
		respondWithError(w, http.StatusNotFound, "Unknown store")
	}
}
