package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/relation-sync/internal/calendar"
	"github.com/straye-as/relation-sync/internal/controller"
	"github.com/straye-as/relation-sync/internal/domain"
	"go.uber.org/zap"
)

type CalendarHandler struct {
	ctrl   *controller.CalendarController
	logger *zap.Logger
}

func NewCalendarHandler(ctrl *controller.CalendarController, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{ctrl: ctrl, logger: logger}
}

// CalendarResponse is the merged calendar for one visible range
type CalendarResponse struct {
	Success      bool          `json:"success"`
	Data         interface{}   `json:"data"`
	View         calendar.View `json:"view"`
	SelectedDate string        `json:"selectedDate"`
	RangeStart   string        `json:"rangeStart"`
	RangeEnd     string        `json:"rangeEnd"`
}

// List godoc
// @Summary Calendar range
// @Description Loads persisted events and projected tasks for the visible range
// @Tags Calendar
// @Produce json
// @Param view query string false "Visible span" Enums(month, week, day)
// @Param date query string false "Anchor date (ISO 8601)"
// @Param hideTasks query bool false "Hide task-derived items"
// @Param type query string false "Event type" Enums(meeting, call, reminder, other)
// @Param clientId query int false "Client ID"
// @Param search query string false "Title search"
// @Param format query string false "Response shape" Enums(items, flat)
// @Success 200 {object} CalendarResponse
// @Failure 400 {object} domain.APIError
// @Router /calendar [get]
func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st := h.ctrl.Store()

	view := st.View()
	if q.Has("view") {
		v, err := calendar.ParseView(q.Get("view"))
		if err != nil {
			respondValidationError(w, "Invalid calendar view", map[string]string{"view": "Must be one of: month, week, day"})
			return
		}
		view = v
	}
	date := st.SelectedDate()
	if q.Has("date") {
		t, err := domain.ParseTime(q.Get("date"))
		if err != nil {
			respondValidationError(w, "Invalid date", map[string]string{"date": "Please enter a valid date"})
			return
		}
		date = t
	}

	if q.Has("hideTasks") || q.Has("type") || q.Has("clientId") || q.Has("search") {
		st.SetFilters(func(f *calendar.Filters) {
			if q.Has("hideTasks") {
				f.HideTasks, _ = strconv.ParseBool(q.Get("hideTasks"))
			}
			if q.Has("type") {
				f.Type = domain.EventType(q.Get("type"))
			}
			if q.Has("clientId") {
				f.ClientID = queryInt64(r, "clientId")
			}
			if q.Has("search") {
				f.SearchTerm = q.Get("search")
			}
		})
	}

	res := h.ctrl.Load(r.Context(), view, date)
	if !res.Success {
		respondResult(w, r, h.logger, http.StatusOK, res)
		return
	}

	items := calendar.SortByStart(st.Filters().Apply(res.Data))
	rng := calendar.RangeFor(view, date)
	out := CalendarResponse{
		Success:      true,
		Data:         items,
		View:         view,
		SelectedDate: domain.FormatTime(date),
		RangeStart:   domain.FormatTime(rng.Start),
		RangeEnd:     domain.FormatTime(rng.End),
	}
	if q.Get("format") == "flat" {
		out.Data = calendar.Flatten(items)
	}
	respondJSON(w, http.StatusOK, out)
}

// GetByID godoc
// @Summary Get calendar event
// @Tags Calendar
// @Produce json
// @Param id path string true "Item key"
// @Success 200 {object} domain.Result[calendar.Item]
// @Router /calendar/{id} [get]
func (h *CalendarHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	respondResult(w, r, h.logger, http.StatusOK, h.ctrl.Get(r.Context(), chi.URLParam(r, "id")))
}

// Create godoc
// @Summary Create calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param request body domain.CalendarEventInput true "Event"
// @Success 201 {object} domain.Result[calendar.Item]
// @Failure 400 {object} domain.APIError
// @Router /calendar [post]
func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.CalendarEventInput
	if err := decodeBody(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	respondResult(w, r, h.logger, http.StatusCreated, h.ctrl.Create(r.Context(), input))
}

// Update godoc
// @Summary Update calendar event
// @Description Task-derived items are rejected; edit the task instead
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path string true "Item key"
// @Param request body domain.CalendarEventInput true "Event"
// @Success 200 {object} domain.Result[calendar.Item]
// @Failure 400 {object} domain.APIError
// @Router /calendar/{id} [put]
func (h *CalendarHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.CalendarEventInput
	if err := decodeBody(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	respondResult(w, r, h.logger, http.StatusOK, h.ctrl.Update(r.Context(), chi.URLParam(r, "id"), input))
}

// Patch godoc
// @Summary Patch calendar event
// @Description Overlays the body on the current event; task-derived items are rejected
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path string true "Item key"
// @Param request body domain.CalendarEventInput false "Changed fields"
// @Success 200 {object} domain.Result[calendar.Item]
// @Failure 400 {object} domain.APIError
// @Router /calendar/{id} [patch]
func (h *CalendarHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	respondResult(w, r, h.logger, http.StatusOK, h.ctrl.Patch(r.Context(), chi.URLParam(r, "id"), overlay[domain.CalendarEventInput](raw)))
}

// Delete godoc
// @Summary Delete calendar event
// @Tags Calendar
// @Param id path string true "Item key"
// @Success 204
// @Router /calendar/{id} [delete]
func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	respondResult(w, r, h.logger, http.StatusNoContent, h.ctrl.Delete(r.Context(), chi.URLParam(r, "id")))
}
