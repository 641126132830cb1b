package handler

import (
	"encoding/json"
	"net/http"

	"github.com/straye-as/relation-sync/internal/controller"
	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/store"
	"go.uber.org/zap"
)

type TaskHandler struct {
	ctrl   *controller.TaskController
	logger *zap.Logger
}

func NewTaskHandler(ctrl *controller.TaskController, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{ctrl: ctrl, logger: logger}
}

// List godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page"
// @Param status query string false "Task status" Enums(todo, in-progress, completed)
// @Param search query string false "Search term"
// @Param clientId query int false "Client ID"
// @Success 200 {object} domain.Result[[]domain.Task]
// @Router /tasks [get]
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st := h.ctrl.Store()

	if q.Has("status") || q.Has("search") || q.Has("clientId") {
		st.SetFilters(func(f *store.TaskFilters) {
			if q.Has("status") {
				f.Status = domain.TaskStatus(q.Get("status"))
			}
			if q.Has("search") {
				f.SearchTerm = q.Get("search")
			}
			if q.Has("clientId") {
				f.ClientID = queryInt64(r, "clientId")
			}
		})
	}
	applyPaging(r, st.SetPagination)

	respondResult(w, r, h.logger, http.StatusOK, h.ctrl.Reload(r.Context()))
}

// GetByID godoc
// @Summary Get task
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} domain.Result[domain.Task]
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	respondResult(w, r, h.logger, http.StatusOK, h.ctrl.Get(r.Context(), id))
}

// Create godoc
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body domain.TaskInput true "Task"
// @Success 201 {object} domain.Result[domain.Task]
// @Router /tasks [post]
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.TaskInput
	if err := decodeBody(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	respondResult(w, r, h.logger, http.StatusCreated, h.ctrl.Create(r.Context(), input))
}

// Update godoc
// @Summary Update task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body domain.TaskInput true "Task"
// @Success 200 {object} domain.Result[domain.Task]
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	var input domain.TaskInput
	if err := decodeBody(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	respondResult(w, r, h.logger, http.StatusOK, h.ctrl.Update(r.Context(), id, input))
}

// Patch godoc
// @Summary Patch task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body domain.TaskInput false "Changed fields"
// @Success 200 {object} domain.Result[domain.Task]
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	var raw json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	respondResult(w, r, h.logger, http.StatusOK, h.ctrl.Patch(r.Context(), id, overlay[domain.TaskInput](raw)))
}

// Delete godoc
// @Summary Delete task
// @Tags Tasks
// @Param id path int true "Task ID"
// @Success 204
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	respondResult(w, r, h.logger, http.StatusNoContent, h.ctrl.Delete(r.Context(), id))
}
