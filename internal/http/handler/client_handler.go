package handler

import (
	"encoding/json"
	"net/http"

	"github.com/straye-as/relation-sync/internal/controller"
	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/store"
	"go.uber.org/zap"
)

type ClientHandler struct {
	ctrl   *controller.ClientController
	logger *zap.Logger
}

func NewClientHandler(ctrl *controller.ClientController, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{ctrl: ctrl, logger: logger}
}

// List godoc
// @Summary List clients
// @Description Applies the query to the client store's filters, pagination and sorting, then reloads
// @Tags Clients
// @Produce json
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page"
// @Param lead query string false "Lead status" Enums(hot, warm, cold)
// @Param search query string false "Search term"
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.Result[[]domain.Client]
// @Router /clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st := h.ctrl.Store()

	if q.Has("lead") || q.Has("search") {
		st.SetFilters(func(f *store.ClientFilters) {
			if q.Has("lead") {
				f.Lead = domain.LeadStatus(q.Get("lead"))
			}
			if q.Has("search") {
				f.SearchTerm = q.Get("search")
			}
		})
	}
	applyPaging(r, st.SetPagination)
	if sortBy := q.Get("sortBy"); sortBy != "" {
		dir := domain.SortDirection(q.Get("sortOrder"))
		if dir != domain.SortAsc {
			dir = domain.SortDesc
		}
		st.SetSorting(domain.Sorting{Field: sortBy, Direction: dir})
	}

	respondResult(w, r, h.logger, http.StatusOK, h.ctrl.Reload(r.Context()))
}

// GetByID godoc
// @Summary Get client
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} domain.Result[domain.Client]
// @Failure 404 {object} domain.APIError
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	respondResult(w, r, h.logger, http.StatusOK, h.ctrl.Get(r.Context(), id))
}

// Create godoc
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body domain.ClientInput true "Client"
// @Success 201 {object} domain.Result[domain.Client]
// @Failure 400 {object} domain.APIError
// @Router /clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ClientInput
	if err := decodeBody(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	respondResult(w, r, h.logger, http.StatusCreated, h.ctrl.Create(r.Context(), input))
}

// Update godoc
// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body domain.ClientInput true "Client"
// @Success 200 {object} domain.Result[domain.Client]
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	var input domain.ClientInput
	if err := decodeBody(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	respondResult(w, r, h.logger, http.StatusOK, h.ctrl.Update(r.Context(), id, input))
}

// Patch godoc
// @Summary Patch client
// @Description Loads the current client, overlays the fields in the body and sends the whole record
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body domain.ClientInput false "Changed fields"
// @Success 200 {object} domain.Result[domain.Client]
// @Failure 400 {object} domain.APIError
// @Router /clients/{id} [patch]
func (h *ClientHandler) Patch(w http.ResponseWriter, r *http.Request) {
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
	respondResult(w, r, h.logger, http.StatusOK, h.ctrl.Patch(r.Context(), id, overlay[domain.ClientInput](raw)))
}

// Delete godoc
// @Summary Delete client
// @Tags Clients
// @Param id path int true "Client ID"
// @Success 204
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	respondResult(w, r, h.logger, http.StatusNoContent, h.ctrl.Delete(r.Context(), id))
}

// applyPaging patches the store pagination from page/itemsPerPage query values
func applyPaging(r *http.Request, set func(domain.PaginationPatch)) {
	var patch domain.PaginationPatch
	changed := false
	if page := queryInt(r, "page"); page > 0 {
		patch.CurrentPage = &page
		changed = true
	}
	if size := queryInt(r, "itemsPerPage"); size > 0 {
		patch.ItemsPerPage = &size
		changed = true
	}
	if changed {
		set(patch)
	}
}
