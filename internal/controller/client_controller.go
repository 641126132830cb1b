package controller

import (
	"context"

	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/service"
	"github.com/straye-as/relation-sync/internal/store"
	"go.uber.org/zap"
)

const entityClient = "client"

// ClientController binds the client views to the client store
type ClientController struct {
	svc       *service.ClientService
	store     *store.ClientStore
	snapshots SnapshotStore
	logger    *zap.Logger
}

// NewClientController creates a client controller. snapshots may be nil.
func NewClientController(svc *service.ClientService, st *store.ClientStore, snapshots SnapshotStore, logger *zap.Logger) *ClientController {
	return &ClientController{svc: svc, store: st, snapshots: snapshots, logger: logger}
}

// Store returns the bound store
func (c *ClientController) Store() *store.ClientStore {
	return c.store
}

// List loads one page with explicit params
func (c *ClientController) List(ctx context.Context, params domain.ClientListParams) domain.Result[[]domain.Client] {
	return run(ctx, c.store, entityClient, store.OpList, c.logger,
		func(ctx context.Context) domain.Result[[]domain.Client] { return c.svc.List(ctx, params) },
		func(res domain.Result[[]domain.Client]) {
			c.store.SetList(res.Data)
			if res.Pagination != nil {
				c.store.ReplacePagination(*res.Pagination)
			}
			saveSnapshot(ctx, c.snapshots, c.logger, SnapshotClients, listSnapshot[domain.Client, domain.Pagination]{
				List: res.Data, Extra: c.store.Pagination(),
			})
		})
}

// Reload lists using the filters, pagination and sorting held by the store
func (c *ClientController) Reload(ctx context.Context) domain.Result[[]domain.Client] {
	return c.List(ctx, ClientParams(c.store))
}

// Get loads one client into the store's current slot
func (c *ClientController) Get(ctx context.Context, id int64) domain.Result[domain.Client] {
	return run(ctx, c.store, entityClient, store.OpGet, c.logger,
		func(ctx context.Context) domain.Result[domain.Client] { return c.svc.Get(ctx, id) },
		func(res domain.Result[domain.Client]) { c.store.SetCurrent(&res.Data) })
}

// Create creates a client and adds it to the list
func (c *ClientController) Create(ctx context.Context, input domain.ClientInput) domain.Result[domain.Client] {
	return run(ctx, c.store, entityClient, store.OpCreate, c.logger,
		func(ctx context.Context) domain.Result[domain.Client] { return c.svc.Create(ctx, input) },
		func(res domain.Result[domain.Client]) { c.store.Add(res.Data) })
}

// Update replaces a client
func (c *ClientController) Update(ctx context.Context, id int64, input domain.ClientInput) domain.Result[domain.Client] {
	return run(ctx, c.store, entityClient, store.OpUpdate, c.logger,
		func(ctx context.Context) domain.Result[domain.Client] { return c.svc.Update(ctx, id, input) },
		func(res domain.Result[domain.Client]) { c.store.Replace(res.Data) })
}

// Patch applies a partial change on top of the client's current record
func (c *ClientController) Patch(ctx context.Context, id int64, apply func(*domain.ClientInput) error) domain.Result[domain.Client] {
	return patch(ctx,
		func(ctx context.Context) domain.Result[domain.Client] { return c.svc.Get(ctx, id) },
		domain.InputFromClient, apply,
		func(ctx context.Context, input domain.ClientInput) domain.Result[domain.Client] { return c.Update(ctx, id, input) })
}

// Delete removes a client
func (c *ClientController) Delete(ctx context.Context, id int64) domain.Result[domain.Empty] {
	return run(ctx, c.store, entityClient, store.OpDelete, c.logger,
		func(ctx context.Context) domain.Result[domain.Empty] { return c.svc.Delete(ctx, id) },
		func(domain.Result[domain.Empty]) { c.store.RemoveByID(id) })
}

// Warm fills an empty store from the last snapshot
func (c *ClientController) Warm(ctx context.Context) bool {
	if len(c.store.List()) > 0 {
		return false
	}
	var snap listSnapshot[domain.Client, domain.Pagination]
	if !loadSnapshot(ctx, c.snapshots, c.logger, SnapshotClients, &snap) {
		return false
	}
	c.store.SetList(snap.List)
	if snap.Extra.ItemsPerPage > 0 {
		c.store.ReplacePagination(snap.Extra)
	}
	return true
}

// ClientParams derives list params from the store's view state
func ClientParams(st *store.ClientStore) domain.ClientListParams {
	f := st.Filters()
	p := st.Pagination()
	s := st.Sorting()
	return domain.ClientListParams{
		Lead:         f.Lead,
		Search:       f.SearchTerm,
		Page:         p.CurrentPage,
		ItemsPerPage: p.ItemsPerPage,
		SortBy:       s.Field,
		SortOrder:    s.Direction,
	}
}
