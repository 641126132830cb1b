package controller

import (
	"context"

	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/service"
	"github.com/straye-as/relation-sync/internal/store"
	"go.uber.org/zap"
)

const entityTask = "task"

// TaskController binds the task views to the task store
type TaskController struct {
	svc       *service.TaskService
	store     *store.TaskStore
	snapshots SnapshotStore
	logger    *zap.Logger
}

// NewTaskController creates a task controller. snapshots may be nil.
func NewTaskController(svc *service.TaskService, st *store.TaskStore, snapshots SnapshotStore, logger *zap.Logger) *TaskController {
	return &TaskController{svc: svc, store: st, snapshots: snapshots, logger: logger}
}

func (c *TaskController) Store() *store.TaskStore {
	return c.store
}

func (c *TaskController) List(ctx context.Context, params domain.TaskListParams) domain.Result[[]domain.Task] {
	return run(ctx, c.store, entityTask, store.OpList, c.logger,
		func(ctx context.Context) domain.Result[[]domain.Task] { return c.svc.List(ctx, params) },
		func(res domain.Result[[]domain.Task]) {
			c.store.SetList(res.Data)
			if res.Pagination != nil {
				c.store.ReplacePagination(*res.Pagination)
			}
			saveSnapshot(ctx, c.snapshots, c.logger, SnapshotTasks, listSnapshot[domain.Task, domain.Pagination]{
				List: res.Data, Extra: c.store.Pagination(),
			})
		})
}

func (c *TaskController) Reload(ctx context.Context) domain.Result[[]domain.Task] {
	f := c.store.Filters()
	p := c.store.Pagination()
	return c.List(ctx, domain.TaskListParams{
		Status:       f.Status,
		Search:       f.SearchTerm,
		ClientID:     f.ClientID,
		Page:         p.CurrentPage,
		ItemsPerPage: p.ItemsPerPage,
	})
}

func (c *TaskController) Get(ctx context.Context, id int64) domain.Result[domain.Task] {
	return run(ctx, c.store, entityTask, store.OpGet, c.logger,
		func(ctx context.Context) domain.Result[domain.Task] { return c.svc.Get(ctx, id) },
		func(res domain.Result[domain.Task]) { c.store.SetCurrent(&res.Data) })
}

func (c *TaskController) Create(ctx context.Context, input domain.TaskInput) domain.Result[domain.Task] {
	return run(ctx, c.store, entityTask, store.OpCreate, c.logger,
		func(ctx context.Context) domain.Result[domain.Task] { return c.svc.Create(ctx, input) },
		func(res domain.Result[domain.Task]) { c.store.Add(res.Data) })
}

func (c *TaskController) Update(ctx context.Context, id int64, input domain.TaskInput) domain.Result[domain.Task] {
	return run(ctx, c.store, entityTask, store.OpUpdate, c.logger,
		func(ctx context.Context) domain.Result[domain.Task] { return c.svc.Update(ctx, id, input) },
		func(res domain.Result[domain.Task]) { c.store.Replace(res.Data) })
}

func (c *TaskController) Patch(ctx context.Context, id int64, apply func(*domain.TaskInput) error) domain.Result[domain.Task] {
	return patch(ctx,
		func(ctx context.Context) domain.Result[domain.Task] { return c.svc.Get(ctx, id) },
		domain.InputFromTask, apply,
		func(ctx context.Context, input domain.TaskInput) domain.Result[domain.Task] { return c.Update(ctx, id, input) })
}

func (c *TaskController) Delete(ctx context.Context, id int64) domain.Result[domain.Empty] {
	return run(ctx, c.store, entityTask, store.OpDelete, c.logger,
		func(ctx context.Context) domain.Result[domain.Empty] { return c.svc.Delete(ctx, id) },
		func(domain.Result[domain.Empty]) { c.store.RemoveByID(id) })
}

// Warm fills an empty store from the last snapshot
func (c *TaskController) Warm(ctx context.Context) bool {
	if len(c.store.List()) > 0 {
		return false
	}
	var snap listSnapshot[domain.Task, domain.Pagination]
	if !loadSnapshot(ctx, c.snapshots, c.logger, SnapshotTasks, &snap) {
		return false
	}
	c.store.SetList(snap.List)
	if snap.Extra.ItemsPerPage > 0 {
		c.store.ReplacePagination(snap.Extra)
	}
	return true
}
