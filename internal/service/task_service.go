package service

import (
	"context"

	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/gateway"
	"github.com/straye-as/relation-sync/internal/session"
	"go.uber.org/zap"
)

// TaskService synchronizes tasks with the Gateway
type TaskService struct {
	crud crud[domain.Task]
}

// NewTaskService creates a task service
func NewTaskService(gw *gateway.Client, auth session.Resolver, logger *zap.Logger) *TaskService {
	return &TaskService{crud: crud[domain.Task]{
		resource: gateway.NewResource[domain.Task](gw, gateway.PathTasks),
		auth:     auth,
		entity:   "task",
		msgs:     taskMessages,
		logger:   logger,
	}}
}

// List fetches one page of tasks matching params
func (s *TaskService) List(ctx context.Context, params domain.TaskListParams) domain.Result[[]domain.Task] {
	return s.crud.list(ctx, gateway.TaskQuery(params))
}

// Get fetches one task
func (s *TaskService) Get(ctx context.Context, id int64) domain.Result[domain.Task] {
	return s.crud.get(ctx, id)
}

// Create validates and creates a task
func (s *TaskService) Create(ctx context.Context, input domain.TaskInput) domain.Result[domain.Task] {
	return s.crud.create(ctx, input)
}

// Update validates and replaces a task
func (s *TaskService) Update(ctx context.Context, id int64, input domain.TaskInput) domain.Result[domain.Task] {
	return s.crud.update(ctx, id, input)
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, id int64) domain.Result[domain.Empty] {
	return s.crud.delete(ctx, id)
}
