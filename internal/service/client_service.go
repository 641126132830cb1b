package service

import (
	"context"

	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/gateway"
	"github.com/straye-as/relation-sync/internal/session"
	"go.uber.org/zap"
)

// ClientService synchronizes clients with the Gateway
type ClientService struct {
	crud crud[domain.Client]
}

// NewClientService creates a client service
func NewClientService(gw *gateway.Client, auth session.Resolver, logger *zap.Logger) *ClientService {
	return &ClientService{crud: crud[domain.Client]{
		resource: gateway.NewResource[domain.Client](gw, gateway.PathClients),
		auth:     auth,
		entity:   "client",
		msgs:     clientMessages,
		logger:   logger,
	}}
}

// List fetches one page of clients
func (s *ClientService) List(ctx context.Context, params domain.ClientListParams) domain.Result[[]domain.Client] {
	return s.crud.list(ctx, gateway.ClientQuery(params))
}

// Get fetches one client
func (s *ClientService) Get(ctx context.Context, id int64) domain.Result[domain.Client] {
	return s.crud.get(ctx, id)
}

// Create validates and creates a client
func (s *ClientService) Create(ctx context.Context, input domain.ClientInput) domain.Result[domain.Client] {
	return s.crud.create(ctx, input)
}

// Update validates and replaces a client
func (s *ClientService) Update(ctx context.Context, id int64, input domain.ClientInput) domain.Result[domain.Client] {
	return s.crud.update(ctx, id, input)
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, id int64) domain.Result[domain.Empty] {
	return s.crud.delete(ctx, id)
}
