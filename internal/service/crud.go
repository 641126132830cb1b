package service

import (
	"context"
	"errors"
	"net/url"

	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/gateway"
	"github.com/straye-as/relation-sync/internal/logger"
	"github.com/straye-as/relation-sync/internal/session"
	"github.com/straye-as/relation-sync/internal/validation"
	"go.uber.org/zap"
)

// crud is the Gateway round-trip shared by every entity service: resolve the
// credential, validate writes, call the Gateway and fold the outcome into a
// Result. It never touches a store.
type crud[T domain.Entity] struct {
	resource *gateway.Resource[T]
	auth     session.Resolver
	entity   string
	msgs     fallbacks
	logger   *zap.Logger
}

func (c *crud[T]) token(ctx context.Context) (string, error) {
	token, ok := c.auth.Resolve(ctx)
	if !ok {
		return "", domain.ErrAuthRequired
	}
	return token, nil
}

func (c *crud[T]) fail(ctx context.Context, op string, err error) {
	if errors.Is(err, domain.ErrAuthRequired) || ctx.Err() != nil {
		return
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return
	}
	logger.WithOperation(c.logger, c.entity, op).Warn("gateway operation failed", zap.Error(err))
}

func (c *crud[T]) list(ctx context.Context, query url.Values) domain.Result[[]T] {
	token, err := c.token(ctx)
	if err != nil {
		return failList[T](ctx, err, c.msgs.list)
	}
	items, page, err := c.resource.List(ctx, token, query)
	if err != nil {
		c.fail(ctx, "list", err)
		return failList[T](ctx, err, c.msgs.list)
	}
	return domain.OkPage(items, page)
}

func (c *crud[T]) get(ctx context.Context, id int64) domain.Result[T] {
	token, err := c.token(ctx)
	if err != nil {
		return domain.Fail[T](ctx, err, c.msgs.get)
	}
	item, err := c.resource.Get(ctx, token, id)
	if err != nil {
		c.fail(ctx, "get", err)
		return domain.Fail[T](ctx, err, c.msgs.get)
	}
	return domain.Ok(item)
}

func (c *crud[T]) create(ctx context.Context, input any) domain.Result[T] {
	token, err := c.token(ctx)
	if err != nil {
		return domain.Fail[T](ctx, err, c.msgs.create)
	}
	if err := validation.Validate(input); err != nil {
		return domain.Fail[T](ctx, err, c.msgs.create)
	}
	item, err := c.resource.Create(ctx, token, input)
	if err != nil {
		c.fail(ctx, "create", err)
		return domain.Fail[T](ctx, err, c.msgs.create)
	}
	return domain.Ok(item)
}

func (c *crud[T]) update(ctx context.Context, id int64, input any) domain.Result[T] {
	token, err := c.token(ctx)
	if err != nil {
		return domain.Fail[T](ctx, err, c.msgs.update)
	}
	if err := validation.Validate(input); err != nil {
		return domain.Fail[T](ctx, err, c.msgs.update)
	}
	item, err := c.resource.Update(ctx, token, id, input)
	if err != nil {
		c.fail(ctx, "update", err)
		return domain.Fail[T](ctx, err, c.msgs.update)
	}
	return domain.Ok(item)
}

func (c *crud[T]) delete(ctx context.Context, id int64) domain.Result[domain.Empty] {
	token, err := c.token(ctx)
	if err != nil {
		return domain.Fail[domain.Empty](ctx, err, c.msgs.delete)
	}
	if err := c.resource.Delete(ctx, token, id); err != nil {
		c.fail(ctx, "delete", err)
		return domain.Fail[domain.Empty](ctx, err, c.msgs.delete)
	}
	return domain.Ok(domain.Empty{})
}

// failList is a failed list result carrying the default pagination block
func failList[T any](ctx context.Context, err error, fallback string) domain.Result[[]T] {
	r := domain.FailList[T](ctx, err, fallback)
	p := domain.DefaultPagination()
	r.Pagination = &p
	return r
}
