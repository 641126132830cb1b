package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/straye-as/relation-sync/internal/domain"
)

// Resource paths on the Gateway
const (
	PathClients  = "/clients/"
	PathTasks    = "/tasks/"
	PathCalendar = "/calendar/"
	PathLogin    = "/auth/login"
	PathMe       = "/auth/me"
)

// Resource is the CRUD surface of one Gateway collection
type Resource[T domain.Entity] struct {
	client *Client
	path   string
}

// NewResource binds a collection path such as "/clients/"
func NewResource[T domain.Entity](client *Client, path string) *Resource[T] {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return &Resource[T]{client: client, path: path}
}

func (r *Resource[T]) itemPath(id int64) string {
	return r.path + strconv.FormatInt(id, 10)
}

// List fetches one page of the collection
func (r *Resource[T]) List(ctx context.Context, token string, query url.Values) ([]T, *domain.Pagination, error) {
	raw, err := r.client.Do(ctx, Request{Method: http.MethodGet, Path: r.path, Query: query, Token: token})
	if err != nil {
		return nil, nil, err
	}
	return DecodeList[T](raw)
}

// Get fetches one record
func (r *Resource[T]) Get(ctx context.Context, token string, id int64) (T, error) {
	raw, err := r.client.Do(ctx, Request{Method: http.MethodGet, Path: r.itemPath(id), Token: token})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeRecord[T](raw)
}

// Create posts a new record; the Gateway assigns id and timestamps
func (r *Resource[T]) Create(ctx context.Context, token string, body any) (T, error) {
	raw, err := r.client.Do(ctx, Request{Method: http.MethodPost, Path: r.path, Body: body, Token: token, Idempotent: true})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeRecord[T](raw)
}

// Update replaces the whole record
func (r *Resource[T]) Update(ctx context.Context, token string, id int64, body any) (T, error) {
	raw, err := r.client.Do(ctx, Request{Method: http.MethodPut, Path: r.itemPath(id), Body: body, Token: token})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeRecord[T](raw)
}

// Delete removes the record
func (r *Resource[T]) Delete(ctx context.Context, token string, id int64) error {
	raw, err := r.client.Do(ctx, Request{Method: http.MethodDelete, Path: r.itemPath(id), Token: token})
	if err != nil {
		return err
	}
	return CheckAck(raw)
}

// decodeRecord decodes a record and rejects ones without a Gateway id
func decodeRecord[T domain.Entity](raw []byte) (T, error) {
	out, err := DecodeOne[T](raw)
	if err != nil {
		return out, err
	}
	if key := out.RecordKey(); key == "" || key == "0" {
		var zero T
		return zero, malformed(errors.New("record has no id"))
	}
	return out, nil
}
