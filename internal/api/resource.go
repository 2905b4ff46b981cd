package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

// Resource is the CRUD surface of one entity collection
type Resource[T model.Record] struct {
	client   *Client
	endpoint string
}

// NewResource binds a typed collection to its endpoint (e.g. "/alunos")
func NewResource[T model.Record](c *Client, endpoint string) *Resource[T] {
	return &Resource[T]{client: c, endpoint: endpoint}
}

// Endpoint returns the collection path
func (r *Resource[T]) Endpoint() string {
	return r.endpoint
}

// List returns every record in the collection
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.client.Do(ctx, http.MethodGet, r.endpoint, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get returns one record by identifier
func (r *Resource[T]) Get(ctx context.Context, id int) (T, error) {
	var item T
	err := r.client.Do(ctx, http.MethodGet, r.itemPath(id), nil, &item)
	return item, err
}

// Create stores a new record and returns it with its assigned identifier
func (r *Resource[T]) Create(ctx context.Context, rec T) (T, error) {
	var created T
	err := r.client.Do(ctx, http.MethodPost, r.endpoint, rec, &created)
	return created, err
}

// Update replaces the record identified by id
func (r *Resource[T]) Update(ctx context.Context, id int, rec T) (T, error) {
	var updated T
	err := r.client.Do(ctx, http.MethodPut, r.itemPath(id), rec, &updated)
	return updated, err
}

// Delete removes the record identified by id
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.client.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

func (r *Resource[T]) itemPath(id int) string {
	return fmt.Sprintf("%s/%d", r.endpoint, id)
}
