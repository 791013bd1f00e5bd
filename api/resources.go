package api

import (
	"context"
	"strconv"
)

// Resource is a uniform CRUD handle over one backend collection. Every
// collection follows the same path shape, so the per-entity services are
// just typed instantiations.
type Resource[T any] struct {
	client *Client
	path   string
}

func newResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{client: c, path: path}
}

// List fetches the whole collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.client.get(ctx, r.path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one record by id.
func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var out T
	if err := r.client.get(ctx, r.item(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new record and returns the stored form.
func (r *Resource[T]) Create(ctx context.Context, in T) (*T, error) {
	var out T
	if err := r.client.post(ctx, r.path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the record with id.
func (r *Resource[T]) Update(ctx context.Context, id int64, in T) (*T, error) {
	var out T
	if err := r.client.put(ctx, r.item(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the record with id.
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.delete(ctx, r.item(id))
}

func (r *Resource[T]) item(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// Customers returns the /clientes collection.
func (c *Client) Customers() *Resource[Customer] {
	return newResource[Customer](c, "/clientes")
}

// Products returns the /productos collection.
func (c *Client) Products() *Resource[Product] {
	return newResource[Product](c, "/productos")
}

// Orders returns the /pedidos collection.
func (c *Client) Orders() *Resource[Order] {
	return newResource[Order](c, "/pedidos")
}

// Invoices returns the /facturas collection.
func (c *Client) Invoices() *Resource[Invoice] {
	return newResource[Invoice](c, "/facturas")
}

// Employees returns the /employees collection.
func (c *Client) Employees() *Resource[Employee] {
	return newResource[Employee](c, "/employees")
}

// Departments returns the /departments collection.
func (c *Client) Departments() *Resource[Department] {
	return newResource[Department](c, "/departments")
}

// Skills returns the /skills collection.
func (c *Client) Skills() *Resource[Skill] {
	return newResource[Skill](c, "/skills")
}

// Dependents returns the /dependents collection.
func (c *Client) Dependents() *Resource[Dependent] {
	return newResource[Dependent](c, "/dependents")
}
