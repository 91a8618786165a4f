// Package app holds the portfolio use cases. Services coordinate the domain
// model with the repositories and upstreams declared in ports; they know
// nothing about HTTP or SQL.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

// validatable is satisfied by pointers to domain entities.
type validatable[T any] interface {
	*T
	Validate() error
}

// Catalog implements the CRUD use cases shared by every content type:
// entities are validated before they reach the store, and updates are
// applied to the stored copy so fields the caller did not touch survive.
type Catalog[T any, P validatable[T]] struct {
	store  ports.Store[T]
	entity string
}

// NewCatalog creates a catalog for entity backed by store.
func NewCatalog[T any, P validatable[T]](store ports.Store[T], entity string) *Catalog[T, P] {
	if store == nil {
		panic(fmt.Sprintf("app: %s store is required", entity))
	}

	return &Catalog[T, P]{store: store, entity: entity}
}

// List returns every item in the store's order.
func (c *Catalog[T, P]) List(ctx context.Context) ([]T, error) {
	items, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %ss: %w", c.entity, err)
	}

	return items, nil
}

// Get returns one item.
func (c *Catalog[T, P]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.entity, err)
	}

	return item, nil
}

// Create validates and stores item, filling in its id and timestamps.
func (c *Catalog[T, P]) Create(ctx context.Context, item *T) error {
	if err := P(item).Validate(); err != nil {
		return err
	}

	if err := c.store.Create(ctx, item); err != nil {
		return fmt.Errorf("creating %s: %w", c.entity, err)
	}

	logging.FromContext(ctx).InfoContext(ctx, c.entity+" created")

	return nil
}

// Update loads item id, lets apply modify it and stores the result if it still validates.
func (c *Catalog[T, P]) Update(ctx context.Context, id int64, apply func(*T) error) (*T, error) {
	item, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(item); err != nil {
		return nil, err
	}

	if err := P(item).Validate(); err != nil {
		return nil, err
	}

	if err := c.store.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("updating %s: %w", c.entity, err)
	}

	logging.FromContext(ctx).InfoContext(ctx, c.entity+" updated", slog.Int64("id", id))

	return item, nil
}

// Delete removes item id.
func (c *Catalog[T, P]) Delete(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting %s: %w", c.entity, err)
	}

	logging.FromContext(ctx).InfoContext(ctx, c.entity+" deleted", slog.Int64("id", id))

	return nil
}
