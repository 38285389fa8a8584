// Package store defines the order store the gateway core consumes. The
// gateway never touches the host platform's order model directly; every
// read and status transition goes through this interface.
package store

import (
	"context"
	"errors"

	"github.com/hectorchu/wc-gateway-gonano/types"
)

// ErrNotFound is returned when an order id or lookup key resolves to
// nothing.
var ErrNotFound = errors.New("order not found")

// OrderStore is the narrow order persistence surface the core uses.
type OrderStore interface {
	// Order fetches an order by id.
	Order(ctx context.Context, id int64) (*types.Order, error)

	// OrderIDByKey resolves an order from its unguessable lookup key.
	// Unknown keys return ErrNotFound.
	OrderIDByKey(ctx context.Context, key string) (int64, error)

	// UpdateStatus transitions the order status, attaching a human-readable
	// reason shown on the order page.
	UpdateStatus(ctx context.Context, id int64, status types.OrderStatus, reason string) error

	// SetMeta writes a metadata entry on the order record. An empty value
	// removes the entry.
	SetMeta(ctx context.Context, id int64, key, value string) error

	// Meta reads a metadata entry. Absent entries yield an empty string,
	// not an error.
	Meta(ctx context.Context, id int64, key string) (string, error)

	// MarkPaid records settlement: status becomes completed and txRef is
	// stored as the transaction reference.
	MarkPaid(ctx context.Context, id int64, txRef string) error
}
