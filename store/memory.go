package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hectorchu/wc-gateway-gonano/types"
)

// Memory is an in-process OrderStore used by tests and examples.
type Memory struct {
	mu      sync.RWMutex
	nextID  int64
	orders  map[int64]*types.Order
	meta    map[int64]map[string]string
	keys    map[string]int64
	reasons map[int64]string
}

var _ OrderStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		orders:  make(map[int64]*types.Order),
		meta:    make(map[int64]map[string]string),
		keys:    make(map[string]int64),
		reasons: make(map[int64]string),
	}
}

// CreateOrder registers a pending order and assigns it a random lookup key.
func (m *Memory) CreateOrder(total, currency string) *types.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	order := &types.Order{
		ID:       m.nextID,
		Total:    total,
		Currency: currency,
		Status:   types.OrderPending,
		Key:      "wc_order_" + uuid.NewString(),
	}
	m.orders[order.ID] = order
	m.meta[order.ID] = make(map[string]string)
	m.keys[order.Key] = order.ID

	o := *order
	return &o
}

func (m *Memory) Order(ctx context.Context, id int64) (*types.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o := *order
	return &o, nil
}

func (m *Memory) OrderIDByKey(ctx context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.keys[key]
	if !ok {
		return 0, ErrNotFound
	}
	return id, nil
}

func (m *Memory) UpdateStatus(ctx context.Context, id int64, status types.OrderStatus, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	order.Status = status
	m.reasons[id] = reason
	return nil
}

func (m *Memory) SetMeta(ctx context.Context, id int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	if value == "" {
		delete(m.meta[id], key)
		return nil
	}
	m.meta[id][key] = value
	return nil
}

func (m *Memory) Meta(ctx context.Context, id int64, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.orders[id]; !ok {
		return "", ErrNotFound
	}
	return m.meta[id][key], nil
}

func (m *Memory) MarkPaid(ctx context.Context, id int64, txRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	order.Status = types.OrderCompleted
	order.TransactionRef = txRef
	return nil
}

// StatusReason returns the reason recorded with the last status transition.
func (m *Memory) StatusReason(id int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reasons[id]
}
