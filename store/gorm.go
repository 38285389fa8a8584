package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hectorchu/wc-gateway-gonano/types"
)

// OrderRecord is the orders table row backing the GORM store.
type OrderRecord struct {
	ID             int64  `gorm:"primaryKey"`
	Total          string `gorm:"size:64"`
	Currency       string `gorm:"size:16"`
	Status         string `gorm:"size:32;index"`
	OrderKey       string `gorm:"size:64;uniqueIndex"`
	TransactionRef string `gorm:"size:128"`
	StatusReason   string `gorm:"size:512"`
}

func (OrderRecord) TableName() string { return "orders" }

// OrderMetaRecord is a key-value metadata entry attached to an order.
type OrderMetaRecord struct {
	ID        int64  `gorm:"primaryKey"`
	OrderID   int64  `gorm:"index;uniqueIndex:idx_order_meta"`
	MetaKey   string `gorm:"size:64;uniqueIndex:idx_order_meta"`
	MetaValue string `gorm:"size:256"`
}

func (OrderMetaRecord) TableName() string { return "order_meta" }

// Gorm is an OrderStore backed by a relational database.
type Gorm struct {
	db *gorm.DB
}

var _ OrderStore = (*Gorm)(nil)

// NewGorm wraps an open GORM connection. Call Migrate before first use.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate creates or updates the backing tables.
func (g *Gorm) Migrate() error {
	return g.db.AutoMigrate(&OrderRecord{}, &OrderMetaRecord{})
}

func (g *Gorm) Order(ctx context.Context, id int64) (*types.Order, error) {
	var rec OrderRecord
	err := g.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &types.Order{
		ID:             rec.ID,
		Total:          rec.Total,
		Currency:       rec.Currency,
		Status:         types.OrderStatus(rec.Status),
		Key:            rec.OrderKey,
		TransactionRef: rec.TransactionRef,
	}, nil
}

func (g *Gorm) OrderIDByKey(ctx context.Context, key string) (int64, error) {
	var rec OrderRecord
	err := g.db.WithContext(ctx).Select("id").Where("order_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (g *Gorm) UpdateStatus(ctx context.Context, id int64, status types.OrderStatus, reason string) error {
	res := g.db.WithContext(ctx).Model(&OrderRecord{}).Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "status_reason": reason})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) SetMeta(ctx context.Context, id int64, key, value string) error {
	if value == "" {
		return g.db.WithContext(ctx).
			Where("order_id = ? AND meta_key = ?", id, key).
			Delete(&OrderMetaRecord{}).Error
	}

	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value"}),
	}).Create(&OrderMetaRecord{OrderID: id, MetaKey: key, MetaValue: value}).Error
}

func (g *Gorm) Meta(ctx context.Context, id int64, key string) (string, error) {
	var rec OrderMetaRecord
	err := g.db.WithContext(ctx).
		Where("order_id = ? AND meta_key = ?", id, key).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.MetaValue, nil
}

func (g *Gorm) MarkPaid(ctx context.Context, id int64, txRef string) error {
	res := g.db.WithContext(ctx).Model(&OrderRecord{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":          string(types.OrderCompleted),
			"transaction_ref": txRef,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
