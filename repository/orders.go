package repository

import (
	"context"
	"time"

	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/utils"
	"gorm.io/gorm"
)

type gormOrderRepository struct {
	db *gorm.DB
}

func (r *gormOrderRepository) Get(ctx context.Context, companyId string, orderId int) (*models.Order, error) {
	return utils.FetchModel[models.Order](ctx, r.db, companyId, orderId, "Items")
}

func (r *gormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepository) UpdateStatus(ctx context.Context, order *models.Order, status models.OrderStatus) error {
	if err := r.db.WithContext(ctx).Model(order).Update("CurrentStatus", status).Error; err != nil {
		return err
	}
	order.CurrentStatus = status
	return nil
}

func (r *gormOrderRepository) SaveTotals(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Model(order).Update("TotalAmount", order.TotalAmount).Error
}

func (r *gormOrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormOrderRepository) SaveItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *gormOrderRepository) DeleteItem(ctx context.Context, orderId int, orderItemId int) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", orderItemId, orderId).
		Delete(&models.OrderItem{}).Error
}

func (r *gormOrderRepository) NextSequence(ctx context.Context, companyId string, year int) (int64, error) {
	return utils.GetYearSequence(ctx, r.db, companyId, "orders", year)
}

func (r *gormOrderRepository) ListByCustomerStatusSince(ctx context.Context, companyId string, customerId int, status models.OrderStatus, since time.Time) ([]*models.Order, error) {
	var orders []*models.Order
	dbCtx := r.db.WithContext(ctx).Preload("Items").
		Where("company_id = ? AND customer_id = ? AND current_status = ?", companyId, customerId, status)
	if !since.IsZero() {
		dbCtx = dbCtx.Where("created_at >= ?", since)
	}
	if err := dbCtx.Order("created_at").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
