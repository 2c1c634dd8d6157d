package repositories

import (
	"context"
	"errors"
	"fmt"

	"resto/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const orderColumns = "orders.*, COALESCE(restaurants.name, '') AS restaurant_name, COALESCE(restaurants.address, '') AS restaurant_address"

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create inserts the order row and then its line items. Either both land or neither does.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if len(order.Items) == 0 {
			return nil
		}
		if err := tx.Create(&order.Items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return &models.PersistenceError{Op: "create order", Err: err}
	}
	return nil
}

// GetByID loads an order with its items, item names and the restaurant's current name and
// address.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	db := r.db.WithContext(ctx)

	var order models.Order
	err := db.Model(&models.Order{}).
		Select(orderColumns).
		Joins("LEFT JOIN restaurants ON restaurants.id = orders.restaurant_id").
		Where("orders.id = ?", id).
		Take(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFoundf("order with ID %s not found", id)
		}
		return nil, storageError("get order", err)
	}

	order.Items = []models.OrderItem{}
	err = db.Model(&models.OrderItem{}).
		Select("order_items.*, COALESCE(menu_items.name, '') AS item_name").
		Joins("LEFT JOIN menu_items ON menu_items.id = order_items.menu_item_id").
		Where("order_items.order_id = ?", id).
		Order("item_name ASC, order_items.id ASC").
		Find(&order.Items).Error
	if err != nil {
		return nil, storageError("get order items", err)
	}
	return &order, nil
}

// List returns one page of orders, newest first, without items.
func (r *GORMOrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Order{}).
		Joins("LEFT JOIN restaurants ON restaurants.id = orders.restaurant_id")
	if filter.Search != "" {
		like := likePattern(filter.Search)
		base = base.Where("(LOWER(orders.customer_name) LIKE ? OR LOWER(restaurants.name) LIKE ?)", like, like)
	}
	if filter.Status != "" {
		base = base.Where("orders.status = ?", filter.Status)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, storageError("count orders", err)
	}
	orders := []models.Order{}
	q := base.Select(orderColumns).Order("orders.created_at DESC, orders.id DESC")
	if err := paginate(q, filter.Limit, filter.Offset).Find(&orders).Error; err != nil {
		return nil, 0, storageError("list orders", err)
	}
	return orders, total, nil
}

// UpdateStatus changes only the status and updated_at columns.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, expected *models.OrderStatus) error {
	db := r.db.WithContext(ctx)

	q := db.Model(&models.Order{}).Where("id = ?", id)
	if expected != nil {
		q = q.Where("status = ?", *expected)
	}
	res := q.Update("status", status)
	if res.Error != nil {
		return storageError("update order status", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := db.Model(&models.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return storageError("check order", err)
	}
	if n == 0 {
		return models.NotFoundf("order with ID %s not found for status update", id)
	}
	if expected != nil {
		return fmt.Errorf("order %s is no longer %s: %w", id, *expected, models.ErrStatusConflict)
	}
	return nil
}

// Delete removes an order and its items in one transaction.
func (r *GORMOrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return storageError("delete order items", err)
		}
		res := tx.Delete(&models.Order{}, "id = ?", id)
		if res.Error != nil {
			return storageError("delete order", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NotFoundf("order with ID %s not found for deletion", id)
		}
		return nil
	})
}
