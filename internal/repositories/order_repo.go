package repositories

import (
	"context"

	"resto/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create stores the order and its items in one transaction.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error)
	// UpdateStatus sets the status. A non-nil expected makes it a compare-and-swap.
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, expected *models.OrderStatus) error
	Delete(ctx context.Context, id string) error
}
