package repositories

import (
	"context"

	"resto/internal/models"
)

// RestaurantRepository defines the interface for restaurant data access.
type RestaurantRepository interface {
	List(ctx context.Context, params models.ListParams) ([]models.Restaurant, int64, error)
	GetByID(ctx context.Context, id string) (*models.Restaurant, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, restaurant *models.Restaurant) error
	Update(ctx context.Context, restaurant *models.Restaurant) error
	Delete(ctx context.Context, id string) error
	TopRated(ctx context.Context, limit int) ([]models.Restaurant, error)
}
