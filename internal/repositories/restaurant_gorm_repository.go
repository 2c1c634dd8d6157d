package repositories

import (
	"context"
	"errors"
	"fmt"

	"resto/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRestaurantRepository is a GORM implementation of RestaurantRepository.
type GORMRestaurantRepository struct {
	db *gorm.DB
}

func NewGORMRestaurantRepository(db *gorm.DB) *GORMRestaurantRepository {
	return &GORMRestaurantRepository{db: db}
}

// List returns one page of restaurants, newest first, and the total number of matches.
func (r *GORMRestaurantRepository) List(ctx context.Context, params models.ListParams) ([]models.Restaurant, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Restaurant{})
	if params.Search != "" {
		like := likePattern(params.Search)
		base = base.Where("(LOWER(name) LIKE ? OR LOWER(cuisine_type) LIKE ? OR LOWER(address) LIKE ?)", like, like, like)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, storageError("count restaurants", err)
	}
	restaurants := []models.Restaurant{}
	if err := paginate(base.Order("created_at DESC, id DESC"), params.Limit, params.Offset).Find(&restaurants).Error; err != nil {
		return nil, 0, storageError("list restaurants", err)
	}
	return restaurants, total, nil
}

func (r *GORMRestaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFoundf("restaurant with ID %s not found", id)
		}
		return nil, storageError("get restaurant", err)
	}
	return &restaurant, nil
}

func (r *GORMRestaurantRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, storageError("check restaurant", err)
	}
	return n > 0, nil
}

func (r *GORMRestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	if restaurant.ID == "" {
		restaurant.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(restaurant).Error; err != nil {
		return storageError("create restaurant", err)
	}
	return nil
}

// Update overwrites the editable columns of an existing restaurant.
func (r *GORMRestaurantRepository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	res := r.db.WithContext(ctx).Model(restaurant).
		Select("name", "address", "phone", "email", "cuisine_type", "rating", "image_url").
		Updates(restaurant)
	if res.Error != nil {
		return storageError("update restaurant", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFoundf("restaurant with ID %s not found for update", restaurant.ID)
	}
	return nil
}

// Delete removes a restaurant and its menu items. Restaurants still referenced by orders are
// refused with models.ErrConflict.
func (r *GORMRestaurantRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orders int64
		if err := tx.Model(&models.Order{}).Where("restaurant_id = ?", id).Count(&orders).Error; err != nil {
			return storageError("count restaurant orders", err)
		}
		if orders > 0 {
			return fmt.Errorf("restaurant %s has %d orders: %w", id, orders, models.ErrConflict)
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return storageError("delete restaurant menu items", err)
		}
		res := tx.Delete(&models.Restaurant{}, "id = ?", id)
		if res.Error != nil {
			return storageError("delete restaurant", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NotFoundf("restaurant with ID %s not found for deletion", id)
		}
		return nil
	})
	return err
}

// TopRated returns the best rated restaurants, ties broken by name.
func (r *GORMRestaurantRepository) TopRated(ctx context.Context, limit int) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}
	err := r.db.WithContext(ctx).Order("rating DESC, name ASC").Limit(limit).Find(&restaurants).Error
	if err != nil {
		return nil, storageError("list top rated restaurants", err)
	}
	return restaurants, nil
}
