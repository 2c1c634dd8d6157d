package repositories

import (
	"context"
	"errors"
	"fmt"

	"resto/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const menuItemColumns = "menu_items.*, COALESCE(restaurants.name, '') AS restaurant_name, COALESCE(categories.name, '') AS category_name"

// GORMMenuItemRepository is a GORM implementation of MenuItemRepository.
type GORMMenuItemRepository struct {
	db *gorm.DB
}

// NewGORMMenuItemRepository creates a new instance of GORMMenuItemRepository.
func NewGORMMenuItemRepository(db *gorm.DB) *GORMMenuItemRepository {
	return &GORMMenuItemRepository{
		db: db,
	}
}

func (r *GORMMenuItemRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.MenuItem{}).
		Joins("LEFT JOIN restaurants ON restaurants.id = menu_items.restaurant_id").
		Joins("LEFT JOIN categories ON categories.id = menu_items.category_id")
}

// List returns one page of menu items, newest first, and the total number of matches.
func (r *GORMMenuItemRepository) List(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, int64, error) {
	base := r.joined(ctx)
	if filter.RestaurantID != "" {
		base = base.Where("menu_items.restaurant_id = ?", filter.RestaurantID)
	}
	if filter.CategoryID != "" {
		base = base.Where("menu_items.category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		base = base.Where("(LOWER(menu_items.name) LIKE ? OR LOWER(menu_items.description) LIKE ?)", like, like)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, storageError("count menu items", err)
	}
	items := []models.MenuItem{}
	q := base.Select(menuItemColumns).Order("menu_items.created_at DESC, menu_items.id DESC")
	if err := paginate(q, filter.Limit, filter.Offset).Find(&items).Error; err != nil {
		return nil, 0, storageError("list menu items", err)
	}
	return items, total, nil
}

// ListAvailable returns the orderable items of a restaurant, by name.
func (r *GORMMenuItemRepository) ListAvailable(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	err := r.joined(ctx).Select(menuItemColumns).
		Where("menu_items.restaurant_id = ? AND menu_items.availability = ?", restaurantID, true).
		Order("menu_items.name ASC").
		Find(&items).Error
	if err != nil {
		return nil, storageError("list available menu items", err)
	}
	return items, nil
}

// GetByID retrieves a single menu item by its ID.
func (r *GORMMenuItemRepository) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.joined(ctx).Select(menuItemColumns).Where("menu_items.id = ?", id).Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFoundf("menu item with ID %s not found", id)
		}
		return nil, storageError("get menu item", err)
	}
	return &item, nil
}

// GetByIDs returns the menu items among ids that exist, in no particular order.
func (r *GORMMenuItemRepository) GetByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, storageError("get menu items", err)
	}
	return items, nil
}

// Create creates a new menu item in the database.
func (r *GORMMenuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return storageError("create menu item", err)
	}
	return nil
}

// Update overwrites the editable columns of an existing menu item, zero values included.
func (r *GORMMenuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	res := r.db.WithContext(ctx).Model(item).
		Select("restaurant_id", "category_id", "name", "description", "price", "image_url", "availability").
		Updates(item)
	if res.Error != nil {
		return storageError("update menu item", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFoundf("menu item with ID %s not found for update", item.ID)
	}
	return nil
}

// SetAvailability toggles whether the item can be ordered. Existing orders are unaffected.
func (r *GORMMenuItemRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	res := r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Update("availability", available)
	if res.Error != nil {
		return storageError("set menu item availability", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFoundf("menu item with ID %s not found", id)
	}
	return nil
}

// Delete deletes a menu item unless an order line references it.
func (r *GORMMenuItemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("menu_item_id = ?", id).Count(&refs).Error; err != nil {
			return storageError("count menu item references", err)
		}
		if refs > 0 {
			return fmt.Errorf("menu item %s is referenced by %d order items: %w", id, refs, models.ErrConflict)
		}
		res := tx.Delete(&models.MenuItem{}, "id = ?", id)
		if res.Error != nil {
			return storageError("delete menu item", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NotFoundf("menu item with ID %s not found for deletion", id)
		}
		return nil
	})
}
