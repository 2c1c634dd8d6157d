package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resto/internal/activity"
	"resto/internal/models"
	"resto/internal/repositories"
	"resto/internal/validation"

	"github.com/shopspring/decimal"
)

// MenuItemInput creates or replaces a menu item.
type MenuItemInput struct {
	RestaurantID string          `json:"restaurant_id" validate:"required"`
	CategoryID   string          `json:"category_id"`
	Name         string          `json:"name" validate:"required,min=2,max=100"`
	Description  string          `json:"description" validate:"omitempty,max=500"`
	Price        decimal.Decimal `json:"price" validate:"money"`
	ImageURL     string          `json:"image_url" validate:"omitempty,max=255"`
	Availability *bool           `json:"availability"`
}

// MenuQuery filters the menu item listing. Page is 1-based.
type MenuQuery struct {
	RestaurantID string
	CategoryID   string
	Search       string
	Page         int
}

// CategoryInput creates a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// CatalogService handles menu items and categories, and serves the catalog to order creation.
type CatalogService struct {
	restaurants repositories.RestaurantRepository
	menu        repositories.MenuItemRepository
	categories  repositories.CategoryRepository
	activity    *activity.Recorder
	validate    *validation.Validator
	perPage     int
}

func NewCatalogService(restaurants repositories.RestaurantRepository, menu repositories.MenuItemRepository, categories repositories.CategoryRepository, recorder *activity.Recorder, perPage int) *CatalogService {
	if perPage <= 0 {
		perPage = 10
	}
	return &CatalogService{
		restaurants: restaurants,
		menu:        menu,
		categories:  categories,
		activity:    recorder,
		validate:    validation.New(),
		perPage:     perPage,
	}
}

func (s *CatalogService) RestaurantExists(ctx context.Context, id string) (bool, error) {
	return s.restaurants.Exists(ctx, id)
}

func (s *CatalogService) MenuItemsByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	return s.menu.GetByIDs(ctx, ids)
}

// ListAvailableItems returns the orderable items of a restaurant. A blank id yields an empty
// list, not an error.
func (s *CatalogService) ListAvailableItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return []models.MenuItem{}, nil
	}
	return s.menu.ListAvailable(ctx, restaurantID)
}

func (s *CatalogService) ListMenuItems(ctx context.Context, q MenuQuery) (models.Page[models.MenuItem], error) {
	filter := models.MenuFilter{RestaurantID: q.RestaurantID, CategoryID: q.CategoryID, Search: q.Search}
	filter.Limit, filter.Offset = models.Paginate(q.Page, s.perPage)

	items, total, err := s.menu.List(ctx, filter)
	if err != nil {
		return models.Page[models.MenuItem]{}, err
	}
	return models.NewPage(items, total, q.Page, s.perPage), nil
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	return s.menu.GetByID(ctx, id)
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, rc models.RequestContext, input MenuItemInput) (*models.MenuItem, error) {
	item, err := s.menuItemFromInput(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.menu.Create(ctx, item); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, rc.UserID, "create_menu_item", fmt.Sprintf("Created menu item %s", item.Name))
	return item, nil
}

func (s *CatalogService) UpdateMenuItem(ctx context.Context, rc models.RequestContext, id string, input MenuItemInput) (*models.MenuItem, error) {
	item, err := s.menuItemFromInput(ctx, input)
	if err != nil {
		return nil, err
	}
	item.ID = id
	if err := s.menu.Update(ctx, item); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, rc.UserID, "update_menu_item", fmt.Sprintf("Updated menu item %s", item.Name))
	return s.menu.GetByID(ctx, id)
}

// SetAvailability toggles an item. Orders already placed keep their lines.
func (s *CatalogService) SetAvailability(ctx context.Context, rc models.RequestContext, id string, available bool) error {
	if err := s.menu.SetAvailability(ctx, id, available); err != nil {
		return err
	}
	s.activity.Record(ctx, rc.UserID, "set_menu_item_availability", fmt.Sprintf("Menu item %s available=%t", id, available))
	return nil
}

// DeleteMenuItem refuses items that appear on any order with models.ErrConflict.
func (s *CatalogService) DeleteMenuItem(ctx context.Context, rc models.RequestContext, id string) error {
	if err := s.menu.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, rc.UserID, "delete_menu_item", fmt.Sprintf("Deleted menu item %s", id))
	return nil
}

func (s *CatalogService) menuItemFromInput(ctx context.Context, input MenuItemInput) (*models.MenuItem, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	exists, err := s.restaurants.Exists(ctx, input.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewValidationError("restaurant_id", fmt.Sprintf("Restaurant %s does not exist", input.RestaurantID))
	}

	item := &models.MenuItem{
		RestaurantID: input.RestaurantID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Price:        input.Price,
		ImageURL:     input.ImageURL,
		Availability: input.Availability == nil || *input.Availability,
	}
	if input.CategoryID != "" {
		if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.NewValidationError("category_id", fmt.Sprintf("Category %s does not exist", input.CategoryID))
			}
			return nil, err
		}
		categoryID := input.CategoryID
		item.CategoryID = &categoryID
	}
	return item, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, rc models.RequestContext, input CategoryInput) (*models.Category, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	category := &models.Category{Name: strings.TrimSpace(input.Name), Description: input.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, rc.UserID, "create_category", fmt.Sprintf("Created category %s", category.Name))
	return category, nil
}

// EnsureCategories creates any of names that does not exist yet.
func (s *CatalogService) EnsureCategories(ctx context.Context, names ...string) error {
	for _, name := range names {
		_, err := s.categories.GetByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		if err := s.categories.Create(ctx, &models.Category{Name: name}); err != nil {
			return err
		}
	}
	return nil
}
