package services

import (
	"context"
	"fmt"
	"strings"

	"resto/internal/activity"
	"resto/internal/models"
	"resto/internal/repositories"
	"resto/internal/validation"

	"github.com/skip2/go-qrcode"
)

// RestaurantInput creates or replaces a restaurant.
type RestaurantInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Address     string  `json:"address" validate:"omitempty,max=255"`
	Phone       string  `json:"phone" validate:"omitempty,phone"`
	Email       string  `json:"email" validate:"omitempty,email,max=100"`
	CuisineType string  `json:"cuisine_type" validate:"omitempty,max=50"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
	ImageURL    string  `json:"image_url" validate:"omitempty,max=255"`
}

func (in RestaurantInput) apply(r *models.Restaurant) {
	r.Name = strings.TrimSpace(in.Name)
	r.Address = in.Address
	r.Phone = in.Phone
	r.Email = in.Email
	r.CuisineType = in.CuisineType
	r.Rating = in.Rating
	r.ImageURL = in.ImageURL
}

// RestaurantService handles restaurant management.
type RestaurantService struct {
	repo     repositories.RestaurantRepository
	activity *activity.Recorder
	validate *validation.Validator
	perPage  int
	baseURL  string
}

// NewRestaurantService creates a new RestaurantService. baseURL is the public site the menu
// QR codes point to.
func NewRestaurantService(repo repositories.RestaurantRepository, recorder *activity.Recorder, perPage int, baseURL string) *RestaurantService {
	if perPage <= 0 {
		perPage = 10
	}
	return &RestaurantService{
		repo:     repo,
		activity: recorder,
		validate: validation.New(),
		perPage:  perPage,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (s *RestaurantService) ListRestaurants(ctx context.Context, search string, page int) (models.Page[models.Restaurant], error) {
	limit, offset := models.Paginate(page, s.perPage)
	restaurants, total, err := s.repo.List(ctx, models.ListParams{Search: search, Limit: limit, Offset: offset})
	if err != nil {
		return models.Page[models.Restaurant]{}, err
	}
	return models.NewPage(restaurants, total, page, s.perPage), nil
}

func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RestaurantService) CreateRestaurant(ctx context.Context, rc models.RequestContext, input RestaurantInput) (*models.Restaurant, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	restaurant := &models.Restaurant{}
	input.apply(restaurant)
	if err := s.repo.Create(ctx, restaurant); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, rc.UserID, "create_restaurant", fmt.Sprintf("Created restaurant %s", restaurant.Name))
	return restaurant, nil
}

// UpdateRestaurant replaces the editable fields. Orders show the new name from then on.
func (s *RestaurantService) UpdateRestaurant(ctx context.Context, rc models.RequestContext, id string, input RestaurantInput) (*models.Restaurant, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	restaurant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	input.apply(restaurant)
	if err := s.repo.Update(ctx, restaurant); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, rc.UserID, "update_restaurant", fmt.Sprintf("Updated restaurant %s", restaurant.Name))
	return restaurant, nil
}

// DeleteRestaurant removes a restaurant and its menu. Restaurants with orders are refused with
// models.ErrConflict.
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, rc models.RequestContext, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, rc.UserID, "delete_restaurant", fmt.Sprintf("Deleted restaurant %s", id))
	return nil
}

// MenuURL is the public address of a restaurant's menu.
func (s *RestaurantService) MenuURL(id string) string {
	return fmt.Sprintf("%s/restaurants/%s/menu", s.baseURL, id)
}

// MenuQRCode renders a 256px PNG QR code linking to the restaurant's menu.
func (s *RestaurantService) MenuQRCode(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(s.MenuURL(id), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
