package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a dish offered by a restaurant.
type MenuItem struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RestaurantID string          `json:"restaurant_id" gorm:"type:varchar(36);not null;index" validate:"required"`
	CategoryID   *string         `json:"category_id,omitempty" gorm:"type:varchar(36);index"`
	Name         string          `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Description  string          `json:"description" gorm:"type:text" validate:"omitempty,max=500"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null" validate:"money"`
	ImageURL     string          `json:"image_url" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Availability bool            `json:"availability" gorm:"not null;index"`
	CreatedAt    time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time       `json:"updated_at"`

	RestaurantName string `json:"restaurant_name,omitempty" gorm:"->;-:migration"`
	CategoryName   string `json:"category_name,omitempty" gorm:"->;-:migration"`
}

// MenuFilter narrows menu item listings. Empty fields match everything.
type MenuFilter struct {
	RestaurantID string
	CategoryID   string
	Search       string
	Limit        int
	Offset       int
}
