package models

import "time"

// Restaurant is a venue whose menu items can be ordered.
type Restaurant struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Address     string    `json:"address" gorm:"type:text" validate:"omitempty,max=255"`
	Phone       string    `json:"phone" gorm:"type:varchar(20)" validate:"omitempty,phone"`
	Email       string    `json:"email" gorm:"type:varchar(100)" validate:"omitempty,email"`
	CuisineType string    `json:"cuisine_type" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	Rating      float64   `json:"rating" gorm:"type:decimal(2,1)" validate:"gte=0,lte=5"`
	ImageURL    string    `json:"image_url" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListParams is the common search + pagination input of list endpoints.
type ListParams struct {
	Search string
	Limit  int
	Offset int
}
