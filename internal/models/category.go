package models

// Category groups menu items (appetizers, desserts, ...).
type Category struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string `json:"name" gorm:"type:varchar(50);not null;uniqueIndex" validate:"required,min=2,max=50"`
	Description string `json:"description" gorm:"type:text" validate:"omitempty,max=500"`
}
