package models

import "time"

// Role names, from most to least privileged.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User is a back-office account.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash once stored
	Role      string    `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequestContext identifies the authenticated caller of one request.
type RequestContext struct {
	UserID    string
	Username  string
	Role      string
	SessionID string
}

// HasRole reports whether the caller holds one of roles.
func (rc RequestContext) HasRole(roles ...string) bool {
	for _, r := range roles {
		if rc.Role == r {
			return true
		}
	}
	return false
}
