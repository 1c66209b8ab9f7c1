package domain

import (
	"time"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleOperator UserRole = "operator"
	UserRoleViewer   UserRole = "viewer"
)

// User is an operator-console account, not an EV driver.
type User struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name"`
	Email         string    `json:"email" gorm:"uniqueIndex"`
	Password      string    `json:"-"` // bcrypt hash
	Role          UserRole  `json:"role"`
	Status        string    `json:"status"` // Active, Inactive, Blocked
	NotifyByEmail bool      `json:"notify_by_email" gorm:"default:true"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
