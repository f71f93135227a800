package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // account role, gates staff/admin surfaces

const (
	RoleCustomer UserRole = "customer"
	RoleStaff    UserRole = "staff"
	RoleManager  UserRole = "manager"
	RoleAdmin    UserRole = "admin"
)

// ValidRoles lists every assignable account role.
var ValidRoles = []UserRole{RoleCustomer, RoleStaff, RoleManager, RoleAdmin}

func (r UserRole) IsValid() bool {
	for _, role := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RedirectPath maps a role to the surface the client should land on after
// login.
func (r UserRole) RedirectPath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleStaff, RoleManager:
		return "/staff"
	default:
		return "/"
	}
}

type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash  string         `gorm:"not null" json:"-"`
	Name          string         `gorm:"not null" json:"name" validate:"required,min=2,max=100"`
	Role          UserRole       `gorm:"type:varchar(20);default:'customer';index" json:"role" validate:"required,userrole"`
	Phone         string         `json:"phone,omitempty" validate:"omitempty,e164ish"`
	AddressLine   string         `json:"address_line,omitempty"`
	City          string         `json:"city,omitempty"`
	PostalCode    string         `json:"postal_code,omitempty"`
	LoyaltyPoints int            `gorm:"default:0;check:loyalty_points >= 0" json:"loyalty_points" validate:"gte=0"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	LastLogin     *time.Time     `json:"last_login,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
