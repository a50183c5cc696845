package models

import (
	"time"
)

// Role IDs referenced by route guards and workflow checks.
const (
	RoleStaff             = 1
	RoleDeptHead          = 2
	RoleAdmin             = 3
	RoleDeputy            = 4
	RoleDisseminationHead = 5
)

// Actor types carried in JWT claims.
const (
	UserTypeStaff  = "staff"
	UserTypePortal = "portal"
)

type User struct {
	UserID       int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname    string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname    string     `gorm:"column:user_lname" json:"user_lname"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	Password     string     `gorm:"column:password" json:"-"`
	RoleID       int        `gorm:"column:role_id" json:"role_id"`
	DepartmentID *int       `gorm:"column:department_id" json:"department_id,omitempty"`
	IsActive     bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Prefix *string `gorm:"column:prefix" json:"prefix,omitempty"`
	Tel    *string `gorm:"column:tel" json:"tel,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// PortalUser is an external actor submitting data-access requests through
// the public portal. The workflow treats staff and portal users uniformly
// as "an actor with a role".
type PortalUser struct {
	PortalUserID int        `gorm:"primaryKey;column:portal_user_id" json:"portal_user_id"`
	FullName     string     `gorm:"column:full_name" json:"full_name"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	Password     string     `gorm:"column:password" json:"-"`
	Organization *string    `gorm:"column:organization" json:"organization,omitempty"`
	UserType     string     `gorm:"column:user_type" json:"user_type"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (PortalUser) TableName() string {
	return "portal_users"
}
