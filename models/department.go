package models

import "time"

// Department represents the departments table. HeadUserID is nullable:
// a department may temporarily have no head assigned.
type Department struct {
	DepartmentID   int        `gorm:"primaryKey;column:department_id" json:"department_id"`
	DepartmentName string     `gorm:"column:department_name;unique" json:"department_name"`
	HeadUserID     *int       `gorm:"column:head_user_id" json:"head_user_id,omitempty"`
	Categories     *string    `gorm:"column:categories" json:"categories,omitempty"` // comma-separated, routing only
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Head *User `gorm:"foreignKey:HeadUserID" json:"head,omitempty"`
}

// TableName overrides
func (Department) TableName() string {
	return "departments"
}
