package services

import (
	"errors"
	"fmt"

	"report-workflow-api/models"

	"gorm.io/gorm"
)

// GormDepartmentDirectory resolves departments and heads from MySQL.
//
// Two resolution paths exist and must not be conflated: GetHead follows the
// department's head_user_id column (used when a report already carries its
// department), while HeadOfUsersDepartment walks user -> own department ->
// member holding the department-head role (used for "am I a head" checks).
type GormDepartmentDirectory struct {
	db *gorm.DB
}

func NewGormDepartmentDirectory(db *gorm.DB) *GormDepartmentDirectory {
	return &GormDepartmentDirectory{db: db}
}

func (d *GormDepartmentDirectory) GetDepartment(departmentID int) (*models.Department, error) {
	var dept models.Department
	err := d.db.Where("department_id = ? AND delete_at IS NULL", departmentID).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to load department %d: %w", departmentID, err)
	}
	return &dept, nil
}

// GetHead returns the department's designated head, or (nil, nil) when the
// department has no head assigned.
func (d *GormDepartmentDirectory) GetHead(departmentID int) (*models.User, error) {
	dept, err := d.GetDepartment(departmentID)
	if err != nil {
		return nil, err
	}
	if dept.HeadUserID == nil {
		return nil, nil
	}

	var head models.User
	err = d.db.Where("user_id = ? AND delete_at IS NULL", *dept.HeadUserID).First(&head).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load department head: %w", err)
	}
	return &head, nil
}

// GetDepartmentOfUser returns the user's own department, or (nil, nil) when
// the user belongs to none.
func (d *GormDepartmentDirectory) GetDepartmentOfUser(userID int) (*models.Department, error) {
	var user models.User
	err := d.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user.DepartmentID == nil {
		return nil, nil
	}

	dept, err := d.GetDepartment(*user.DepartmentID)
	if errors.Is(err, ErrDepartmentNotFound) {
		return nil, nil
	}
	return dept, err
}

// HeadOfUsersDepartment resolves the head through the caller's own
// department membership: among the department's members, the one holding
// the department-head role.
func (d *GormDepartmentDirectory) HeadOfUsersDepartment(userID int) (*models.User, error) {
	dept, err := d.GetDepartmentOfUser(userID)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, nil
	}

	var head models.User
	err = d.db.Where("department_id = ? AND role_id = ? AND delete_at IS NULL", dept.DepartmentID, models.RoleDeptHead).
		Order("user_id ASC").
		First(&head).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve department head: %w", err)
	}
	return &head, nil
}

// IsDepartmentHead reports whether the user is the head of their own
// department.
func (d *GormDepartmentDirectory) IsDepartmentHead(userID int) (bool, error) {
	head, err := d.HeadOfUsersDepartment(userID)
	if err != nil {
		return false, err
	}
	return head != nil && head.UserID == userID, nil
}

// DisseminationHead returns the active user holding the dissemination-head
// role, or (nil, nil) when none is configured.
func (d *GormDepartmentDirectory) DisseminationHead() (*models.User, error) {
	var head models.User
	err := d.db.Where("role_id = ? AND is_active = ? AND delete_at IS NULL", models.RoleDisseminationHead, true).
		Order("user_id ASC").
		First(&head).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve dissemination head: %w", err)
	}
	return &head, nil
}
