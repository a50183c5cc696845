package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"report-workflow-api/models"
)

var (
	selectDepartmentPattern = regexp.MustCompile("SELECT .* FROM `departments` WHERE department_id = \\? AND delete_at IS NULL")
	selectUserByIDPattern   = regexp.MustCompile("SELECT .* FROM `users` WHERE user_id = \\? AND delete_at IS NULL")
	selectDeptHeadPattern   = regexp.MustCompile("SELECT .* FROM `users` WHERE department_id = \\? AND role_id = \\? AND delete_at IS NULL")
	selectDissemPattern     = regexp.MustCompile("SELECT .* FROM `users` WHERE role_id = \\? AND is_active = \\? AND delete_at IS NULL")
)

var (
	departmentColumns = []string{"department_id", "department_name", "head_user_id"}
	userColumns       = []string{"user_id", "email", "role_id", "department_id"}
)

func departmentRow(id int64, name string, headUserID driver.Value) [][]driver.Value {
	return [][]driver.Value{{id, name, headUserID}}
}

func userRow(id int64, email string, roleID int64, departmentID driver.Value) [][]driver.Value {
	return [][]driver.Value{{id, email, roleID, departmentID}}
}

func TestGetHeadFollowsDesignatedHead(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectDepartmentPattern,
			columns: departmentColumns,
			rows:    departmentRow(3, "Statistics", int64(10)),
		},
		{
			kind:    kindQuery,
			pattern: selectUserByIDPattern,
			columns: userColumns,
			rows:    userRow(10, "head@example.com", int64(models.RoleDeptHead), int64(3)),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	directory := NewGormDepartmentDirectory(db)

	head, err := directory.GetHead(3)
	if err != nil {
		t.Fatalf("GetHead returned error: %v", err)
	}
	if head == nil || head.UserID != 10 {
		t.Fatalf("expected head user 10, got %+v", head)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetHeadNilWhenUnassigned(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectDepartmentPattern,
			columns: departmentColumns,
			rows:    departmentRow(3, "Statistics", nil),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	directory := NewGormDepartmentDirectory(db)

	head, err := directory.GetHead(3)
	if err != nil {
		t.Fatalf("GetHead returned error: %v", err)
	}
	if head != nil {
		t.Fatalf("expected no head, got %+v", head)
	}

	// The user lookup must not run when head_user_id is null.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetDepartmentMissing(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectDepartmentPattern,
			columns: departmentColumns,
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	directory := NewGormDepartmentDirectory(db)

	_, err := directory.GetDepartment(99)
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHeadOfUsersDepartmentWalksMembership(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectUserByIDPattern,
			columns: userColumns,
			rows:    userRow(42, "staff@example.com", int64(models.RoleStaff), int64(3)),
		},
		{
			kind:    kindQuery,
			pattern: selectDepartmentPattern,
			columns: departmentColumns,
			rows:    departmentRow(3, "Statistics", int64(10)),
		},
		{
			kind:    kindQuery,
			pattern: selectDeptHeadPattern,
			columns: userColumns,
			rows:    userRow(10, "head@example.com", int64(models.RoleDeptHead), int64(3)),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	directory := NewGormDepartmentDirectory(db)

	head, err := directory.HeadOfUsersDepartment(42)
	if err != nil {
		t.Fatalf("HeadOfUsersDepartment returned error: %v", err)
	}
	if head == nil || head.UserID != 10 {
		t.Fatalf("expected head user 10, got %+v", head)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHeadOfUsersDepartmentNilForUnaffiliatedUser(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectUserByIDPattern,
			columns: userColumns,
			rows:    userRow(42, "staff@example.com", int64(models.RoleStaff), nil),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	directory := NewGormDepartmentDirectory(db)

	head, err := directory.HeadOfUsersDepartment(42)
	if err != nil {
		t.Fatalf("HeadOfUsersDepartment returned error: %v", err)
	}
	if head != nil {
		t.Fatalf("expected no head for user without department, got %+v", head)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIsDepartmentHead(t *testing.T) {
	script := func(callerRole int64) []*queryStep {
		return []*queryStep{
			{
				kind:    kindQuery,
				pattern: selectUserByIDPattern,
				columns: userColumns,
				rows:    userRow(42, "staff@example.com", callerRole, int64(3)),
			},
			{
				kind:    kindQuery,
				pattern: selectDepartmentPattern,
				columns: departmentColumns,
				rows:    departmentRow(3, "Statistics", int64(10)),
			},
			{
				kind:    kindQuery,
				pattern: selectDeptHeadPattern,
				columns: userColumns,
				rows:    userRow(10, "head@example.com", int64(models.RoleDeptHead), int64(3)),
			},
		}
	}

	t.Run("member is not head", func(t *testing.T) {
		db, state, cleanup := newScriptedGormDB(t, script(int64(models.RoleStaff)))
		defer cleanup()

		directory := NewGormDepartmentDirectory(db)

		ok, err := directory.IsDepartmentHead(42)
		if err != nil {
			t.Fatalf("IsDepartmentHead returned error: %v", err)
		}
		if ok {
			t.Fatal("expected member not to be head")
		}

		if err := state.verifyComplete(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("head recognizes self", func(t *testing.T) {
		steps := []*queryStep{
			{
				kind:    kindQuery,
				pattern: selectUserByIDPattern,
				columns: userColumns,
				rows:    userRow(10, "head@example.com", int64(models.RoleDeptHead), int64(3)),
			},
			{
				kind:    kindQuery,
				pattern: selectDepartmentPattern,
				columns: departmentColumns,
				rows:    departmentRow(3, "Statistics", int64(10)),
			},
			{
				kind:    kindQuery,
				pattern: selectDeptHeadPattern,
				columns: userColumns,
				rows:    userRow(10, "head@example.com", int64(models.RoleDeptHead), int64(3)),
			},
		}

		db, state, cleanup := newScriptedGormDB(t, steps)
		defer cleanup()

		directory := NewGormDepartmentDirectory(db)

		ok, err := directory.IsDepartmentHead(10)
		if err != nil {
			t.Fatalf("IsDepartmentHead returned error: %v", err)
		}
		if !ok {
			t.Fatal("expected head to be recognized")
		}

		if err := state.verifyComplete(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})
}

func TestDisseminationHeadLookup(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectDissemPattern,
			columns: userColumns,
			rows:    userRow(20, "dissemination@example.com", int64(models.RoleDisseminationHead), nil),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	directory := NewGormDepartmentDirectory(db)

	head, err := directory.DisseminationHead()
	if err != nil {
		t.Fatalf("DisseminationHead returned error: %v", err)
	}
	if head == nil || head.UserID != 20 {
		t.Fatalf("expected dissemination head 20, got %+v", head)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
