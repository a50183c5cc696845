package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"report-workflow-api/models"
)

var (
	selectReportPattern = regexp.MustCompile("SELECT .* FROM `reports` WHERE report_id = \\? AND delete_at IS NULL")
	updateReportPattern = regexp.MustCompile("UPDATE `reports` SET .* WHERE report_id = \\? AND status IN \\(.*\\) AND delete_at IS NULL")
	historyPattern      = regexp.MustCompile("INSERT INTO `report_status_history`")
	auditPattern        = regexp.MustCompile("INSERT INTO `audit_logs`")
)

func reportRow(status string) [][]driver.Value {
	return [][]driver.Value{{int64(7), "RPT-TEST", status, int64(42), int64(0)}}
}

var reportColumns = []string{"report_id", "report_number", "status", "author_id", "payment_required"}

func TestTransitionAppliesGuardedUpdate(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectReportPattern,
			columns: reportColumns,
			rows:    reportRow(string(models.StatusPendingApproval)),
		},
		{
			kind:    kindExec,
			pattern: updateReportPattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: historyPattern,
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: auditPattern,
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: selectReportPattern,
			columns: reportColumns,
			rows:    reportRow(string(models.StatusInitialApproval)),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewGormReportStore(db)

	report, err := store.Transition(7,
		[]models.ReportStatus{models.StatusPendingApproval},
		models.StatusInitialApproval, 42, "department head decision", nil)
	if err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}

	if report.Status != models.StatusInitialApproval {
		t.Fatalf("expected status %s, got %s", models.StatusInitialApproval, report.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionConflictLeavesStatusUnchanged(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectReportPattern,
			columns: reportColumns,
			rows:    reportRow(string(models.StatusPublished)),
		},
		{
			kind:    kindExec,
			pattern: updateReportPattern,
			// zero rows affected: the guard rejected the update
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewGormReportStore(db)

	_, err := store.Transition(7,
		[]models.ReportStatus{models.StatusDeputyApproved, models.StatusFinalApproval},
		models.StatusPublished, 42, "published", nil)

	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transitionErr.Current != models.StatusPublished {
		t.Fatalf("expected current status %s, got %s", models.StatusPublished, transitionErr.Current)
	}
	if transitionErr.Attempted != models.StatusPublished {
		t.Fatalf("expected attempted status %s, got %s", models.StatusPublished, transitionErr.Attempted)
	}

	// No history or audit rows after a rejected guard.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionMissingReport(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectReportPattern,
			columns: reportColumns,
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewGormReportStore(db)

	_, err := store.Transition(7,
		[]models.ReportStatus{models.StatusPending},
		models.StatusApproved, 42, "", nil)
	if !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	store := NewGormReportStore(db)

	_, err := store.Transition(7, []models.ReportStatus{models.StatusPending}, models.ReportStatus("BOGUS"), 42, "", nil)
	if err == nil {
		t.Fatal("expected error for unknown status")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

var openActionPattern = regexp.MustCompile("SELECT .* FROM `pending_actions` WHERE report_id = \\? AND action_type = \\? AND state = \\?")

var pendingActionColumns = []string{"action_id", "report_id", "action_type", "state"}

func TestOpenActionInsertsMarker(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: openActionPattern,
			columns: pendingActionColumns,
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `pending_actions`"),
			result:  scriptedResult{lastInsertID: 3, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewGormReportStore(db)

	opened, err := store.OpenAction(7, models.ActionInitialApproval, 42, 9)
	if err != nil {
		t.Fatalf("OpenAction returned error: %v", err)
	}
	if !opened {
		t.Fatal("expected a new marker to be opened")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOpenActionAlreadyOpenIsNoOp(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: openActionPattern,
			columns: pendingActionColumns,
			rows: [][]driver.Value{
				{int64(3), int64(7), models.ActionInitialApproval, models.ActionOpen},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewGormReportStore(db)

	opened, err := store.OpenAction(7, models.ActionInitialApproval, 42, 9)
	if err != nil {
		t.Fatalf("OpenAction returned error: %v", err)
	}
	if opened {
		t.Fatal("expected repeat request not to open a second marker")
	}

	// No insert runs while a marker is already open.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
