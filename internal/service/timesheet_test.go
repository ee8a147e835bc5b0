package service

import (
	"context"
	"testing"

	"oneflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timesheetFixture(t *testing.T) (*TimesheetService, *model.User, *model.User, *model.Task) {
	t.Helper()
	db := newTestDB(t)
	pm := seedUser(t, db, "pm", model.RoleProjectManager)
	member := seedUser(t, db, "member", model.RoleTeamMember)
	p := seedProject(t, db, "alpha", pm.ID)
	task := seedTask(t, db, p.ID, model.TaskInProgress, &member.ID)
	return NewTimesheetService(db), pm, member, task
}

func (s *TimesheetService) task(t *testing.T, id int) model.Task {
	t.Helper()
	var task model.Task
	require.NoError(t, s.db.First(&task, id).Error)
	return task
}

func TestTimesheetCreateAddsHours(t *testing.T) {
	svc, _, member, task := timesheetFixture(t)
	ctx := context.Background()

	ts := model.Timesheet{TaskID: task.ID, Date: "2025-03-10", Hours: 6.5, Billable: true}
	require.NoError(t, svc.Create(ctx, asIdentity(member), &ts))

	assert.Equal(t, model.TimesheetDraft, ts.Status)
	assert.Equal(t, member.ID, ts.UserID)
	assert.Equal(t, task.ProjectID, ts.ProjectID)
	assert.Equal(t, 6.5, svc.task(t, task.ID).HoursLogged)
}

func TestTimesheetCreateValidatesHours(t *testing.T) {
	svc, _, member, task := timesheetFixture(t)
	ctx := context.Background()

	err := svc.Create(ctx, asIdentity(member), &model.Timesheet{TaskID: task.ID, Hours: 25})
	assert.ErrorIs(t, err, ErrInvalid)

	err = svc.Create(ctx, asIdentity(member), &model.Timesheet{TaskID: 999, Hours: 2})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTimesheetHoursEditAppliesDelta(t *testing.T) {
	svc, _, member, task := timesheetFixture(t)
	ctx := context.Background()

	ts := model.Timesheet{TaskID: task.ID, Date: "2025-03-10", Hours: 8}
	require.NoError(t, svc.Create(ctx, asIdentity(member), &ts))
	require.Equal(t, 8.0, svc.task(t, task.ID).HoursLogged)

	h := 5.0
	_, err := svc.Update(ctx, asIdentity(member), ts.ID, TimesheetPatch{Hours: &h})
	require.NoError(t, err)
	assert.Equal(t, 5.0, svc.task(t, task.ID).HoursLogged)

	h = 7.25
	_, err = svc.Update(ctx, asIdentity(member), ts.ID, TimesheetPatch{Hours: &h})
	require.NoError(t, err)
	assert.Equal(t, 7.25, svc.task(t, task.ID).HoursLogged)
}

func TestTimesheetDeleteClampsAtZero(t *testing.T) {
	svc, _, member, task := timesheetFixture(t)
	ctx := context.Background()

	ts := model.Timesheet{TaskID: task.ID, Date: "2025-03-10", Hours: 4}
	require.NoError(t, svc.Create(ctx, asIdentity(member), &ts))

	// hours on the task drift below the entry's own hours
	require.NoError(t, svc.db.Model(&model.Task{}).Where("id = ?", task.ID).
		Update("hours_logged", 2).Error)

	require.NoError(t, svc.Delete(ctx, asIdentity(member), ts.ID))
	assert.Equal(t, 0.0, svc.task(t, task.ID).HoursLogged)
}

func TestTimesheetTransitionMatrix(t *testing.T) {
	svc, pm, member, task := timesheetFixture(t)
	ctx := context.Background()

	ts := model.Timesheet{TaskID: task.ID, Date: "2025-03-10", Hours: 8}
	require.NoError(t, svc.Create(ctx, asIdentity(member), &ts))

	t.Run("only owner submits", func(t *testing.T) {
		_, err := svc.Transition(ctx, asIdentity(pm), ts.ID, model.TimesheetSubmitted, nil)
		assert.ErrorIs(t, err, ErrForbidden)

		got, err := svc.Transition(ctx, asIdentity(member), ts.ID, model.TimesheetSubmitted, nil)
		require.NoError(t, err)
		assert.Equal(t, model.TimesheetSubmitted, got.Status)
	})

	t.Run("member cannot approve", func(t *testing.T) {
		_, err := svc.Transition(ctx, asIdentity(member), ts.ID, model.TimesheetApproved, nil)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("manager rejects", func(t *testing.T) {
		got, err := svc.Transition(ctx, asIdentity(pm), ts.ID, model.TimesheetRejected, nil)
		require.NoError(t, err)
		assert.Equal(t, model.TimesheetRejected, got.Status)
	})

	t.Run("direct rejected to submitted is illegal", func(t *testing.T) {
		_, err := svc.Transition(ctx, asIdentity(member), ts.ID, model.TimesheetSubmitted, nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("resubmission loop carries edited hours into the task", func(t *testing.T) {
		h := 6.0
		got, err := svc.Transition(ctx, asIdentity(member), ts.ID, model.TimesheetDraft, &h)
		require.NoError(t, err)
		assert.Equal(t, model.TimesheetDraft, got.Status)
		assert.Equal(t, 6.0, got.Hours)
		assert.Equal(t, 6.0, svc.task(t, task.ID).HoursLogged)

		got, err = svc.Transition(ctx, asIdentity(member), ts.ID, model.TimesheetSubmitted, nil)
		require.NoError(t, err)
		assert.Equal(t, model.TimesheetSubmitted, got.Status)
		assert.Equal(t, 6.0, got.Hours)
	})

	t.Run("approve", func(t *testing.T) {
		got, err := svc.Transition(ctx, asIdentity(pm), ts.ID, model.TimesheetApproved, nil)
		require.NoError(t, err)
		assert.Equal(t, model.TimesheetApproved, got.Status)
	})

	t.Run("approved entries accept no further transitions", func(t *testing.T) {
		_, err := svc.Transition(ctx, asIdentity(member), ts.ID, model.TimesheetSubmitted, nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestOwnerCannotApproveOwnTimesheet(t *testing.T) {
	svc, pm, _, task := timesheetFixture(t)
	ctx := context.Background()

	// the manager logs hours too; still not allowed to self-approve
	ts := model.Timesheet{TaskID: task.ID, Date: "2025-03-11", Hours: 3, Status: model.TimesheetSubmitted}
	require.NoError(t, svc.Create(ctx, asIdentity(pm), &ts))

	_, err := svc.Transition(ctx, asIdentity(pm), ts.ID, model.TimesheetApproved, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmittedEntriesLockedForOwner(t *testing.T) {
	svc, pm, member, task := timesheetFixture(t)
	ctx := context.Background()

	ts := model.Timesheet{TaskID: task.ID, Date: "2025-03-10", Hours: 8, Status: model.TimesheetSubmitted}
	require.NoError(t, svc.Create(ctx, asIdentity(member), &ts))

	h := 4.0
	_, err := svc.Update(ctx, asIdentity(member), ts.ID, TimesheetPatch{Hours: &h})
	assert.ErrorIs(t, err, ErrForbidden)

	// a manager can still fix it, and the delta cascades
	_, err = svc.Update(ctx, asIdentity(pm), ts.ID, TimesheetPatch{Hours: &h})
	require.NoError(t, err)
	assert.Equal(t, 4.0, svc.task(t, task.ID).HoursLogged)
}

func TestTimesheetVisibility(t *testing.T) {
	svc, pm, member, task := timesheetFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, asIdentity(member), &model.Timesheet{TaskID: task.ID, Date: "2025-03-10", Hours: 2}))
	require.NoError(t, svc.Create(ctx, asIdentity(pm), &model.Timesheet{TaskID: task.ID, Date: "2025-03-10", Hours: 1}))

	mine, err := svc.List(ctx, asIdentity(member), TimesheetFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, member.ID, mine[0].UserID)

	all, err := svc.List(ctx, asIdentity(pm), TimesheetFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
