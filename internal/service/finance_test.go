package service

import (
	"context"
	"testing"

	"oneflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewFinanceService(db)

	pm := seedUser(t, db, "pm", model.RoleProjectManager)
	p := seedProject(t, db, "alpha", pm.ID)

	require.NoError(t, db.Create(&model.SalesOrder{ProjectID: p.ID, Amount: 30000}).Error)
	require.NoError(t, db.Create(&model.SalesOrder{ProjectID: p.ID, Amount: 20000}).Error)
	require.NoError(t, db.Create(&model.PurchaseOrder{ProjectID: p.ID, Amount: 15000}).Error)
	require.NoError(t, db.Create(&model.Expense{ProjectID: p.ID, Amount: 10}).Error)

	// another project's documents must not leak in
	other := seedProject(t, db, "beta", pm.ID)
	require.NoError(t, db.Create(&model.SalesOrder{ProjectID: other.ID, Amount: 999}).Error)

	f, err := svc.Rollup(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, f.Revenue)
	assert.Equal(t, 15000.0, f.Cost)
	assert.Equal(t, 10.0, f.Expenses)
	assert.Equal(t, 34990.0, f.Profit)
}

func TestRollupUnknownProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewFinanceService(db)
	_, err := svc.Rollup(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboardSkipsFinanciallyInactiveProjects(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewFinanceService(db)

	pm := seedUser(t, db, "pm", model.RoleProjectManager)
	active := seedProject(t, db, "active", pm.ID)
	idle := seedProject(t, db, "idle", pm.ID)
	costOnly := seedProject(t, db, "cost-only", pm.ID)

	require.NoError(t, db.Create(&model.SalesOrder{ProjectID: active.ID, Amount: 1000}).Error)
	require.NoError(t, db.Create(&model.PurchaseOrder{ProjectID: costOnly.ID, Amount: 400}).Error)
	// expenses alone do not make a project financially active
	require.NoError(t, db.Create(&model.Expense{ProjectID: idle.ID, Amount: 50}).Error)

	resp, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Projects, 2)
	assert.Equal(t, active.ID, resp.Projects[0].ProjectID)
	assert.Equal(t, costOnly.ID, resp.Projects[1].ProjectID)
	assert.Equal(t, 1000.0, resp.Totals.Revenue)
	assert.Equal(t, 400.0, resp.Totals.Cost)
	assert.Equal(t, 600.0, resp.Totals.Profit)
}

func TestBillableSplit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ts := NewTimesheetService(db)

	pm := seedUser(t, db, "pm", model.RoleProjectManager)
	member := seedUser(t, db, "member", model.RoleTeamMember)
	p := seedProject(t, db, "alpha", pm.ID)
	task := seedTask(t, db, p.ID, model.TaskInProgress, &member.ID)

	for _, e := range []struct {
		hours    float64
		billable bool
	}{{8, true}, {4, false}, {6, true}} {
		entry := model.Timesheet{TaskID: task.ID, Date: "2025-03-10", Hours: e.hours, Billable: e.billable}
		require.NoError(t, ts.Create(ctx, asIdentity(member), &entry))
	}

	sum, err := ts.Summary(ctx, asIdentity(pm), "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, 18.0, sum.TotalHours)
	assert.Equal(t, 14.0, sum.BillableHours)
	assert.Equal(t, 4.0, sum.NonBillableHours)
}

func TestBillableSplitRespectsDateRange(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ts := NewTimesheetService(db)

	pm := seedUser(t, db, "pm", model.RoleProjectManager)
	member := seedUser(t, db, "member", model.RoleTeamMember)
	p := seedProject(t, db, "alpha", pm.ID)
	task := seedTask(t, db, p.ID, model.TaskInProgress, &member.ID)

	in := model.Timesheet{TaskID: task.ID, Date: "2025-03-10", Hours: 8, Billable: true}
	out := model.Timesheet{TaskID: task.ID, Date: "2025-04-02", Hours: 5, Billable: true}
	require.NoError(t, ts.Create(ctx, asIdentity(member), &in))
	require.NoError(t, ts.Create(ctx, asIdentity(member), &out))

	sum, err := ts.Summary(ctx, asIdentity(pm), "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, 8.0, sum.TotalHours)
}

func TestExpenseVisibility(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewFinanceService(db)

	pm := seedUser(t, db, "pm", model.RoleProjectManager)
	insider := seedUser(t, db, "insider", model.RoleTeamMember)
	outsider := seedUser(t, db, "outsider", model.RoleTeamMember)

	p := seedProject(t, db, "alpha", pm.ID)
	other := seedProject(t, db, "beta", pm.ID)
	require.NoError(t, db.Create(&model.ProjectTeam{ProjectID: p.ID, UserID: insider.ID}).Error)
	require.NoError(t, db.Create(&model.Expense{ProjectID: p.ID, Amount: 10}).Error)
	require.NoError(t, db.Create(&model.Expense{ProjectID: other.ID, Amount: 20}).Error)

	t.Run("member sees expenses of member projects only", func(t *testing.T) {
		got, err := svc.ListExpenses(ctx, asIdentity(insider), 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, p.ID, got[0].ProjectID)
	})

	t.Run("no memberships means empty result, not unrestricted", func(t *testing.T) {
		got, err := svc.ListExpenses(ctx, asIdentity(outsider), 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("finance sees everything", func(t *testing.T) {
		fin := seedUser(t, db, "fin", model.RoleFinance)
		got, err := svc.ListExpenses(ctx, asIdentity(fin), 0)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}
