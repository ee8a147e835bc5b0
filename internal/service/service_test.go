package service

import (
	"testing"

	"oneflow/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Project{}, &model.Task{}, &model.Timesheet{},
		&model.SalesOrder{}, &model.PurchaseOrder{}, &model.Expense{},
		&model.CustomerInvoice{}, &model.VendorBill{},
		&model.ProjectTeam{}, &model.ProjectMessage{}, &model.OTP{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) *model.User {
	t.Helper()
	u := model.User{Name: name, Email: name + "@oneflow.test", Role: role, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedProject(t *testing.T, db *gorm.DB, name string, managerID int) *model.Project {
	t.Helper()
	p := model.Project{Name: name, ManagerID: managerID, Status: model.ProjectActive}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func seedTask(t *testing.T, db *gorm.DB, projectID int, status string, assignedTo *int) *model.Task {
	t.Helper()
	task := model.Task{ProjectID: projectID, Name: "task", Status: status, AssignedTo: assignedTo}
	require.NoError(t, db.Create(&task).Error)
	return &task
}

func asIdentity(u *model.User) model.Identity {
	return model.Identity{UserID: u.ID, Name: u.Name, Role: u.Role}
}
