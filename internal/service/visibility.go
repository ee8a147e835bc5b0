package service

import (
	"oneflow/internal/model"

	"gorm.io/gorm"
)

// capabilities is the single place where the role matrix lives. Handlers and
// services consult it instead of comparing role strings inline.
type capabilities struct {
	allProjects   bool // sees every project in list endpoints
	allTasks      bool
	allExpenses   bool
	allTimesheets bool
	approve       bool // may approve/reject submitted timesheets
	manageTeam    bool // may mutate project team membership and moderate chat
	manageUsers   bool
}

var roleCaps = map[string]capabilities{
	model.RoleAdmin: {
		allProjects: true, allTasks: true, allExpenses: true, allTimesheets: true,
		approve: true, manageTeam: true, manageUsers: true,
	},
	model.RoleProjectManager: {
		allProjects: true, allTasks: true, allExpenses: true, allTimesheets: true,
		approve: true, manageTeam: true,
	},
	model.RoleFinance: {
		allProjects: true, allTasks: true, allExpenses: true, allTimesheets: true,
	},
	model.RoleTeamMember: {},
}

// capsFor returns the zero capability set for unknown roles.
func capsFor(role string) capabilities { return roleCaps[role] }

// ProjectScope narrows a project list query for the caller. Team members only
// see projects holding at least one task assigned to them; a project with no
// such task is not discoverable at all.
func ProjectScope(id model.Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if capsFor(id.Role).allProjects {
			return db
		}
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.Task{}).Select("project_id").Where("assigned_to = ?", id.UserID)
		return db.Where("projects.id IN (?)", sub)
	}
}

// TaskScope narrows a task query to the caller's assignments for team members,
// regardless of any explicit filters on the request.
func TaskScope(id model.Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if capsFor(id.Role).allTasks {
			return db
		}
		return db.Where("assigned_to = ?", id.UserID)
	}
}

// ExpenseScope narrows expenses to projects where the caller holds a team
// membership. A caller with no memberships gets an empty result, never the
// unrestricted list.
func ExpenseScope(id model.Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if capsFor(id.Role).allExpenses {
			return db
		}
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.ProjectTeam{}).Select("project_id").Where("user_id = ?", id.UserID)
		return db.Where("project_id IN (?)", sub)
	}
}

// TimesheetScope narrows timesheets to the caller's own entries for team members.
func TimesheetScope(id model.Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if capsFor(id.Role).allTimesheets {
			return db
		}
		return db.Where("user_id = ?", id.UserID)
	}
}
