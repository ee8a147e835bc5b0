package service

import (
	"context"
	"fmt"

	"oneflow/internal/model"

	"gorm.io/gorm"
)

type ProjectService struct{ db *gorm.DB }

func NewProjectService(db *gorm.DB) *ProjectService { return &ProjectService{db: db} }

func (s *ProjectService) List(ctx context.Context, caller model.Identity) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.WithContext(ctx).
		Scopes(ProjectScope(caller)).
		Preload("Manager").
		Order("projects.id").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Get loads a project with its associations. For team members the attached
// tasks are narrowed to their own assignments; the project itself still loads
// even when none remain.
func (s *ProjectService) Get(ctx context.Context, caller model.Identity, id int) (*model.Project, error) {
	q := s.db.WithContext(ctx).
		Preload("Manager").
		Preload("Team.User").
		Preload("SalesOrders").
		Preload("PurchaseOrders").
		Preload("Expenses")
	if capsFor(caller.Role).allTasks {
		q = q.Preload("Tasks")
	} else {
		q = q.Preload("Tasks", "assigned_to = ?", caller.UserID)
	}

	var p model.Project
	if err := q.First(&p, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *ProjectService) Create(ctx context.Context, p *model.Project) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	var manager model.User
	if err := s.db.WithContext(ctx).First(&manager, p.ManagerID).Error; err != nil {
		return fmt.Errorf("%w: manager %d", ErrNotFound, p.ManagerID)
	}
	if p.Status == "" {
		p.Status = model.ProjectPlanning
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// Update patches mutable fields. A manually set status sticks until the next
// task mutation runs the deriver.
func (s *ProjectService) Update(ctx context.Context, id int, in model.Project) (*model.Project, error) {
	var p model.Project
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, fmt.Errorf("%w: project %d", ErrNotFound, id)
	}

	updates := map[string]interface{}{}
	if in.Name != "" {
		updates["name"] = in.Name
	}
	if in.Status != "" {
		updates["status"] = in.Status
	}
	if in.ManagerID != 0 {
		updates["manager_id"] = in.ManagerID
	}
	if in.Budget != 0 {
		updates["budget"] = in.Budget
	}
	if in.StartDate != "" {
		updates["start_date"] = in.StartDate
	}
	if in.EndDate != "" {
		updates["end_date"] = in.EndDate
	}
	if in.Progress != 0 {
		updates["progress"] = in.Progress
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&p).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update project: %w", err)
		}
	}
	return &p, nil
}

// Delete removes the project and everything scoped to it.
func (s *ProjectService) Delete(ctx context.Context, id int) error {
	var p model.Project
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return fmt.Errorf("%w: project %d", ErrNotFound, id)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&model.Task{}, &model.Timesheet{}, &model.SalesOrder{}, &model.PurchaseOrder{},
			&model.Expense{}, &model.CustomerInvoice{}, &model.VendorBill{},
			&model.ProjectTeam{}, &model.ProjectMessage{},
		} {
			if err := tx.Where("project_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("delete project children: %w", err)
			}
		}
		return tx.Delete(&p).Error
	})
}

// deriveStatus computes a project status from its tasks. A project with no
// tasks keeps whatever status it has. The derivation is symmetric: completing
// every task promotes to Completed, un-completing any task on a Completed
// project reverts it to Active. Manually held OnHold/Cancelled states are not
// special-cased here.
func deriveStatus(tasks []model.Task, current string) string {
	if len(tasks) == 0 {
		return current
	}
	allDone := true
	for _, t := range tasks {
		if t.Status != model.TaskDone {
			allDone = false
			break
		}
	}
	if allDone && current != model.ProjectCompleted {
		return model.ProjectCompleted
	}
	if !allDone && current == model.ProjectCompleted {
		return model.ProjectActive
	}
	return current
}

// RecalcStatus re-derives the project status from its tasks and writes it
// back when it moved. Callers run this after task mutations and swallow the
// error; a failed recompute must not fail the triggering mutation.
func (s *ProjectService) RecalcStatus(ctx context.Context, projectID int) error {
	var p model.Project
	if err := s.db.WithContext(ctx).First(&p, projectID).Error; err != nil {
		return fmt.Errorf("load project %d: %w", projectID, err)
	}
	var tasks []model.Task
	if err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	next := deriveStatus(tasks, p.Status)
	if next == p.Status {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&p).Update("status", next).Error; err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}

// Team membership.

func (s *ProjectService) ListTeam(ctx context.Context, projectID int) ([]model.ProjectTeam, error) {
	if err := s.exists(ctx, projectID); err != nil {
		return nil, err
	}
	var team []model.ProjectTeam
	err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Preload("User").Find(&team).Error
	if err != nil {
		return nil, fmt.Errorf("list team: %w", err)
	}
	return team, nil
}

func (s *ProjectService) AddMember(ctx context.Context, projectID, userID int) (*model.ProjectTeam, error) {
	if err := s.exists(ctx, projectID); err != nil {
		return nil, err
	}
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	var existing model.ProjectTeam
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: already a member", ErrInvalid)
	}
	m := model.ProjectTeam{ProjectID: projectID, UserID: userID}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return &m, nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID int) error {
	res := s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectTeam{})
	if res.Error != nil {
		return fmt.Errorf("remove member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: membership", ErrNotFound)
	}
	return nil
}

func (s *ProjectService) exists(ctx context.Context, projectID int) error {
	var p model.Project
	if err := s.db.WithContext(ctx).Select("id").First(&p, projectID).Error; err != nil {
		return fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	return nil
}
