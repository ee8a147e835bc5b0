package service

import (
	"context"
	"fmt"

	"oneflow/internal/logger"
	"oneflow/internal/model"

	"gorm.io/gorm"
)

type TaskService struct {
	db       *gorm.DB
	projects *ProjectService
}

func NewTaskService(db *gorm.DB, projects *ProjectService) *TaskService {
	return &TaskService{db: db, projects: projects}
}

type TaskFilter struct {
	ProjectID int
	Status    string
}

func (s *TaskService) List(ctx context.Context, caller model.Identity, f TaskFilter) ([]model.Task, error) {
	q := s.db.WithContext(ctx).Scopes(TaskScope(caller))
	if f.ProjectID != 0 {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var tasks []model.Task
	if err := q.Preload("Assignee").Order("id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id int) (*model.Task, error) {
	var t model.Task
	if err := s.db.WithContext(ctx).Preload("Assignee").First(&t, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

func (s *TaskService) Create(ctx context.Context, t *model.Task) error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if err := s.projects.exists(ctx, t.ProjectID); err != nil {
		return err
	}
	if t.Status == "" {
		t.Status = model.TaskNew
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	s.recalcProject(ctx, t.ProjectID)
	return nil
}

func (s *TaskService) Update(ctx context.Context, id int, in model.Task) (*model.Task, error) {
	var t model.Task
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
	}

	updates := map[string]interface{}{}
	if in.Name != "" {
		updates["name"] = in.Name
	}
	if in.Status != "" {
		updates["status"] = in.Status
	}
	if in.AssignedTo != nil {
		updates["assigned_to"] = *in.AssignedTo
	}
	if in.EstimatedHours != 0 {
		updates["estimated_hours"] = in.EstimatedHours
	}
	if in.Priority != "" {
		updates["priority"] = in.Priority
	}
	if in.DueDate != "" {
		updates["due_date"] = in.DueDate
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&t).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update task: %w", err)
		}
	}
	s.recalcProject(ctx, t.ProjectID)
	return &t, nil
}

func (s *TaskService) Delete(ctx context.Context, id int) error {
	var t model.Task
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	if err := s.db.WithContext(ctx).Delete(&t).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.recalcProject(ctx, t.ProjectID)
	return nil
}

// recalcProject keeps the project status in step with task completion. The
// task mutation already succeeded, so a failed recompute is only logged.
func (s *TaskService) recalcProject(ctx context.Context, projectID int) {
	if err := s.projects.RecalcStatus(ctx, projectID); err != nil {
		logger.Error("project.status.recalc failed", "project_id", projectID, "err", err)
	}
}
