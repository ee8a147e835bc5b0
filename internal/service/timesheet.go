package service

import (
	"context"
	"fmt"
	"math"

	"oneflow/internal/model"

	"gorm.io/gorm"
)

type TimesheetService struct{ db *gorm.DB }

func NewTimesheetService(db *gorm.DB) *TimesheetService { return &TimesheetService{db: db} }

type TimesheetFilter struct {
	ProjectID int
	From, To  string // inclusive date range, YYYY-MM-DD
}

func (s *TimesheetService) List(ctx context.Context, caller model.Identity, f TimesheetFilter) ([]model.Timesheet, error) {
	q := s.db.WithContext(ctx).Scopes(TimesheetScope(caller))
	if f.ProjectID != 0 {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}
	var entries []model.Timesheet
	if err := q.Preload("User").Preload("Task").Order("date, id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list timesheets: %w", err)
	}
	return entries, nil
}

// Create records an entry for the caller, in Draft or directly Submitted.
// The entry's hours are added to the linked task straight away.
func (s *TimesheetService) Create(ctx context.Context, caller model.Identity, ts *model.Timesheet) error {
	if err := validateHours(ts.Hours); err != nil {
		return err
	}
	if ts.Status == "" {
		ts.Status = model.TimesheetDraft
	}
	if ts.Status != model.TimesheetDraft && ts.Status != model.TimesheetSubmitted {
		return fmt.Errorf("%w: new entries start as Draft or Submitted", ErrInvalid)
	}
	var task model.Task
	if err := s.db.WithContext(ctx).First(&task, ts.TaskID).Error; err != nil {
		return fmt.Errorf("%w: task %d", ErrNotFound, ts.TaskID)
	}
	ts.UserID = caller.UserID
	ts.ProjectID = task.ProjectID
	ts.Hours = roundHours(ts.Hours)
	if err := s.db.WithContext(ctx).Create(ts).Error; err != nil {
		return fmt.Errorf("create timesheet: %w", err)
	}
	return s.applyTaskHours(ctx, ts.TaskID, ts.Hours)
}

// TimesheetPatch carries the owner-editable fields; nil means keep.
type TimesheetPatch struct {
	Date     string
	Hours    *float64
	Billable *bool
}

// Update edits date/hours/billable. Owners may only touch Draft and Rejected
// entries; Submitted and Approved rows are locked to them. Admins and project
// managers may edit any state.
func (s *TimesheetService) Update(ctx context.Context, caller model.Identity, id int, in TimesheetPatch) (*model.Timesheet, error) {
	var ts model.Timesheet
	if err := s.db.WithContext(ctx).First(&ts, id).Error; err != nil {
		return nil, fmt.Errorf("%w: timesheet %d", ErrNotFound, id)
	}
	if err := s.authorizeEdit(caller, &ts); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	oldHours := ts.Hours
	if in.Date != "" {
		updates["date"] = in.Date
	}
	if in.Hours != nil && *in.Hours != ts.Hours {
		if err := validateHours(*in.Hours); err != nil {
			return nil, err
		}
		ts.Hours = roundHours(*in.Hours)
		updates["hours"] = ts.Hours
	}
	if in.Billable != nil {
		updates["billable"] = *in.Billable
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&ts).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update timesheet: %w", err)
		}
	}
	if delta := ts.Hours - oldHours; delta != 0 {
		if err := s.applyTaskHours(ctx, ts.TaskID, delta); err != nil {
			return nil, err
		}
	}
	return &ts, nil
}

// Transition moves an entry through the approval workflow. An hours value may
// accompany any legal transition and cascades into the task like an edit.
func (s *TimesheetService) Transition(ctx context.Context, caller model.Identity, id int, to string, hours *float64) (*model.Timesheet, error) {
	var ts model.Timesheet
	if err := s.db.WithContext(ctx).First(&ts, id).Error; err != nil {
		return nil, fmt.Errorf("%w: timesheet %d", ErrNotFound, id)
	}
	if err := authorizeTransition(caller, &ts, to); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": to}
	oldHours := ts.Hours
	if hours != nil && *hours != ts.Hours {
		if err := validateHours(*hours); err != nil {
			return nil, err
		}
		ts.Hours = roundHours(*hours)
		updates["hours"] = ts.Hours
	}
	if err := s.db.WithContext(ctx).Model(&ts).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("transition timesheet: %w", err)
	}
	ts.Status = to
	if delta := ts.Hours - oldHours; delta != 0 {
		if err := s.applyTaskHours(ctx, ts.TaskID, delta); err != nil {
			return nil, err
		}
	}
	return &ts, nil
}

// Delete removes the entry and takes its hours back off the task.
func (s *TimesheetService) Delete(ctx context.Context, caller model.Identity, id int) error {
	var ts model.Timesheet
	if err := s.db.WithContext(ctx).First(&ts, id).Error; err != nil {
		return fmt.Errorf("%w: timesheet %d", ErrNotFound, id)
	}
	if err := s.authorizeEdit(caller, &ts); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&ts).Error; err != nil {
		return fmt.Errorf("delete timesheet: %w", err)
	}
	return s.applyTaskHours(ctx, ts.TaskID, -ts.Hours)
}

// Summary computes the billable/non-billable split over a date range, scoped
// to the caller's visible entries.
func (s *TimesheetService) Summary(ctx context.Context, caller model.Identity, from, to string) (model.HoursSummary, error) {
	q := s.db.WithContext(ctx).Scopes(TimesheetScope(caller))
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	var entries []model.Timesheet
	if err := q.Find(&entries).Error; err != nil {
		return model.HoursSummary{}, fmt.Errorf("summary query: %w", err)
	}
	var sum model.HoursSummary
	for _, e := range entries {
		sum.TotalHours += e.Hours
		if e.Billable {
			sum.BillableHours += e.Hours
		}
	}
	sum.NonBillableHours = sum.TotalHours - sum.BillableHours
	return sum, nil
}

func (s *TimesheetService) authorizeEdit(caller model.Identity, ts *model.Timesheet) error {
	if capsFor(caller.Role).approve {
		return nil
	}
	if caller.UserID != ts.UserID {
		return fmt.Errorf("%w: not your timesheet", ErrForbidden)
	}
	if ts.Status == model.TimesheetSubmitted || ts.Status == model.TimesheetApproved {
		return fmt.Errorf("%w: %s entries are locked", ErrForbidden, ts.Status)
	}
	return nil
}

// authorizeTransition is the whole approval state machine: who may move an
// entry from its current status to the requested one.
func authorizeTransition(caller model.Identity, ts *model.Timesheet, to string) error {
	owner := caller.UserID == ts.UserID
	switch {
	case ts.Status == model.TimesheetDraft && to == model.TimesheetSubmitted:
		if !owner {
			return fmt.Errorf("%w: only the owner submits", ErrForbidden)
		}
	case ts.Status == model.TimesheetSubmitted && (to == model.TimesheetApproved || to == model.TimesheetRejected):
		if !capsFor(caller.Role).approve {
			return fmt.Errorf("%w: role cannot approve", ErrForbidden)
		}
		if owner {
			return fmt.Errorf("%w: cannot approve own timesheet", ErrForbidden)
		}
	case ts.Status == model.TimesheetRejected && to == model.TimesheetDraft:
		if !owner {
			return fmt.Errorf("%w: only the owner reworks a rejected entry", ErrForbidden)
		}
	default:
		return fmt.Errorf("%w: no transition %s -> %s", ErrInvalid, ts.Status, to)
	}
	return nil
}

// applyTaskHours adjusts the task's logged-hours total by delta, clamped at
// zero. Plain read-modify-write: two concurrent mutations of the same task
// can lose an update.
func (s *TimesheetService) applyTaskHours(ctx context.Context, taskID int, delta float64) error {
	var t model.Task
	if err := s.db.WithContext(ctx).First(&t, taskID).Error; err != nil {
		return fmt.Errorf("load task %d: %w", taskID, err)
	}
	total := roundHours(t.HoursLogged + delta)
	if total < 0 {
		total = 0
	}
	if err := s.db.WithContext(ctx).Model(&t).Update("hours_logged", total).Error; err != nil {
		return fmt.Errorf("write hours_logged: %w", err)
	}
	return nil
}

func validateHours(h float64) error {
	if h < 0 || h > 24 {
		return fmt.Errorf("%w: hours must be between 0 and 24", ErrInvalid)
	}
	return nil
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
