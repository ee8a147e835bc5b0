package service

import (
	"context"
	"fmt"

	"oneflow/internal/model"

	"gorm.io/gorm"
)

// Broadcaster fans an event out to a project's chat room. Delivery is best
// effort; the message row is already persisted when it runs.
type Broadcaster interface {
	Broadcast(projectID int, event string, payload any)
}

type MessageService struct {
	db *gorm.DB
	rt Broadcaster
}

func NewMessageService(db *gorm.DB, rt Broadcaster) *MessageService {
	return &MessageService{db: db, rt: rt}
}

func (s *MessageService) List(ctx context.Context, projectID int) ([]model.ProjectMessage, error) {
	var p model.Project
	if err := s.db.WithContext(ctx).Select("id").First(&p, projectID).Error; err != nil {
		return nil, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	var msgs []model.ProjectMessage
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at, id").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// Create persists the message first, then broadcasts it to the room.
func (s *MessageService) Create(ctx context.Context, caller model.Identity, m *model.ProjectMessage) error {
	if m.Text == "" && m.Attachment == "" {
		return fmt.Errorf("%w: empty message", ErrInvalid)
	}
	var p model.Project
	if err := s.db.WithContext(ctx).Select("id").First(&p, m.ProjectID).Error; err != nil {
		return fmt.Errorf("%w: project %d", ErrNotFound, m.ProjectID)
	}
	m.UserID = caller.UserID
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	s.db.WithContext(ctx).Preload("User").First(m, m.ID)
	s.rt.Broadcast(m.ProjectID, "new-message", m)
	return nil
}

// Delete is allowed for the author, admins and project managers.
func (s *MessageService) Delete(ctx context.Context, caller model.Identity, id int) error {
	var m model.ProjectMessage
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return fmt.Errorf("%w: message %d", ErrNotFound, id)
	}
	if m.UserID != caller.UserID && !capsFor(caller.Role).manageTeam {
		return fmt.Errorf("%w: not your message", ErrForbidden)
	}
	if err := s.db.WithContext(ctx).Delete(&m).Error; err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	s.rt.Broadcast(m.ProjectID, "delete-message", map[string]int{"id": m.ID, "project_id": m.ProjectID})
	return nil
}
