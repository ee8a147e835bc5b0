package service

import (
	"context"
	"fmt"

	"oneflow/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct{ db *gorm.DB }

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return &u, nil
}

// Create provisions an account directly, already active, no OTP round-trip.
func (s *UserService) Create(ctx context.Context, u *model.User, password string) error {
	if u.Name == "" || u.Email == "" || password == "" {
		return fmt.Errorf("%w: name, email and password are required", ErrInvalid)
	}
	var existing model.User
	if err := s.db.WithContext(ctx).Where("email = ?", u.Email).First(&existing).Error; err == nil {
		return fmt.Errorf("%w: email already registered", ErrInvalid)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)
	if u.Role == "" {
		u.Role = model.RoleTeamMember
	}
	u.IsActive = true
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserService) Update(ctx context.Context, id int, in model.User) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	updates := map[string]interface{}{}
	if in.Name != "" {
		updates["name"] = in.Name
	}
	if in.Role != "" {
		updates["role"] = in.Role
	}
	if in.HourlyRate != 0 {
		updates["hourly_rate"] = in.HourlyRate
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&u).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return &u, nil
}

// Delete removes the account unless it manages a project, in which case it is
// deactivated instead so the project's manager reference stays valid.
func (s *UserService) Delete(ctx context.Context, id int) error {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	var managed int64
	if err := s.db.WithContext(ctx).Model(&model.Project{}).
		Where("manager_id = ?", id).Count(&managed).Error; err != nil {
		return fmt.Errorf("count managed projects: %w", err)
	}
	if managed > 0 {
		return wrap("deactivate user", s.db.WithContext(ctx).Model(&u).Update("is_active", false).Error)
	}
	return wrap("delete user", s.db.WithContext(ctx).Delete(&u).Error)
}
