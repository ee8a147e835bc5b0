package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"oneflow/internal/logger"
	"oneflow/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpTTL = 10 * time.Minute

// Mailer delivers account emails. Failures are the caller's problem only for
// the signup OTP; everything else is fire-and-forget.
type Mailer interface {
	SendOTPEmail(email, code, name string) error
	SendWelcomeEmail(email, name string) error
}

type AuthService struct {
	db     *gorm.DB
	mailer Mailer
}

func NewAuthService(db *gorm.DB, mailer Mailer) *AuthService {
	return &AuthService{db: db, mailer: mailer}
}

// Signup registers an inactive account and dispatches a verification OTP.
// A failed OTP email fails the whole signup, there is nothing else the user
// could act on.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) error {
	var existing model.User
	lookupErr := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case lookupErr == nil && existing.IsActive:
		return fmt.Errorf("%w: email already registered", ErrInvalid)
	case lookupErr != nil && lookupErr != gorm.ErrRecordNotFound:
		return fmt.Errorf("lookup user: %w", lookupErr)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if lookupErr == nil {
		// unverified signup retried, refresh the record
		updates := map[string]interface{}{"name": name, "password": string(hash)}
		if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update user: %w", err)
		}
	} else {
		u := model.User{Name: name, Email: email, Password: string(hash), Role: model.RoleTeamMember}
		if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
	}

	code, err := s.issueOTP(ctx, email)
	if err != nil {
		return err
	}
	if err := s.mailer.SendOTPEmail(email, code, name); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

// issueOTP supersedes any previous codes for the email.
func (s *AuthService) issueOTP(ctx context.Context, email string) (string, error) {
	if err := s.db.WithContext(ctx).Where("email = ?", email).Delete(&model.OTP{}).Error; err != nil {
		return "", fmt.Errorf("clear old otp: %w", err)
	}
	code := generateOTP()
	otp := model.OTP{Email: email, Code: code, ExpiresAt: time.Now().Add(otpTTL)}
	if err := s.db.WithContext(ctx).Create(&otp).Error; err != nil {
		return "", fmt.Errorf("create otp: %w", err)
	}
	return code, nil
}

// VerifyOTP activates the account and returns the user. The welcome email is
// fire-and-forget.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*model.User, error) {
	var otp model.OTP
	err := s.db.WithContext(ctx).
		Where("email = ? AND code = ? AND verified = ?", email, code, false).
		First(&otp).Error
	if err != nil {
		return nil, fmt.Errorf("%w: invalid code", ErrInvalid)
	}
	if time.Now().After(otp.ExpiresAt) {
		return nil, fmt.Errorf("%w: code expired", ErrInvalid)
	}

	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if err := s.db.WithContext(ctx).Model(&otp).Update("verified", true).Error; err != nil {
		return nil, fmt.Errorf("mark otp verified: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&u).Update("is_active", true).Error; err != nil {
		return nil, fmt.Errorf("activate user: %w", err)
	}
	u.IsActive = true

	go func() {
		if err := s.mailer.SendWelcomeEmail(u.Email, u.Name); err != nil {
			logger.Warn("welcome email failed", "email", u.Email, "err", err)
		}
	}()
	return &u, nil
}

// ResendOTP issues a fresh code for an unverified account.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	if u.IsActive {
		return fmt.Errorf("%w: account already verified", ErrInvalid)
	}
	code, err := s.issueOTP(ctx, email)
	if err != nil {
		return err
	}
	if err := s.mailer.SendOTPEmail(email, code, u.Name); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if !u.IsActive {
		return nil, fmt.Errorf("account not verified")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("wrong password")
	}
	return &u, nil
}

func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}
