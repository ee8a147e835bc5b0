package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"oneflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	codes   []string
	welcome []string
	fail    bool
}

func (m *fakeMailer) SendOTPEmail(email, code, name string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.codes = append(m.codes, code)
	return nil
}

func (m *fakeMailer) SendWelcomeEmail(email, name string) error {
	m.welcome = append(m.welcome, email)
	return nil
}

func TestSignupVerifyLogin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mail := &fakeMailer{}
	svc := NewAuthService(db, mail)

	require.NoError(t, svc.Signup(ctx, "Ada", "ada@oneflow.test", "hunter22"))
	require.Len(t, mail.codes, 1)

	// not active yet
	_, err := svc.Login(ctx, "ada@oneflow.test", "hunter22")
	assert.Error(t, err)

	u, err := svc.VerifyOTP(ctx, "ada@oneflow.test", mail.codes[0])
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.Equal(t, model.RoleTeamMember, u.Role)

	got, err := svc.Login(ctx, "ada@oneflow.test", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, "ada@oneflow.test", "wrong")
	assert.Error(t, err)
}

func TestSignupSurfacesEmailFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, &fakeMailer{fail: true})
	err := svc.Signup(context.Background(), "Ada", "ada@oneflow.test", "hunter22")
	assert.Error(t, err)
}

func TestResendSupersedesOldCode(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mail := &fakeMailer{}
	svc := NewAuthService(db, mail)

	require.NoError(t, svc.Signup(ctx, "Ada", "ada@oneflow.test", "hunter22"))
	require.NoError(t, svc.ResendOTP(ctx, "ada@oneflow.test"))
	require.Len(t, mail.codes, 2)

	var count int64
	db.Model(&model.OTP{}).Where("email = ?", "ada@oneflow.test").Count(&count)
	assert.EqualValues(t, 1, count)

	// old code is gone unless it happens to collide with the new one
	if mail.codes[0] != mail.codes[1] {
		_, err := svc.VerifyOTP(ctx, "ada@oneflow.test", mail.codes[0])
		assert.ErrorIs(t, err, ErrInvalid)
	}

	_, err := svc.VerifyOTP(ctx, "ada@oneflow.test", mail.codes[1])
	require.NoError(t, err)
}

func TestVerifyExpiredCode(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewAuthService(db, &fakeMailer{})

	u := model.User{Name: "Ada", Email: "ada@oneflow.test", Role: model.RoleTeamMember}
	require.NoError(t, db.Create(&u).Error)
	otp := model.OTP{Email: u.Email, Code: "123456", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, db.Create(&otp).Error)

	_, err := svc.VerifyOTP(ctx, u.Email, "123456")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSignupRejectsActiveEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewAuthService(db, &fakeMailer{})

	seedUser(t, db, "taken", model.RoleTeamMember)
	err := svc.Signup(ctx, "Imposter", "taken@oneflow.test", "hunter22")
	assert.ErrorIs(t, err, ErrInvalid)
}
