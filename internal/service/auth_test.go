package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	s := NewAuthService(users, testSecret)
	ctx := context.Background()

	resp, err := s.Register(ctx, "Maya@Example.com", "Maya", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.UserID)
	assert.Equal(t, "Maya", resp.DisplayName)

	// Email is normalized, password is verified against the hash.
	login, err := s.Login(ctx, "maya@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, login.UserID)

	_, err = s.Login(ctx, "maya@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	s := NewAuthService(newFakeUserRepo(), testSecret)
	ctx := context.Background()

	_, err := s.Register(ctx, "not-an-email", "x", "longenoughpassword")
	assert.True(t, IsValidation(err))

	_, err = s.Register(ctx, "a@b.com", "x", "short")
	assert.True(t, IsValidation(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := NewAuthService(newFakeUserRepo(), testSecret)
	ctx := context.Background()

	_, err := s.Register(ctx, "maya@example.com", "Maya", "longenoughpassword")
	require.NoError(t, err)

	_, err = s.Register(ctx, "maya@example.com", "Maya Again", "longenoughpassword")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterDefaultDisplayName(t *testing.T) {
	s := NewAuthService(newFakeUserRepo(), testSecret)

	resp, err := s.Register(context.Background(), "maya@example.com", "", "longenoughpassword")
	require.NoError(t, err)
	assert.Equal(t, "maya", resp.DisplayName)
}

func TestValidateToken(t *testing.T) {
	s := NewAuthService(newFakeUserRepo(), testSecret)

	resp, err := s.Register(context.Background(), "maya@example.com", "Maya", "longenoughpassword")
	require.NoError(t, err)

	claims, err := s.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)

	_, err = s.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A token signed with a different secret is rejected.
	other := NewAuthService(newFakeUserRepo(), "other-secret")
	_, err = other.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
