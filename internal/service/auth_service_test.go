package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evntly/event-platform/internal/auth"
	"github.com/evntly/event-platform/internal/model"
	"github.com/evntly/event-platform/internal/repository"
)

func newAuthService() (*AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(repository.NewMemoryStore().Users(), tokens), tokens
}

func TestSignupAndLogin(t *testing.T) {
	svc, tokens := newAuthService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, model.SignupRequest{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", resp.User.Email, "email is normalized")
	assert.NotEmpty(t, resp.Token)

	userID, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)

	login, err := svc.Login(ctx, model.LoginRequest{Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  model.SignupRequest
	}{
		{"missing name", model.SignupRequest{Email: "a@b.com", Password: "hunter22"}},
		{"bad email", model.SignupRequest{Name: "Ada", Email: "not-an-email", Password: "hunter22"}},
		{"short password", model.SignupRequest{Name: "Ada", Email: "a@b.com", Password: "abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tc.req)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, model.SignupRequest{Name: "Ada", Email: "a@b.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, model.SignupRequest{Name: "Eve", Email: "a@b.com", Password: "hunter22"})
	require.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, model.SignupRequest{Name: "Ada", Email: "a@b.com", Password: "hunter22"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, resp.User.ID, model.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, resp.User.ID, model.ChangePasswordRequest{
		CurrentPassword: "hunter22",
		NewPassword:     "new-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "a@b.com", Password: "new-password"})
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, model.SignupRequest{Name: "Ada", Email: "a@b.com", Password: "hunter22"})
	require.NoError(t, err)

	user, err := svc.UpdateProfile(ctx, resp.User.ID, model.UpdateProfileRequest{
		Name:  "Ada L",
		Email: "ada@b.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", user.Name)
	assert.Equal(t, "ada@b.com", user.Email)
}
