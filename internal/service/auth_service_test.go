package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashi-bhusan/fitpreneurs/internal/config"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository/memory"
)

func newAuth(store *memory.Store) AuthService {
	return AuthService{
		Config: config.Config{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
			AdminName:       "Owner",
			AdminEmail:      "owner@gym.test",
			AdminPassword:   "s3cret!",
		},
		Users: store.Users(),
	}
}

func TestBootstrapAdminAndLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newAuth(store)

	require.NoError(t, svc.BootstrapAdmin(ctx))
	require.NoError(t, svc.BootstrapAdmin(ctx))

	res, err := svc.Login(ctx, LoginInput{Email: "OWNER@gym.test", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)

	claims, err := svc.VerifyAccess(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	_, err = svc.VerifyAccess(res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	refreshed, err := svc.Refresh(ctx, RefreshInput{RefreshToken: res.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(ctx, RefreshInput{RefreshToken: res.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newAuth(store)
	_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Desk", Email: "desk@gym.test", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "desk@gym.test", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "ghost@gym.test", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newAuth(store)
	require.NoError(t, svc.BootstrapAdmin(ctx))
	res, err := svc.Login(ctx, LoginInput{Email: "owner@gym.test", Password: "s3cret!"})
	require.NoError(t, err)

	other := svc
	other.Config.JWTSecret = "different"
	_, err = other.VerifyAccess(res.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoogleLoginDisabledWithoutVerifier(t *testing.T) {
	svc := newAuth(memory.New())
	_, err := svc.LoginWithGoogle(context.Background(), GoogleLoginInput{IDToken: "x"})
	assert.ErrorIs(t, err, ErrGoogleLoginDisabled)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newAuth(memory.New())
	_, err := svc.CreateUser(context.Background(), CreateUserInput{Email: "a@b.c", Password: "pw", Role: "owner"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
