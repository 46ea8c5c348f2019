package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fairwaylabs/caddie-api/internal/dto"
	"github.com/fairwaylabs/caddie-api/internal/models"
	"github.com/fairwaylabs/caddie-api/internal/repository"
)

func newAuthFixture(t *testing.T, name string) AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:auth_"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	return NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour, zerolog.Nop())
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc := newAuthFixture(t, "register")

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "golfer@example.com",
		Password: "long-enough-password",
		Name:     "Jordan",
	})
	require.NoError(t, err)
	require.Equal(t, "golfer@example.com", resp.User.Email)
	require.Equal(t, models.TierFree, resp.User.SubscriptionTier)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthFixture(t, "duplicate")

	req := dto.RegisterRequest{Email: "golfer@example.com", Password: "long-enough-password", Name: "Jordan"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginChecksPassword(t *testing.T) {
	svc := newAuthFixture(t, "login")

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "golfer@example.com",
		Password: "long-enough-password",
		Name:     "Jordan",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "golfer@example.com", Password: "long-enough-password"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "golfer@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "long-enough-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMeReturnsStoredProfile(t *testing.T) {
	svc := newAuthFixture(t, "me")

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "golfer@example.com",
		Password: "long-enough-password",
		Name:     "Jordan",
	})
	require.NoError(t, err)

	me, err := svc.Me(context.Background(), resp.User.ID)
	require.NoError(t, err)
	require.Equal(t, "Jordan", me.Name)

	_, err = svc.Me(context.Background(), resp.User.ID+99)
	require.ErrorIs(t, err, ErrUserNotFound)
}
