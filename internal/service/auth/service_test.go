package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/pkg/auth"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
)

type fakeUsers struct {
	byUsername map[string]*model.User
	nextID     int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byUsername: map[string]*model.User{}, nextID: 1}
}

func (f *fakeUsers) Create(ctx context.Context, user *model.User) error {
	user.ID = f.nextID
	f.nextID++
	f.byUsername[user.Username] = user
	return nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func newTestService() (*Service, *fakeUsers) {
	users := newFakeUsers()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	return NewService(users, jwtSvc), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()

	tokens, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "nurse1",
		Email:    "nurse1@clinic.test",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)
	assert.Equal(t, "nurse1", tokens.Username)

	login, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "nurse1",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(login.Access)
	require.NoError(t, err)
	assert.Equal(t, "nurse1", claims.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "nurse1", Email: "a@clinic.test", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &model.RegisterRequest{
		Username: "nurse1", Email: "b@clinic.test", Password: "s3cret-pass",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "nurse1", Email: "a@clinic.test", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Username: "nurse1", Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "ghost", Password: "whatever",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestPasswordsStoredHashed(t *testing.T) {
	svc, users := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "nurse1", Email: "a@clinic.test", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	stored := users.byUsername["nurse1"]
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}
