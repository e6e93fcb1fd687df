package service_test

import (
	"context"
	"testing"

	"dailymart/internal/config"
	"dailymart/internal/dto"
	"dailymart/internal/model"
	"dailymart/internal/repository"
	"dailymart/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func authCfg() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func seedUser(repo *stubUserRepo, username, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	repo.users[u.ID] = u
	return u
}

func TestLogin(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "owner", "secret123", "admin")
	svc := service.NewAuthService(repo, authCfg())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "owner", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "admin", resp.User.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "owner", "secret123", "admin")
	svc := service.NewAuthService(repo, authCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "owner", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := service.NewAuthService(newStubUserRepo(), authCfg())
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRefresh_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "owner", "secret123", "admin")
	svc := service.NewAuthService(repo, authCfg())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "owner", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "owner", refreshed.User.Username)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc := service.NewAuthService(newStubUserRepo(), authCfg())
	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(repo, "owner", "secret123", "admin")
	svc := service.NewAuthService(repo, authCfg())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "owner", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(context.Background(), u.ID))
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestCreateUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, authCfg())

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "cashier1",
		Name:     "Counter One",
		Password: "longenough",
		Role:     "cashier",
	})
	require.NoError(t, err)
	assert.Equal(t, "cashier", resp.Role)
	assert.True(t, resp.Active)

	// Stored hash must verify, and must not be the raw password.
	stored, err := repo.FindByUsername(context.Background(), "cashier1")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
}
