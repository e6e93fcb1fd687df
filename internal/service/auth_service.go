package service

import (
	"context"
	"errors"
	"time"

	"dailymart/internal/config"
	"dailymart/internal/domain"
	"dailymart/internal/dto"
	"dailymart/internal/model"
	"dailymart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		// Same answer for unknown user and wrong password.
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, domain.StoreErr(err)
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.StoreErr(err)
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	return s.repo.Deactivate(ctx, id)
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         userToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
	}
}
