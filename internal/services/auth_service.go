package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/auth"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/rbac"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService struct {
	users         UserStore
	jwtSecret     string
	jwtExpiration time.Duration
	log           *zap.Logger
}

func NewAuthService(users UserStore, jwtSecret string, jwtExpiration time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		users:         users,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		log:           log,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.FullName == "" {
		return nil, fmt.Errorf("%w: username, email and full_name are required", apperr.ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperr.ErrInvalidInput)
	}
	if !rbac.IsValidRole(in.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalidInput, in.Role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username: in.Username,
		Email:    in.Email,
		FullName: in.FullName,
		Role:     in.Role,
	}
	if err := s.users.Create(ctx, u, hash); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("username", u.Username),
		zap.String("role", u.Role))
	return u, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	u, hash, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	if !u.IsActive {
		return nil, "", fmt.Errorf("%w: account disabled", apperr.ErrUnauthorized)
	}
	if !auth.VerifyPassword(hash, password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	token, err := auth.GenerateJWT(s.jwtSecret, u.ID, u.Username, u.Role, s.jwtExpiration)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
