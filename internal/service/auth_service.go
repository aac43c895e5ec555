package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/mapper"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a user account and returns an access token. The first
// member of an organization becomes its owner; later members join as
// viewers until an owner or admin promotes them. Users registering without
// an organization own their own workspace.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.TokenResponse, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	role := domain.RoleViewer
	if req.OrganizationNIF == "" {
		role = domain.RoleOwner
	} else {
		count, err := s.userRepo.CountByOrganizationNIF(ctx, req.OrganizationNIF)
		if err != nil {
			return nil, fmt.Errorf("failed to count organization members: %w", err)
		}
		if count == 0 {
			role = domain.RoleOwner
		}
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:                 req.Email,
		PasswordHash:          passwordHash,
		Name:                  req.Name,
		OrganizationName:      req.OrganizationName,
		OrganizationNIF:       req.OrganizationNIF,
		Role:                  role,
		Department:            req.Department,
		DepartmentDescription: req.DepartmentDescription,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
		zap.String("organizationNif", user.OrganizationNIF),
	)

	return s.issueToken(user)
}

// Login verifies credentials and returns an access token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *domain.User) (*domain.TokenResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        *mapper.ToUserDTO(user),
	}, nil
}
