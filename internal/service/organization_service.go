package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/mapper"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrganizationService manages organization membership. Organizations are
// derived from the users table: everyone sharing an organization NIF is a
// member, there is no separate organizations table.
type OrganizationService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewOrganizationService(userRepo *repository.UserRepository, logger *zap.Logger) *OrganizationService {
	return &OrganizationService{userRepo: userRepo, logger: logger}
}

// Get returns the calling user's organization summary
func (s *OrganizationService) Get(ctx context.Context, userCtx *auth.UserContext) (*domain.OrganizationDTO, error) {
	count, err := s.userRepo.CountByOrganizationNIF(ctx, userCtx.OrganizationNIF)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	name := user.OrganizationName
	if name == "" {
		name = "Organization"
	}
	nif := user.OrganizationNIF
	if nif == "" {
		nif = "-"
	}

	return &domain.OrganizationDTO{
		Name:         name,
		NIF:          nif,
		MembersCount: int(count),
	}, nil
}

// ListMembers returns the organization's members, optionally filtered by
// role. An empty or "all" role filter returns everyone.
func (s *OrganizationService) ListMembers(ctx context.Context, userCtx *auth.UserContext, roleFilter string) ([]domain.UserDTO, error) {
	members, err := s.userRepo.ListByOrganizationNIF(ctx, userCtx.OrganizationNIF)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	if roleFilter != "" && roleFilter != "all" {
		filtered := members[:0]
		for _, m := range members {
			if string(m.Role) == roleFilter {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}

	return mapper.ToUserDTOs(members), nil
}

// ListAvailableUsers returns users that belong to no organization and can
// be added as members
func (s *OrganizationService) ListAvailableUsers(ctx context.Context) ([]domain.AvailableUserDTO, error) {
	users, err := s.userRepo.ListUnaffiliated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list available users: %w", err)
	}

	dtos := make([]domain.AvailableUserDTO, 0, len(users))
	for _, u := range users {
		name := u.Name
		if name == "" {
			name = u.Email
		}
		dtos = append(dtos, domain.AvailableUserDTO{ID: u.ID, Name: name, Email: u.Email})
	}
	return dtos, nil
}

// AddMember pulls an unaffiliated user into the caller's organization with
// the given role. Owner or admin only.
func (s *OrganizationService) AddMember(ctx context.Context, userCtx *auth.UserContext, req *domain.AddMemberRequest) (*domain.UserDTO, error) {
	if !userCtx.CanManageMembers() {
		return nil, ErrPermissionDenied
	}
	if !req.Role.IsValid() {
		return nil, ErrInvalidInput
	}

	caller, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load caller: %w", err)
	}

	target, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	target.OrganizationName = caller.OrganizationName
	target.OrganizationNIF = caller.OrganizationNIF
	target.Role = req.Role
	if req.Department != "" {
		target.Department = req.Department
	}
	if req.DepartmentDescription != "" {
		target.DepartmentDescription = req.DepartmentDescription
	}

	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.logger.Info("member added to organization",
		zap.String("member", target.Email),
		zap.String("role", string(target.Role)),
		zap.String("organizationNif", target.OrganizationNIF),
	)

	return mapper.ToUserDTO(target), nil
}

// UpdateMemberRole changes a member's role and department profile. Owner or
// admin only.
func (s *OrganizationService) UpdateMemberRole(ctx context.Context, userCtx *auth.UserContext, memberID uuid.UUID, req *domain.UpdateMemberRoleRequest) (*domain.UserDTO, error) {
	if !userCtx.CanManageMembers() {
		return nil, ErrPermissionDenied
	}
	if !req.Role.IsValid() {
		return nil, ErrInvalidInput
	}

	target, err := s.userRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	target.Role = req.Role
	if req.Department != "" {
		target.Department = req.Department
	}
	if req.DepartmentDescription != "" {
		target.DepartmentDescription = req.DepartmentDescription
	}

	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return mapper.ToUserDTO(target), nil
}

// RemoveMember detaches a member from the organization and demotes them to
// viewer. Owner or admin only.
func (s *OrganizationService) RemoveMember(ctx context.Context, userCtx *auth.UserContext, memberID uuid.UUID) error {
	if !userCtx.CanManageMembers() {
		return ErrPermissionDenied
	}

	target, err := s.userRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load member: %w", err)
	}

	target.OrganizationName = ""
	target.OrganizationNIF = ""
	target.Role = domain.RoleViewer

	if err := s.userRepo.Update(ctx, target); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.logger.Info("member removed from organization", zap.String("member", target.Email))

	return nil
}
