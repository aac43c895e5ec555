package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// CountByOrganizationNIF counts members of an organization. Used to decide
// whether a registering user becomes the organization owner.
func (r *UserRepository) CountByOrganizationNIF(ctx context.Context, nif string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("organization_nif = ?", nif).
		Count(&count).Error
	return count, err
}

// ListByOrganizationNIF returns all members of an organization ordered by
// creation time
func (r *UserRepository) ListByOrganizationNIF(ctx context.Context, nif string) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("organization_nif = ?", nif).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

// ListReviewCandidates returns the non-owner members of an organization
// that carry a department assignment. These are the people the submit
// pipeline can route review requests to.
func (r *UserRepository) ListReviewCandidates(ctx context.Context, nif string) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("organization_nif = ? AND role <> ? AND department <> ''", nif, domain.RoleOwner).
		Find(&users).Error
	return users, err
}

// ListUnaffiliated returns users that belong to no organization yet and
// can therefore be invited
func (r *UserRepository) ListUnaffiliated(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("organization_nif = '' OR organization_nif IS NULL").
		Order("email ASC").
		Find(&users).Error
	return users, err
}
