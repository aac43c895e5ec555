package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"gorm.io/gorm"
)

type ActiveTenderRepository struct {
	db *gorm.DB
}

func NewActiveTenderRepository(db *gorm.DB) *ActiveTenderRepository {
	return &ActiveTenderRepository{db: db}
}

func (r *ActiveTenderRepository) Create(ctx context.Context, tender *domain.ActiveTender) error {
	return r.db.WithContext(ctx).Create(tender).Error
}

func (r *ActiveTenderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ActiveTender, error) {
	var tender domain.ActiveTender
	err := r.db.WithContext(ctx).First(&tender, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tender, nil
}

func (r *ActiveTenderRepository) GetByProposalID(ctx context.Context, proposalID uuid.UUID) (*domain.ActiveTender, error) {
	var tender domain.ActiveTender
	err := r.db.WithContext(ctx).First(&tender, "proposal_id = ?", proposalID).Error
	if err != nil {
		return nil, err
	}
	return &tender, nil
}

// ExistsForProposal reports whether a proposal has already been published
func (r *ActiveTenderRepository) ExistsForProposal(ctx context.Context, proposalID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ActiveTender{}).
		Where("proposal_id = ?", proposalID).
		Count(&count).Error
	return count > 0, err
}

// ListByOrganizationNIF returns an organization's published tenders,
// newest first
func (r *ActiveTenderRepository) ListByOrganizationNIF(ctx context.Context, nif string) ([]domain.ActiveTender, error) {
	var tenders []domain.ActiveTender
	err := r.db.WithContext(ctx).
		Where("organization_nif = ?", nif).
		Order("submission_date DESC").
		Find(&tenders).Error
	return tenders, err
}

// ListWithDeadlineBetween returns tenders whose submission deadline falls
// inside the window. Used by the deadline reminder job.
func (r *ActiveTenderRepository) ListWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]domain.ActiveTender, error) {
	var tenders []domain.ActiveTender
	err := r.db.WithContext(ctx).
		Where("submission_deadline >= ? AND submission_deadline < ?", from, to).
		Find(&tenders).Error
	return tenders, err
}
