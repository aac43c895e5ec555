package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"gorm.io/gorm"
)

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) Create(ctx context.Context, proposal *domain.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := r.db.WithContext(ctx).Preload("Attachments").First(&proposal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepository) Update(ctx context.Context, proposal *domain.Proposal) error {
	return r.db.WithContext(ctx).Save(proposal).Error
}

func (r *ProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Proposal{}, "id = ?", id).Error
}

// ListByUser returns the user's own proposals, pinned first, newest first
// within each group. Department review copies are excluded; those surface
// through ListAssignedTo for their assignee.
func (r *ProposalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Proposal, error) {
	var proposals []domain.Proposal
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND assigned_to_email = ''", userID).
		Order("pinned DESC, updated_at DESC").
		Find(&proposals).Error
	return proposals, err
}

// ListAssignedTo returns the review copies assigned to an email address
func (r *ProposalRepository) ListAssignedTo(ctx context.Context, email string) ([]domain.Proposal, error) {
	var proposals []domain.Proposal
	err := r.db.WithContext(ctx).
		Where("assigned_to_email = ?", email).
		Order("updated_at DESC").
		Find(&proposals).Error
	return proposals, err
}

// GetRevisionCopy looks up a department review copy by its derived title
// and assignee
func (r *ProposalRepository) GetRevisionCopy(ctx context.Context, title, assignedToEmail string) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := r.db.WithContext(ctx).
		First(&proposal, "title = ? AND assigned_to_email = ?", title, assignedToEmail).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// UpsertRevisionCopy creates or refreshes a department review copy keyed by
// (title, assigned_to_email). Resubmitting a draft updates the existing
// copies in place instead of stacking duplicates.
func (r *ProposalRepository) UpsertRevisionCopy(ctx context.Context, copy *domain.Proposal) error {
	existing, err := r.GetRevisionCopy(ctx, copy.Title, copy.AssignedToEmail)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(copy).Error
	}
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&domain.Proposal{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"proposal_revision": copy.ProposalRevision,
			"status":            copy.Status,
			"final_draft":       copy.FinalDraft,
		}).Error
}

// UpdateRevisionContent writes the consolidated tender back into a review
// copy so every assignee sees the final document
func (r *ProposalRepository) UpdateRevisionContent(ctx context.Context, title, assignedToEmail, revision string) error {
	return r.db.WithContext(ctx).Model(&domain.Proposal{}).
		Where("title = ? AND assigned_to_email = ?", title, assignedToEmail).
		Update("proposal_revision", revision).Error
}
