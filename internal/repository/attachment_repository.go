package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *AttachmentRepository) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Attachment{}, "id = ?", id).Error
}
