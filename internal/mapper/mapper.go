package mapper

import (
	"time"

	"github.com/uniflow-app/uniflow-api/internal/domain"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func ToProposalDTO(p *domain.Proposal) *domain.ProposalDTO {
	return &domain.ProposalDTO{
		ID:               p.ID,
		UserID:           p.UserID,
		Title:            p.Title,
		Content:          p.Content,
		ProposalRevision: p.ProposalRevision,
		Status:           p.Status,
		FinalDraft:       p.FinalDraft,
		AssignedToEmail:  p.AssignedToEmail,
		Pinned:           p.Pinned,
		CreatedAt:        formatTime(p.CreatedAt),
		UpdatedAt:        formatTime(p.UpdatedAt),
	}
}

func ToProposalSummaryDTO(p *domain.Proposal) domain.ProposalSummaryDTO {
	return domain.ProposalSummaryDTO{
		ID:              p.ID,
		Title:           p.Title,
		Status:          p.Status,
		FinalDraft:      p.FinalDraft,
		AssignedToEmail: p.AssignedToEmail,
		Pinned:          p.Pinned,
		CreatedAt:       formatTime(p.CreatedAt),
		UpdatedAt:       formatTime(p.UpdatedAt),
	}
}

func ToProposalSummaryDTOs(proposals []domain.Proposal) []domain.ProposalSummaryDTO {
	dtos := make([]domain.ProposalSummaryDTO, 0, len(proposals))
	for i := range proposals {
		dtos = append(dtos, ToProposalSummaryDTO(&proposals[i]))
	}
	return dtos
}

func ToActiveTenderDTO(t *domain.ActiveTender) *domain.ActiveTenderDTO {
	return &domain.ActiveTenderDTO{
		ID:                 t.ID,
		ProposalID:         t.ProposalID,
		Title:              t.Title,
		OrganizationNIF:    t.OrganizationNIF,
		Price:              t.Price,
		SubmissionDate:     formatTime(t.SubmissionDate),
		SubmissionDeadline: formatTime(t.SubmissionDeadline),
		ContractExpiryDate: formatTime(t.ContractExpiryDate),
		TenderContent:      t.TenderContent,
		CreatedBy:          t.CreatedBy,
		CreatedAt:          formatTime(t.CreatedAt),
	}
}

func ToActiveTenderDTOs(tenders []domain.ActiveTender) []domain.ActiveTenderDTO {
	dtos := make([]domain.ActiveTenderDTO, 0, len(tenders))
	for i := range tenders {
		dtos = append(dtos, *ToActiveTenderDTO(&tenders[i]))
	}
	return dtos
}

func ToAttachmentDTO(a *domain.Attachment) domain.AttachmentDTO {
	return domain.AttachmentDTO{
		ID:          a.ID,
		ProposalID:  a.ProposalID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Size:        a.Size,
		CreatedAt:   formatTime(a.CreatedAt),
	}
}

func ToAttachmentDTOs(attachments []domain.Attachment) []domain.AttachmentDTO {
	dtos := make([]domain.AttachmentDTO, 0, len(attachments))
	for i := range attachments {
		dtos = append(dtos, ToAttachmentDTO(&attachments[i]))
	}
	return dtos
}

func ToUserDTO(u *domain.User) *domain.UserDTO {
	return &domain.UserDTO{
		ID:                    u.ID,
		Email:                 u.Email,
		Name:                  u.Name,
		OrganizationName:      u.OrganizationName,
		OrganizationNIF:       u.OrganizationNIF,
		Role:                  u.Role,
		Department:            u.Department,
		DepartmentDescription: u.DepartmentDescription,
		CreatedAt:             formatTime(u.CreatedAt),
	}
}

func ToUserDTOs(users []domain.User) []domain.UserDTO {
	dtos := make([]domain.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, *ToUserDTO(&users[i]))
	}
	return dtos
}
