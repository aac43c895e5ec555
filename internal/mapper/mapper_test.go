package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/uniflow-app/uniflow-api/internal/domain"
)

func TestFormatTime(t *testing.T) {
	assert.Empty(t, formatTime(time.Time{}))

	ts := time.Date(2026, 3, 14, 15, 4, 5, 0, time.FixedZone("IST", 5*3600+1800))
	assert.Equal(t, "2026-03-14T09:34:05Z", formatTime(ts))
}

func TestToProposalSummaryDTOsEmpty(t *testing.T) {
	dtos := ToProposalSummaryDTOs(nil)
	assert.NotNil(t, dtos, "handlers serialize this directly, so nil would render as JSON null")
	assert.Empty(t, dtos)
}

func TestToProposalDTO(t *testing.T) {
	id := uuid.New()
	p := &domain.Proposal{
		BaseModel:        domain.BaseModel{ID: id},
		Title:            "Draft",
		Content:          "body",
		ProposalRevision: "revised",
		Status:           domain.ProposalStatusRevision,
		AssignedToEmail:  "reviewer@example.org",
		Pinned:           true,
	}

	dto := ToProposalDTO(p)
	assert.Equal(t, id, dto.ID)
	assert.Equal(t, "revised", dto.ProposalRevision)
	assert.Equal(t, domain.ProposalStatusRevision, dto.Status)
	assert.True(t, dto.Pinned)
	assert.Empty(t, dto.CreatedAt, "zero timestamps render as empty strings")
}
