package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserDisplayName(t *testing.T) {
	named := &User{Name: "Anita Rao", Email: "anita.rao@example.org"}
	assert.Equal(t, "Anita Rao", named.DisplayName())

	dotted := &User{Email: "rajesh.kumar@example.org"}
	assert.Equal(t, "Rajesh Kumar", dotted.DisplayName())

	underscored := &User{Email: "site_engineer@example.org"}
	assert.Equal(t, "Site Engineer", underscored.DisplayName())

	plain := &User{Email: "admin@example.org"}
	assert.Equal(t, "Admin", plain.DisplayName())
}

func TestProposalEffectiveContent(t *testing.T) {
	owner := &Proposal{Content: "original", ProposalRevision: "revised"}
	assert.Equal(t, "original", owner.EffectiveContent(),
		"owner drafts always operate on content")

	copyWithRevision := &Proposal{
		Content:          "original",
		ProposalRevision: "revised",
		AssignedToEmail:  "reviewer@example.org",
	}
	assert.Equal(t, "revised", copyWithRevision.EffectiveContent())

	copyWithoutRevision := &Proposal{
		Content:         "original",
		AssignedToEmail: "reviewer@example.org",
	}
	assert.Equal(t, "original", copyWithoutRevision.EffectiveContent())
}

func TestProposalIsRevisionCopy(t *testing.T) {
	assert.False(t, (&Proposal{}).IsRevisionCopy())
	assert.True(t, (&Proposal{AssignedToEmail: "reviewer@example.org"}).IsRevisionCopy())
}

func TestUserRoleTypeIsValid(t *testing.T) {
	for _, role := range []UserRoleType{RoleOwner, RoleAdmin, RoleEditor, RoleViewer} {
		assert.True(t, role.IsValid(), string(role))
	}
	assert.False(t, UserRoleType("superuser").IsValid())
	assert.False(t, UserRoleType("").IsValid())
}

func TestProposalStatusIsValid(t *testing.T) {
	for _, status := range []ProposalStatus{
		ProposalStatusDraft, ProposalStatusRevision,
		ProposalStatusSubmitted, ProposalStatusPublished,
	} {
		assert.True(t, status.IsValid(), string(status))
	}
	assert.False(t, ProposalStatus("archived").IsValid())
}
