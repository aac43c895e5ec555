package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the database has no uuid default (sqlite)
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// UserRoleType represents a role a user can have within their organization
type UserRoleType string

const (
	RoleOwner  UserRoleType = "owner"
	RoleAdmin  UserRoleType = "admin"
	RoleEditor UserRoleType = "editor"
	RoleViewer UserRoleType = "viewer"
)

// IsValid checks if the UserRoleType is a valid enum value
func (r UserRoleType) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// User represents a registered user. Organization membership is carried on the
// user row: everyone sharing an organization NIF belongs to the same
// organization, and the first registered user becomes its owner.
type User struct {
	BaseModel
	Email                 string       `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash          string       `gorm:"type:varchar(255);not null;column:password_hash"`
	Name                  string       `gorm:"type:varchar(200);not null"`
	OrganizationName      string       `gorm:"type:varchar(200);column:organization_name"`
	OrganizationNIF       string       `gorm:"type:varchar(50);index;column:organization_nif"`
	Role                  UserRoleType `gorm:"type:varchar(50);not null;default:'viewer'"`
	Department            string       `gorm:"type:varchar(200)"`
	DepartmentDescription string       `gorm:"type:text;column:department_description"`
	Proposals             []Proposal   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// DisplayName returns the user's name, falling back to the email local part
// with dots and underscores spaced out and title-cased.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	local := u.Email
	if at := strings.Index(local, "@"); at >= 0 {
		local = local[:at]
	}
	local = strings.NewReplacer(".", " ", "_", " ").Replace(local)
	parts := strings.Fields(local)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// ProposalStatus represents where a proposal sits in the drafting lifecycle
type ProposalStatus string

const (
	ProposalStatusDraft     ProposalStatus = "draft"
	ProposalStatusRevision  ProposalStatus = "revision"
	ProposalStatusSubmitted ProposalStatus = "submitted"
	ProposalStatusPublished ProposalStatus = "published"
)

// IsValid checks if the ProposalStatus is a valid enum value
func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusDraft, ProposalStatusRevision, ProposalStatusSubmitted, ProposalStatusPublished:
		return true
	}
	return false
}

// Proposal represents a problem statement being drafted into a tender.
// Department review copies created during submission are Proposal rows with
// AssignedToEmail set; their title is "<original title> - <department>" and
// the (title, assigned_to_email) pair is the upsert key, so resubmitting the
// same proposal updates the existing review copies instead of creating
// duplicates.
type Proposal struct {
	BaseModel
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id"`
	User             *User          `gorm:"foreignKey:UserID"`
	Title            string         `gorm:"type:varchar(500);not null;index:idx_proposals_title_assignee;index:idx_proposals_review_copy,unique,where:assigned_to_email <> ''"`
	Content          string         `gorm:"type:text;not null"`
	ProposalRevision string         `gorm:"type:text;column:proposal_revision"`
	Status           ProposalStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	FinalDraft       bool           `gorm:"not null;default:false;column:final_draft"`
	AssignedToEmail  string         `gorm:"type:varchar(255);index:idx_proposals_title_assignee;index:idx_proposals_review_copy,unique,where:assigned_to_email <> '';column:assigned_to_email"`
	Pinned           bool           `gorm:"not null;default:false"`
	Attachments      []Attachment   `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE"`
}

// EffectiveContent returns the text the drafting loop operates on: the
// revision copy for assigned department rows that already hold one, the
// original content otherwise.
func (p *Proposal) EffectiveContent() string {
	if p.AssignedToEmail != "" && p.ProposalRevision != "" {
		return p.ProposalRevision
	}
	return p.Content
}

// IsRevisionCopy reports whether this row is a department review copy
func (p *Proposal) IsRevisionCopy() bool {
	return p.AssignedToEmail != ""
}

// ActiveTender represents a published tender. Rows are immutable after
// creation; the unique index on proposal_id enforces at most one tender per
// proposal.
type ActiveTender struct {
	BaseModel
	ProposalID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:proposal_id"`
	Proposal           *Proposal `gorm:"foreignKey:ProposalID"`
	Title              string    `gorm:"type:varchar(500);not null"`
	OrganizationNIF    string    `gorm:"type:varchar(50);not null;index;column:organization_nif"`
	Price              int       `gorm:"not null;default:0"`
	SubmissionDate     time.Time `gorm:"not null;column:submission_date"`
	SubmissionDeadline time.Time `gorm:"not null;column:submission_deadline"`
	ContractExpiryDate time.Time `gorm:"not null;column:contract_expiry_date"`
	TenderContent      string    `gorm:"type:text;not null;column:tender_content"`
	CreatedBy          string    `gorm:"type:varchar(255);not null;column:created_by"`
}

// Attachment represents an uploaded reference document attached to a proposal.
// Raw bytes live in the storage backend; only metadata is persisted.
type Attachment struct {
	BaseModel
	ProposalID  uuid.UUID `gorm:"type:uuid;not null;index;column:proposal_id"`
	Proposal    *Proposal `gorm:"foreignKey:ProposalID"`
	Filename    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64     `gorm:"not null"`
	StoragePath string    `gorm:"type:varchar(500);not null;unique;column:storage_path"`
}

// DepartmentContact is a derived view of an organization member eligible for
// review fan-out. It is computed from the roster, never persisted.
type DepartmentContact struct {
	Name                  string `json:"name"`
	Department            string `json:"department"`
	Email                 string `json:"email"`
	DepartmentDescription string `json:"department_description"`
}

// DepartmentContribution holds one department's reviewed proposal text,
// collected during submission for final tender consolidation.
type DepartmentContribution struct {
	Department      string
	ContactName     string
	ProposalContent string
}
