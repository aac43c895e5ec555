package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses

type ProposalDTO struct {
	ID               uuid.UUID      `json:"id"`
	UserID           uuid.UUID      `json:"userId"`
	Title            string         `json:"title"`
	Content          string         `json:"content"`
	ProposalRevision string         `json:"proposalRevision,omitempty"`
	Status           ProposalStatus `json:"status"`
	FinalDraft       bool           `json:"finalDraft"`
	AssignedToEmail  string         `json:"assignedToEmail,omitempty"`
	Pinned           bool           `json:"pinned"`
	CreatedAt        string         `json:"createdAt"` // ISO 8601
	UpdatedAt        string         `json:"updatedAt"` // ISO 8601
}

// ProposalSummaryDTO is the list view without document bodies
type ProposalSummaryDTO struct {
	ID              uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	Status          ProposalStatus `json:"status"`
	FinalDraft      bool           `json:"finalDraft"`
	AssignedToEmail string         `json:"assignedToEmail,omitempty"`
	Pinned          bool           `json:"pinned"`
	CreatedAt       string         `json:"createdAt"`
	UpdatedAt       string         `json:"updatedAt"`
}

type ActiveTenderDTO struct {
	ID                 uuid.UUID `json:"id"`
	ProposalID         uuid.UUID `json:"proposalId"`
	Title              string    `json:"title"`
	OrganizationNIF    string    `json:"organizationNif"`
	Price              int       `json:"price"`
	SubmissionDate     string    `json:"submissionDate"`     // ISO 8601
	SubmissionDeadline string    `json:"submissionDeadline"` // ISO 8601
	ContractExpiryDate string    `json:"contractExpiryDate"` // ISO 8601
	TenderContent      string    `json:"tenderContent"`
	CreatedBy          string    `json:"createdBy"`
	CreatedAt          string    `json:"createdAt"`
}

type AttachmentDTO struct {
	ID          uuid.UUID `json:"id"`
	ProposalID  uuid.UUID `json:"proposalId"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   string    `json:"createdAt"`
}

type UserDTO struct {
	ID                    uuid.UUID    `json:"id"`
	Email                 string       `json:"email"`
	Name                  string       `json:"name"`
	OrganizationName      string       `json:"organizationName,omitempty"`
	OrganizationNIF       string       `json:"organizationNif,omitempty"`
	Role                  UserRoleType `json:"role"`
	Department            string       `json:"department,omitempty"`
	DepartmentDescription string       `json:"departmentDescription,omitempty"`
	CreatedAt             string       `json:"createdAt"`
}

// SubmitSummaryDTO reports the outcome of a draft submission
type SubmitSummaryDTO struct {
	ProposalID          uuid.UUID `json:"proposalId"`
	Status              string    `json:"status"`
	RelevantDepartments []string  `json:"relevantDepartments"`
	EmailsSent          int       `json:"emailsSent"`
	EmailsFailed        int       `json:"emailsFailed"`
	TenderGenerated     bool      `json:"tenderGenerated"`
	Message             string    `json:"message,omitempty"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// API Response wrapper
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}

// Auth DTOs

type RegisterRequest struct {
	Email                 string `json:"email" validate:"required,email,max=255"`
	Password              string `json:"password" validate:"required,min=8,max=128"`
	Name                  string `json:"name" validate:"required,max=200"`
	OrganizationName      string `json:"organizationName,omitempty" validate:"max=200"`
	OrganizationNIF       string `json:"organizationNif,omitempty" validate:"max=50"`
	Department            string `json:"department,omitempty" validate:"max=200"`
	DepartmentDescription string `json:"departmentDescription,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string  `json:"accessToken"`
	TokenType   string  `json:"tokenType"`
	User        UserDTO `json:"user"`
}

// Proposal request DTOs

type CreateProposalRequest struct {
	Title   string `json:"title" validate:"required,max=500"`
	Content string `json:"content"`
}

type IterateProposalRequest struct {
	Instruction string `json:"instruction" validate:"required,max=10000"`
}

type RenameProposalRequest struct {
	Title string `json:"title" validate:"required,max=500"`
}

// Organization DTOs

// OrganizationDTO is the organization view derived from its members
type OrganizationDTO struct {
	Name         string `json:"name"`
	NIF          string `json:"nif"`
	MembersCount int    `json:"membersCount"`
}

type AvailableUserDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type AddMemberRequest struct {
	UserID                uuid.UUID    `json:"userId" validate:"required"`
	Role                  UserRoleType `json:"role" validate:"required,oneof=owner admin editor viewer"`
	Department            string       `json:"department,omitempty" validate:"max=200"`
	DepartmentDescription string       `json:"departmentDescription,omitempty"`
}

type UpdateMemberRoleRequest struct {
	Role                  UserRoleType `json:"role" validate:"required,oneof=owner admin editor viewer"`
	Department            string       `json:"department,omitempty" validate:"max=200"`
	DepartmentDescription string       `json:"departmentDescription,omitempty"`
}

// TenderExtractionDTO holds the title and price pulled out of a tender
// document when publishing
type TenderExtractionDTO struct {
	Title string `json:"title"`
	Price int    `json:"price"`
}

// HealthStatusDTO reports which optional services are configured
type HealthStatusDTO struct {
	Status       string `json:"status"`
	AIConfigured bool   `json:"aiConfigured"`
	EmailEnabled bool   `json:"emailEnabled"`
}
