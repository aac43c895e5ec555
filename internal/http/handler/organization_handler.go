package handler

import (
	"net/http"

	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/service"
	"go.uber.org/zap"
)

type OrganizationHandler struct {
	orgService *service.OrganizationService
	logger     *zap.Logger
}

func NewOrganizationHandler(orgService *service.OrganizationService, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService, logger: logger}
}

// Get returns the caller's organization summary
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	org, err := h.orgService.Get(r.Context(), userCtx)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, org)
}

// ListMembers lists organization members, optionally filtered by role
func (h *OrganizationHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	members, err := h.orgService.ListMembers(r.Context(), userCtx, r.URL.Query().Get("role"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, members)
}

// ListAvailableUsers lists users that can be invited into the organization
func (h *OrganizationHandler) ListAvailableUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.orgService.ListAvailableUsers(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// AddMember pulls an unaffiliated user into the organization
func (h *OrganizationHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.AddMemberRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	member, err := h.orgService.AddMember(r.Context(), userCtx, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, member)
}

// UpdateMemberRole changes a member's role and department profile
func (h *OrganizationHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	memberID, ok := parseUUIDParam(w, r, "memberId")
	if !ok {
		return
	}

	var req domain.UpdateMemberRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	member, err := h.orgService.UpdateMemberRole(r.Context(), userCtx, memberID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, member)
}

// RemoveMember detaches a member from the organization
func (h *OrganizationHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	memberID, ok := parseUUIDParam(w, r, "memberId")
	if !ok {
		return
	}

	if err := h.orgService.RemoveMember(r.Context(), userCtx, memberID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Member removed successfully"})
}
