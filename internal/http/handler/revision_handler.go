package handler

import (
	"net/http"

	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/service"
	"go.uber.org/zap"
)

// RevisionHandler serves the review copies assigned to the current user
type RevisionHandler struct {
	proposalService *service.ProposalService
	logger          *zap.Logger
}

func NewRevisionHandler(proposalService *service.ProposalService, logger *zap.Logger) *RevisionHandler {
	return &RevisionHandler{proposalService: proposalService, logger: logger}
}

// MyRevisions lists the review copies assigned to the caller
func (h *RevisionHandler) MyRevisions(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	revisions, err := h.proposalService.MyRevisions(r.Context(), userCtx)
	if err != nil {
		h.logger.Error("failed to list revisions", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, revisions)
}

// MyRevision returns one review copy if assigned to the caller
func (h *RevisionHandler) MyRevision(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	revision, err := h.proposalService.MyRevision(r.Context(), userCtx, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, revision)
}
