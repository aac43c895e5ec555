package handler

import (
	"net/http"

	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/service"
	"go.uber.org/zap"
)

type TenderHandler struct {
	tenderService *service.TenderService
	logger        *zap.Logger
}

func NewTenderHandler(tenderService *service.TenderService, logger *zap.Logger) *TenderHandler {
	return &TenderHandler{tenderService: tenderService, logger: logger}
}

// Publish turns a proposal's consolidated document into an active tender
func (h *TenderHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	tender, err := h.tenderService.Publish(r.Context(), userCtx, id)
	if err != nil {
		h.logger.Error("tender publication failed",
			zap.String("proposalId", id.String()),
			zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tender)
}

// List returns the organization's published tenders
func (h *TenderHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	tenders, err := h.tenderService.List(r.Context(), userCtx)
	if err != nil {
		h.logger.Error("failed to list tenders", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tenders)
}

func (h *TenderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	tender, err := h.tenderService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tender)
}
