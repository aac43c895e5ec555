package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/service"
	"go.uber.org/zap"
)

// maxUploadBytes caps the total multipart memory for the chat endpoint
const maxUploadBytes = 32 << 20

type ProposalHandler struct {
	proposalService *service.ProposalService
	submitService   *service.SubmitService
	logger          *zap.Logger
}

func NewProposalHandler(proposalService *service.ProposalService, submitService *service.SubmitService, logger *zap.Logger) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		submitService:   submitService,
		logger:          logger,
	}
}

// List returns the caller's own proposals
func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	proposals, err := h.proposalService.List(r.Context(), userCtx)
	if err != nil {
		h.logger.Error("failed to list proposals", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposals)
}

// Create starts a new draft proposal
func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.CreateProposalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	proposal, err := h.proposalService.Create(r.Context(), userCtx, &req)
	if err != nil {
		h.logger.Error("failed to create proposal", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, proposal)
}

func (h *ProposalHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	proposal, err := h.proposalService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// Iterate regenerates the proposal document from a drafting instruction
func (h *ProposalHandler) Iterate(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.IterateProposalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	proposal, err := h.proposalService.Iterate(r.Context(), userCtx, id, req.Instruction)
	if err != nil {
		h.logger.Error("proposal iteration failed",
			zap.String("proposalId", id.String()),
			zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// Chat runs a drafting iteration with uploaded reference files. Accepts
// multipart form data with a "message" field and optional "files".
func (h *ProposalHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	message := r.FormValue("message")
	if message == "" {
		respondWithError(w, http.StatusBadRequest, "message is required")
		return
	}

	var files []service.UploadedFile
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Could not read uploaded file")
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Could not read uploaded file")
				return
			}

			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			files = append(files, service.UploadedFile{
				Filename:    header.Filename,
				ContentType: contentType,
				Data:        data,
			})
		}
	}

	proposal, processed, err := h.proposalService.IterateWithFiles(r.Context(), userCtx, id, message, files)
	if err != nil {
		h.logger.Error("chat iteration failed",
			zap.String("proposalId", id.String()),
			zap.Int("files", len(files)),
			zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"proposal":       proposal,
		"filesProcessed": processed,
	})
}

// Rename updates the proposal title
func (h *ProposalHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.RenameProposalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	proposal, err := h.proposalService.Rename(r.Context(), id, req.Title)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// Pin toggles the pinned flag
func (h *ProposalHandler) Pin(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	proposal, err := h.proposalService.TogglePin(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

func (h *ProposalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.proposalService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Proposal deleted successfully",
		"id":      id.String(),
	})
}

// SubmitDraft runs the review fan-out and tender consolidation pipeline
func (h *ProposalHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	summary, err := h.submitService.SubmitDraft(r.Context(), userCtx, id)
	if err != nil {
		h.logger.Error("submit draft failed",
			zap.String("proposalId", id.String()),
			zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// ListAttachments returns the attachment metadata stored for a proposal
func (h *ProposalHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	attachments, err := h.proposalService.ListAttachments(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, attachments)
}

// parseUUIDParam reads a UUID path parameter, writing a 400 on failure
func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
