package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/extract"
	"github.com/uniflow-app/uniflow-api/internal/genai"
	"github.com/uniflow-app/uniflow-api/internal/mapper"
	"github.com/uniflow-app/uniflow-api/internal/prompt"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"github.com/uniflow-app/uniflow-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UploadedFile carries one multipart upload into the drafting loop
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProposalService owns the drafting loop: proposal CRUD plus the iterate
// operation that regenerates the whole document from an instruction.
type ProposalService struct {
	proposalRepo   *repository.ProposalRepository
	userRepo       *repository.UserRepository
	attachmentRepo *repository.AttachmentRepository
	generator      genai.Generator
	prompts        *prompt.Builder
	extractor      *extract.Extractor
	store          storage.Storage
	logger         *zap.Logger
}

func NewProposalService(
	proposalRepo *repository.ProposalRepository,
	userRepo *repository.UserRepository,
	attachmentRepo *repository.AttachmentRepository,
	generator genai.Generator,
	prompts *prompt.Builder,
	extractor *extract.Extractor,
	store storage.Storage,
	logger *zap.Logger,
) *ProposalService {
	return &ProposalService{
		proposalRepo:   proposalRepo,
		userRepo:       userRepo,
		attachmentRepo: attachmentRepo,
		generator:      generator,
		prompts:        prompts,
		extractor:      extractor,
		store:          store,
		logger:         logger,
	}
}

func (s *ProposalService) Create(ctx context.Context, userCtx *auth.UserContext, req *domain.CreateProposalRequest) (*domain.ProposalDTO, error) {
	proposal := &domain.Proposal{
		UserID:  userCtx.UserID,
		Title:   req.Title,
		Content: req.Content,
		Status:  domain.ProposalStatusDraft,
	}

	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	s.logger.Info("proposal created",
		zap.String("proposalId", proposal.ID.String()),
		zap.String("title", proposal.Title),
	)

	return mapper.ToProposalDTO(proposal), nil
}

func (s *ProposalService) List(ctx context.Context, userCtx *auth.UserContext) ([]domain.ProposalSummaryDTO, error) {
	proposals, err := s.proposalRepo.ListByUser(ctx, userCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return mapper.ToProposalSummaryDTOs(proposals), nil
}

func (s *ProposalService) Get(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	proposal, err := s.getProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapper.ToProposalDTO(proposal), nil
}

func (s *ProposalService) Rename(ctx context.Context, id uuid.UUID, title string) (*domain.ProposalDTO, error) {
	proposal, err := s.getProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	proposal.Title = title
	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to rename proposal: %w", err)
	}

	return mapper.ToProposalDTO(proposal), nil
}

// TogglePin flips the pinned flag, moving the proposal to the top of its
// owner's list
func (s *ProposalService) TogglePin(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	proposal, err := s.getProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	proposal.Pinned = !proposal.Pinned
	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to pin proposal: %w", err)
	}

	return mapper.ToProposalDTO(proposal), nil
}

// Delete removes a proposal together with its stored attachment files
func (s *ProposalService) Delete(ctx context.Context, id uuid.UUID) error {
	proposal, err := s.getProposal(ctx, id)
	if err != nil {
		return err
	}

	attachments, err := s.attachmentRepo.ListByProposal(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list attachments: %w", err)
	}
	for _, att := range attachments {
		if err := s.store.Delete(ctx, att.StoragePath); err != nil {
			s.logger.Warn("failed to delete attachment file",
				zap.String("storagePath", att.StoragePath),
				zap.Error(err))
		}
	}

	if err := s.proposalRepo.Delete(ctx, proposal.ID); err != nil {
		return fmt.Errorf("failed to delete proposal: %w", err)
	}

	s.logger.Info("proposal deleted", zap.String("proposalId", id.String()))
	return nil
}

// Iterate regenerates the proposal document from the user's instruction.
// The generated document completely replaces the working text: the
// revision copy for assigned department rows, the content otherwise.
func (s *ProposalService) Iterate(ctx context.Context, userCtx *auth.UserContext, id uuid.UUID, instruction string) (*domain.ProposalDTO, error) {
	return s.iterate(ctx, userCtx, id, instruction, nil)
}

// IterateWithFiles runs one drafting iteration with uploaded reference
// documents. Text is extracted and folded into the prompt; images ride
// along on the vision path. Files are also persisted as attachments.
func (s *ProposalService) IterateWithFiles(ctx context.Context, userCtx *auth.UserContext, id uuid.UUID, instruction string, files []UploadedFile) (*domain.ProposalDTO, int, error) {
	for _, f := range files {
		if !extract.Supported(f.ContentType) {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedFileType, f.ContentType)
		}
	}

	dto, err := s.iterate(ctx, userCtx, id, instruction, files)
	if err != nil {
		return nil, 0, err
	}
	return dto, len(files), nil
}

func (s *ProposalService) iterate(ctx context.Context, userCtx *auth.UserContext, id uuid.UUID, instruction string, files []UploadedFile) (*domain.ProposalDTO, error) {
	if s.generator == nil {
		return nil, ErrGenerationUnavailable
	}

	proposal, err := s.getProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// Assigned review copies are drafted from the assignee's department
	// perspective
	department := user.Department
	departmentDescription := ""
	if proposal.IsRevisionCopy() {
		if assignee, err := s.userRepo.GetByEmail(ctx, proposal.AssignedToEmail); err == nil {
			if assignee.Department != "" {
				department = assignee.Department
			}
			departmentDescription = assignee.DepartmentDescription
		}
	}

	var (
		attachmentTexts []prompt.AttachmentText
		images          []genai.Image
	)
	for _, f := range files {
		text := s.extractor.Extract(f.Filename, f.Data, f.ContentType)
		attachmentTexts = append(attachmentTexts, prompt.AttachmentText{
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Text:        text,
		})
		if strings.HasPrefix(f.ContentType, "image/") {
			images = append(images, genai.Image{MediaType: f.ContentType, Data: f.Data})
		}
	}

	draftPrompt := s.prompts.BuildDraftPrompt(prompt.DraftRequest{
		Instruction:    instruction,
		CurrentContent: proposal.EffectiveContent(),
		Attachments:    attachmentTexts,
		Title:          proposal.Title,
		Author: prompt.AuthorProfile{
			Name:             user.DisplayName(),
			Role:             string(user.Role),
			OrganizationName: user.OrganizationName,
			Department:       department,
		},
		DepartmentDescription: departmentDescription,
	}, time.Now())

	var output string
	if len(images) > 0 {
		output, err = s.generator.CompleteWithImages(ctx, draftPrompt, images)
	} else {
		output, err = s.generator.Complete(ctx, draftPrompt)
	}
	if err != nil {
		return nil, err
	}

	newContent := genai.StripFences(output)

	if proposal.IsRevisionCopy() {
		proposal.ProposalRevision = newContent
	} else {
		proposal.Content = newContent
	}
	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}

	if len(files) > 0 {
		s.persistAttachments(ctx, proposal.ID, files)
	}

	return mapper.ToProposalDTO(proposal), nil
}

// persistAttachments stores uploaded files and their metadata. Storage
// failures are logged, not fatal: the drafting result already incorporated
// the file content.
func (s *ProposalService) persistAttachments(ctx context.Context, proposalID uuid.UUID, files []UploadedFile) {
	for _, f := range files {
		storagePath, size, err := s.store.Upload(ctx, proposalID, f.Filename, f.ContentType, bytes.NewReader(f.Data))
		if err != nil {
			s.logger.Warn("failed to store attachment",
				zap.String("filename", f.Filename),
				zap.Error(err))
			continue
		}

		attachment := &domain.Attachment{
			ProposalID:  proposalID,
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Size:        size,
			StoragePath: storagePath,
		}
		if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
			s.logger.Warn("failed to record attachment",
				zap.String("filename", f.Filename),
				zap.Error(err))
		}
	}
}

// ListAttachments returns the stored attachment metadata for a proposal
func (s *ProposalService) ListAttachments(ctx context.Context, proposalID uuid.UUID) ([]domain.AttachmentDTO, error) {
	if _, err := s.getProposal(ctx, proposalID); err != nil {
		return nil, err
	}
	attachments, err := s.attachmentRepo.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return mapper.ToAttachmentDTOs(attachments), nil
}

// MyRevisions returns the review copies assigned to the calling user
func (s *ProposalService) MyRevisions(ctx context.Context, userCtx *auth.UserContext) ([]domain.ProposalSummaryDTO, error) {
	revisions, err := s.proposalRepo.ListAssignedTo(ctx, userCtx.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return mapper.ToProposalSummaryDTOs(revisions), nil
}

// MyRevision returns a single review copy if it is assigned to the caller
func (s *ProposalService) MyRevision(ctx context.Context, userCtx *auth.UserContext, id uuid.UUID) (*domain.ProposalDTO, error) {
	proposal, err := s.getProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal.AssignedToEmail != userCtx.Email {
		return nil, ErrNotFound
	}
	return mapper.ToProposalDTO(proposal), nil
}

func (s *ProposalService) getProposal(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load proposal: %w", err)
	}
	return proposal, nil
}
