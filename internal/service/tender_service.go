package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/genai"
	"github.com/uniflow-app/uniflow-api/internal/mapper"
	"github.com/uniflow-app/uniflow-api/internal/prompt"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TenderDates are the auto-calculated dates of a published tender
type TenderDates struct {
	SubmissionDate     time.Time
	SubmissionDeadline time.Time
	ContractExpiryDate time.Time
}

// ComputeTenderDates derives the bid deadline (one week out) and contract
// expiry (one year out) from the submission date.
func ComputeTenderDates(submissionDate time.Time) TenderDates {
	return TenderDates{
		SubmissionDate:     submissionDate,
		SubmissionDeadline: submissionDate.Add(7 * 24 * time.Hour),
		ContractExpiryDate: submissionDate.Add(365 * 24 * time.Hour),
	}
}

// TenderService publishes consolidated tender documents and serves the
// published list
type TenderService struct {
	tenderRepo   *repository.ActiveTenderRepository
	proposalRepo *repository.ProposalRepository
	generator    genai.Generator
	logger       *zap.Logger
	now          func() time.Time
}

func NewTenderService(
	tenderRepo *repository.ActiveTenderRepository,
	proposalRepo *repository.ProposalRepository,
	generator genai.Generator,
	logger *zap.Logger,
) *TenderService {
	return &TenderService{
		tenderRepo:   tenderRepo,
		proposalRepo: proposalRepo,
		generator:    generator,
		logger:       logger,
		now:          time.Now,
	}
}

// Publish turns a proposal's consolidated document into an immutable
// active tender. Title and price are extracted by the model; any
// extraction failure falls back to the proposal title and a zero price
// rather than blocking publication.
func (s *TenderService) Publish(ctx context.Context, userCtx *auth.UserContext, proposalID uuid.UUID) (*domain.ActiveTenderDTO, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load proposal: %w", err)
	}

	tenderContent := proposal.ProposalRevision
	if tenderContent == "" {
		tenderContent = proposal.Content
	}
	if tenderContent == "" {
		return nil, ErrNoContent
	}

	exists, err := s.tenderRepo.ExistsForProposal(ctx, proposal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing tender: %w", err)
	}
	if exists {
		return nil, ErrAlreadyPublished
	}

	if userCtx.OrganizationNIF == "" {
		return nil, ErrNoOrganizationNIF
	}

	extraction := s.extractTenderFields(ctx, tenderContent, proposal.Title)
	dates := ComputeTenderDates(s.now().UTC())

	tender := &domain.ActiveTender{
		ProposalID:         proposal.ID,
		Title:              extraction.Title,
		OrganizationNIF:    userCtx.OrganizationNIF,
		Price:              extraction.Price,
		SubmissionDate:     dates.SubmissionDate,
		SubmissionDeadline: dates.SubmissionDeadline,
		ContractExpiryDate: dates.ContractExpiryDate,
		TenderContent:      tenderContent,
		CreatedBy:          userCtx.Email,
	}

	if err := s.tenderRepo.Create(ctx, tender); err != nil {
		return nil, fmt.Errorf("failed to create tender: %w", err)
	}

	proposal.Status = domain.ProposalStatusPublished
	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to update proposal status: %w", err)
	}

	s.logger.Info("tender published",
		zap.String("tenderId", tender.ID.String()),
		zap.String("proposalId", proposal.ID.String()),
		zap.String("title", tender.Title),
		zap.Int("price", tender.Price),
	)

	return mapper.ToActiveTenderDTO(tender), nil
}

// List returns the calling user's organization tenders, newest first
func (s *TenderService) List(ctx context.Context, userCtx *auth.UserContext) ([]domain.ActiveTenderDTO, error) {
	if userCtx.OrganizationNIF == "" {
		return []domain.ActiveTenderDTO{}, nil
	}
	tenders, err := s.tenderRepo.ListByOrganizationNIF(ctx, userCtx.OrganizationNIF)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenders: %w", err)
	}
	return mapper.ToActiveTenderDTOs(tenders), nil
}

func (s *TenderService) Get(ctx context.Context, id uuid.UUID) (*domain.ActiveTenderDTO, error) {
	tender, err := s.tenderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load tender: %w", err)
	}
	return mapper.ToActiveTenderDTO(tender), nil
}

// extractTenderFields asks the model for the tender's title and price.
// Every failure path degrades: provider errors and bad JSON fall back to
// the first markdown heading or the proposal title, with a zero price.
func (s *TenderService) extractTenderFields(ctx context.Context, tenderContent, proposalTitle string) domain.TenderExtractionDTO {
	fallback := domain.TenderExtractionDTO{Title: proposalTitle, Price: 0}

	if s.generator == nil {
		return fallback
	}

	output, err := s.generator.Complete(ctx, prompt.ExtractTenderFields(tenderContent))
	if err != nil {
		s.logger.Warn("tender field extraction failed, using fallback", zap.Error(err))
		return fallback
	}

	var raw struct {
		Title string          `json:"title"`
		Price json.RawMessage `json:"price"`
	}
	if err := json.Unmarshal([]byte(genai.StripFences(output)), &raw); err != nil {
		s.logger.Warn("could not parse tender extraction, using heading fallback", zap.Error(err))
		return domain.TenderExtractionDTO{Title: headingTitle(tenderContent), Price: 0}
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = "Untitled Tender"
	}
	if len(title) > 500 {
		title = title[:500]
	}

	return domain.TenderExtractionDTO{Title: title, Price: coercePrice(raw.Price)}
}

// headingTitle takes the first markdown heading of the document, or a
// generic placeholder
func headingTitle(content string) string {
	firstLine := strings.TrimSpace(strings.SplitN(content, "\n", 2)[0])
	if strings.HasPrefix(firstLine, "#") {
		title := strings.TrimSpace(strings.TrimLeft(firstLine, "#"))
		if title != "" {
			if len(title) > 500 {
				title = title[:500]
			}
			return title
		}
	}
	return "Untitled Tender"
}

// coercePrice accepts the integer the prompt asks for, but also tolerates
// floats and digit-bearing strings since models do not always comply
func coercePrice(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var asInt int
	if err := json.Unmarshal(raw, &asInt); err == nil {
		return asInt
	}

	var asFloat float64
	if err := json.Unmarshal(raw, &asFloat); err == nil {
		return int(asFloat)
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		digits := strings.Builder{}
		for _, r := range asString {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		if digits.Len() > 0 {
			if v, err := strconv.Atoi(digits.String()); err == nil {
				return v
			}
		}
	}

	return 0
}
