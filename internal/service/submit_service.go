package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/email"
	"github.com/uniflow-app/uniflow-api/internal/genai"
	"github.com/uniflow-app/uniflow-api/internal/prompt"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmitService runs the submit-draft pipeline: identify the departments
// relevant to a draft, generate a personalized review copy for each,
// notify the contacts by email, and consolidate everything into a final
// tender document.
type SubmitService struct {
	proposalRepo *repository.ProposalRepository
	userRepo     *repository.UserRepository
	generator    genai.Generator
	dispatcher   email.Dispatcher
	logger       *zap.Logger
}

func NewSubmitService(
	proposalRepo *repository.ProposalRepository,
	userRepo *repository.UserRepository,
	generator genai.Generator,
	dispatcher email.Dispatcher,
	logger *zap.Logger,
) *SubmitService {
	return &SubmitService{
		proposalRepo: proposalRepo,
		userRepo:     userRepo,
		generator:    generator,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// SubmitDraft processes a draft submission end to end. Per-department
// email failures are tolerated and counted; generation failures on the
// classification or consolidation steps abort the pipeline. A draft with
// no relevant departments still advances to submitted.
func (s *SubmitService) SubmitDraft(ctx context.Context, userCtx *auth.UserContext, proposalID uuid.UUID) (*domain.SubmitSummaryDTO, error) {
	if s.generator == nil {
		return nil, ErrGenerationUnavailable
	}

	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load proposal: %w", err)
	}

	submitter, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	log := s.logger.With(
		zap.String("proposalId", proposalID.String()),
		zap.String("submitter", submitter.Email),
		zap.String("organizationNif", submitter.OrganizationNIF),
	)
	log.Info("submit draft started", zap.String("title", proposal.Title))

	// Step 1: build the review roster from the organization's non-owner
	// members that carry a department
	candidates, err := s.userRepo.ListReviewCandidates(ctx, submitter.OrganizationNIF)
	if err != nil {
		return nil, fmt.Errorf("failed to load review candidates: %w", err)
	}

	roster := make([]domain.DepartmentContact, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		roster = append(roster, domain.DepartmentContact{
			Name:                  c.DisplayName(),
			Department:            c.Department,
			Email:                 c.Email,
			DepartmentDescription: c.DepartmentDescription,
		})
	}
	log.Info("review roster built", zap.Int("candidates", len(roster)))

	// Step 2: ask the model which departments are relevant
	var relevant []domain.DepartmentContact
	if len(roster) > 0 {
		relevant, err = s.extractRelevantDepartments(ctx, proposal.Content, roster)
		if err != nil {
			return nil, err
		}
		log.Info("relevant departments extracted", zap.Int("relevant", len(relevant)))
	}

	// Step 3: per department, generate a personalized review copy, upsert
	// it, and notify the contact. Email failures are counted and skipped.
	var (
		contributions []domain.DepartmentContribution
		departments   []string
		emailsSent    int
		emailsFailed  int
	)
	for _, person := range relevant {
		personalized, err := s.generatePersonalizedProposal(ctx, proposal.Content, person)
		if err != nil {
			return nil, err
		}

		copyTitle := reviewCopyTitle(proposal.Title, person.Department)
		reviewCopy := &domain.Proposal{
			UserID:           proposal.UserID,
			Title:            copyTitle,
			Content:          proposal.Content,
			ProposalRevision: personalized,
			AssignedToEmail:  person.Email,
			Status:           domain.ProposalStatusRevision,
			FinalDraft:       true,
		}
		if err := s.proposalRepo.UpsertRevisionCopy(ctx, reviewCopy); err != nil {
			return nil, fmt.Errorf("failed to save review copy: %w", err)
		}

		contributions = append(contributions, domain.DepartmentContribution{
			Department:      person.Department,
			ContactName:     person.Name,
			ProposalContent: personalized,
		})
		departments = append(departments, person.Department)

		if s.dispatcher != nil {
			result := s.dispatcher.SendProposalNotification(ctx, email.ProposalNotification{
				ToEmail:       person.Email,
				RecipientName: person.Name,
				Department:    person.Department,
				ProposalTitle: proposal.Title,
				SubmittedBy:   submitter.DisplayName(),
			})
			if result.Success {
				emailsSent++
			} else {
				emailsFailed++
				log.Warn("notification email failed",
					zap.String("recipient", person.Email),
					zap.Error(result.Err))
			}
		}
	}

	// Step 4: consolidate department contributions into the final tender
	finalTender := ""
	if len(contributions) > 0 {
		finalTender, err = s.generateFinalTender(ctx, proposal.Content, submitter, contributions)
		if err != nil {
			return nil, err
		}
		log.Info("final tender generated", zap.Int("length", len(finalTender)))
	}

	// Step 5: advance the original proposal
	proposal.Status = domain.ProposalStatusSubmitted
	proposal.ProposalRevision = finalTender
	proposal.FinalDraft = true
	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to update proposal: %w", err)
	}

	// Step 6: write the final tender back into every review copy so all
	// assignees see the consolidated document
	if finalTender != "" {
		for _, person := range relevant {
			copyTitle := reviewCopyTitle(proposal.Title, person.Department)
			if err := s.proposalRepo.UpdateRevisionContent(ctx, copyTitle, person.Email, finalTender); err != nil {
				log.Warn("failed to write final tender into review copy",
					zap.String("assignee", person.Email),
					zap.Error(err))
			}
		}
	}

	log.Info("submit draft finished",
		zap.Int("emailsSent", emailsSent),
		zap.Int("emailsFailed", emailsFailed),
		zap.Bool("tenderGenerated", finalTender != ""))

	if departments == nil {
		departments = []string{}
	}

	return &domain.SubmitSummaryDTO{
		ProposalID:          proposal.ID,
		Status:              string(proposal.Status),
		RelevantDepartments: departments,
		EmailsSent:          emailsSent,
		EmailsFailed:        emailsFailed,
		TenderGenerated:     finalTender != "",
		Message:             "Draft submitted, notifications sent, and tender generated",
	}, nil
}

// reviewCopyTitle derives the title of a department review copy. The pair
// (title, assignee email) identifies the copy across resubmissions.
func reviewCopyTitle(originalTitle, department string) string {
	if department == "" {
		department = "Revision"
	}
	return originalTitle + " - " + department
}

// extractRelevantDepartments asks the model to pick the roster entries
// relevant to the draft. An unparseable reply degrades to no departments;
// a provider error aborts the submission.
func (s *SubmitService) extractRelevantDepartments(ctx context.Context, draftContent string, roster []domain.DepartmentContact) ([]domain.DepartmentContact, error) {
	rosterJSON, err := json.MarshalIndent(roster, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode roster: %w", err)
	}

	output, err := s.generator.Complete(ctx, prompt.ExtractDepartments(draftContent, string(rosterJSON)))
	if err != nil {
		return nil, err
	}

	var relevant []domain.DepartmentContact
	if err := json.Unmarshal([]byte(extractJSONBlock(output)), &relevant); err != nil {
		s.logger.Warn("could not parse department classification, proceeding with none",
			zap.Error(err))
		return nil, nil
	}
	return relevant, nil
}

func (s *SubmitService) generatePersonalizedProposal(ctx context.Context, draftContent string, person domain.DepartmentContact) (string, error) {
	output, err := s.generator.Complete(ctx, prompt.PersonalizedProposal(
		draftContent,
		person.Department,
		person.DepartmentDescription,
		person.Name,
	))
	if err != nil {
		return "", err
	}
	return genai.StripFences(output), nil
}

func (s *SubmitService) generateFinalTender(ctx context.Context, draftContent string, submitter *domain.User, contributions []domain.DepartmentContribution) (string, error) {
	output, err := s.generator.Complete(ctx, prompt.FinalTender(
		submitter.OrganizationName,
		submitter.Department,
		submitter.Name,
		draftContent,
		prompt.SummarizeContributions(contributions),
		time.Now(),
	))
	if err != nil {
		return "", err
	}
	return genai.StripFences(output), nil
}

// extractJSONBlock pulls a fenced JSON payload out of model output, or
// returns the text unchanged when no fence is present
func extractJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if start := strings.Index(text, "```json"); start >= 0 {
		rest := text[start+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if start := strings.Index(text, "```"); start >= 0 {
		rest := text[start+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	return text
}
