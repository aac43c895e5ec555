package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestComputeTenderDates(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	dates := ComputeTenderDates(base)

	assert.Equal(t, base, dates.SubmissionDate)
	assert.Equal(t, base.AddDate(0, 0, 7), dates.SubmissionDeadline)
	assert.Equal(t, 365*24*time.Hour, dates.ContractExpiryDate.Sub(base))
}

func TestComputeTenderDatesAcrossLeapDay(t *testing.T) {
	// 2028 is a leap year; the expiry horizon is a fixed 365 days, so it
	// lands one calendar day short of the anniversary
	base := time.Date(2028, 1, 15, 0, 0, 0, 0, time.UTC)
	dates := ComputeTenderDates(base)
	assert.Equal(t, time.Date(2029, 1, 14, 0, 0, 0, 0, time.UTC), dates.ContractExpiryDate)
}

func seedTenderFixture(t *testing.T, db *gorm.DB, revision string) (*domain.User, *domain.Proposal) {
	t.Helper()
	user := createTestUser(t, db, &domain.User{
		Email:           "publisher@example.org",
		Name:            "Meera Shah",
		OrganizationNIF: testNIF,
		Role:            domain.RoleOwner,
	})
	proposal := &domain.Proposal{
		UserID:           user.ID,
		Title:            "Rural Water Supply",
		Content:          "# Original Draft",
		ProposalRevision: revision,
		Status:           domain.ProposalStatusSubmitted,
	}
	require.NoError(t, repository.NewProposalRepository(db).Create(context.Background(), proposal))
	return user, proposal
}

func newTenderService(db *gorm.DB, gen *fakeGenerator) *TenderService {
	svc := NewTenderService(
		repository.NewActiveTenderRepository(db),
		repository.NewProposalRepository(db),
		gen,
		zap.NewNop(),
	)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestPublishCreatesTender(t *testing.T) {
	db := newTestDB(t)
	user, proposal := seedTenderFixture(t, db, "# Consolidated Tender")

	gen := &fakeGenerator{complete: func(string) (string, error) {
		return `{"title": "Rural Water Supply Tender", "price": 2500000}`, nil
	}}
	svc := newTenderService(db, gen)

	dto, err := svc.Publish(context.Background(), userContextFor(user), proposal.ID)
	require.NoError(t, err)

	assert.Equal(t, "Rural Water Supply Tender", dto.Title)
	assert.Equal(t, 2500000, dto.Price)
	assert.Equal(t, testNIF, dto.OrganizationNIF)
	assert.Equal(t, "# Consolidated Tender", dto.TenderContent)
	assert.Equal(t, "publisher@example.org", dto.CreatedBy)

	updated, err := repository.NewProposalRepository(db).GetByID(context.Background(), proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusPublished, updated.Status)
}

func TestPublishFallsBackToContentWithoutRevision(t *testing.T) {
	db := newTestDB(t)
	user, proposal := seedTenderFixture(t, db, "")

	gen := &fakeGenerator{complete: func(string) (string, error) {
		return `{"title": "T", "price": 0}`, nil
	}}
	svc := newTenderService(db, gen)

	dto, err := svc.Publish(context.Background(), userContextFor(user), proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, "# Original Draft", dto.TenderContent)
}

func TestPublishRejectsEmptyDocument(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, &domain.User{
		Email:           "publisher@example.org",
		OrganizationNIF: testNIF,
		Role:            domain.RoleOwner,
	})
	proposal := &domain.Proposal{UserID: user.ID, Title: "Empty", Content: "", Status: domain.ProposalStatusDraft}
	require.NoError(t, repository.NewProposalRepository(db).Create(context.Background(), proposal))

	svc := newTenderService(db, &fakeGenerator{complete: func(string) (string, error) { return "", nil }})
	_, err := svc.Publish(context.Background(), userContextFor(user), proposal.ID)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestPublishRejectsSecondPublication(t *testing.T) {
	db := newTestDB(t)
	user, proposal := seedTenderFixture(t, db, "# Tender")

	gen := &fakeGenerator{complete: func(string) (string, error) {
		return `{"title": "T", "price": 1}`, nil
	}}
	svc := newTenderService(db, gen)

	_, err := svc.Publish(context.Background(), userContextFor(user), proposal.ID)
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), userContextFor(user), proposal.ID)
	assert.ErrorIs(t, err, ErrAlreadyPublished)
}

func TestPublishRequiresOrganizationNIF(t *testing.T) {
	db := newTestDB(t)
	user, proposal := seedTenderFixture(t, db, "# Tender")

	userCtx := userContextFor(user)
	userCtx.OrganizationNIF = ""

	svc := newTenderService(db, &fakeGenerator{complete: func(string) (string, error) { return "", nil }})
	_, err := svc.Publish(context.Background(), userCtx, proposal.ID)
	assert.ErrorIs(t, err, ErrNoOrganizationNIF)
}

func TestPublishExtractionErrorFallsBackToProposalTitle(t *testing.T) {
	db := newTestDB(t)
	user, proposal := seedTenderFixture(t, db, "# Tender")

	gen := &fakeGenerator{complete: func(string) (string, error) {
		return "", errors.New("provider unavailable")
	}}
	svc := newTenderService(db, gen)

	dto, err := svc.Publish(context.Background(), userContextFor(user), proposal.ID)
	require.NoError(t, err, "extraction failures must not block publication")
	assert.Equal(t, "Rural Water Supply", dto.Title)
	assert.Equal(t, 0, dto.Price)
}

func TestPublishUnparseableExtractionUsesHeading(t *testing.T) {
	db := newTestDB(t)
	user, proposal := seedTenderFixture(t, db, "# Water Pipeline Works\n\nBody")

	gen := &fakeGenerator{complete: func(string) (string, error) {
		return "sorry, no JSON today", nil
	}}
	svc := newTenderService(db, gen)

	dto, err := svc.Publish(context.Background(), userContextFor(user), proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Water Pipeline Works", dto.Title)
}

func TestHeadingTitle(t *testing.T) {
	assert.Equal(t, "Main Title", headingTitle("# Main Title\nbody"))
	assert.Equal(t, "Deep Title", headingTitle("### Deep Title"))
	assert.Equal(t, "Untitled Tender", headingTitle("no heading here"))
	assert.Equal(t, "Untitled Tender", headingTitle("#"))
	assert.Equal(t, "Untitled Tender", headingTitle(""))
}

func TestCoercePrice(t *testing.T) {
	assert.Equal(t, 500000, coercePrice(json.RawMessage(`500000`)))
	assert.Equal(t, 499, coercePrice(json.RawMessage(`499.99`)))
	assert.Equal(t, 125000, coercePrice(json.RawMessage(`"Rs. 1,25,000"`)))
	assert.Equal(t, 0, coercePrice(json.RawMessage(`"no digits"`)))
	assert.Equal(t, 0, coercePrice(json.RawMessage(`true`)))
	assert.Equal(t, 0, coercePrice(nil))
}
