package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniflow-app/uniflow-api/internal/config"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/extract"
	"github.com/uniflow-app/uniflow-api/internal/genai"
	"github.com/uniflow-app/uniflow-api/internal/prompt"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"github.com/uniflow-app/uniflow-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newProposalService(t *testing.T, db *gorm.DB, gen genai.Generator) *ProposalService {
	t.Helper()
	store, err := storage.NewStorage(&config.StorageConfig{
		Mode:          "local",
		LocalBasePath: t.TempDir(),
	}, zap.NewNop())
	require.NoError(t, err)

	return NewProposalService(
		repository.NewProposalRepository(db),
		repository.NewUserRepository(db),
		repository.NewAttachmentRepository(db),
		gen,
		prompt.NewBuilder(genai.NewTokenCounter(), 120000),
		extract.NewExtractor(zap.NewNop()),
		store,
		zap.NewNop(),
	)
}

func TestProposalCreateAndList(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, &domain.User{Email: "author@example.org"})
	svc := newProposalService(t, db, nil)

	dto, err := svc.Create(context.Background(), userContextFor(user), &domain.CreateProposalRequest{
		Title:   "Village Roads",
		Content: "",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusDraft, dto.Status)

	list, err := svc.List(context.Background(), userContextFor(user))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Village Roads", list[0].Title)
}

func TestProposalListExcludesReviewCopies(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, &domain.User{Email: "author@example.org"})
	repo := repository.NewProposalRepository(db)

	require.NoError(t, repo.Create(context.Background(), &domain.Proposal{
		UserID: user.ID, Title: "Own Draft", Content: "x", Status: domain.ProposalStatusDraft,
	}))
	require.NoError(t, repo.Create(context.Background(), &domain.Proposal{
		UserID: user.ID, Title: "Own Draft - Finance", Content: "x",
		AssignedToEmail: "finance@example.org", Status: domain.ProposalStatusRevision,
	}))

	svc := newProposalService(t, db, nil)
	list, err := svc.List(context.Background(), userContextFor(user))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Own Draft", list[0].Title)
}

func TestProposalListPinnedFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, &domain.User{Email: "author@example.org"})
	repo := repository.NewProposalRepository(db)

	require.NoError(t, repo.Create(context.Background(), &domain.Proposal{
		UserID: user.ID, Title: "Older", Content: "x", Status: domain.ProposalStatusDraft,
	}))
	pinned := &domain.Proposal{
		UserID: user.ID, Title: "Pinned", Content: "x", Status: domain.ProposalStatusDraft, Pinned: true,
	}
	require.NoError(t, repo.Create(context.Background(), pinned))

	svc := newProposalService(t, db, nil)
	list, err := svc.List(context.Background(), userContextFor(user))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Pinned", list[0].Title)
}

func TestIterateWithoutGenerator(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, &domain.User{Email: "author@example.org"})
	repo := repository.NewProposalRepository(db)
	proposal := &domain.Proposal{UserID: user.ID, Title: "Draft", Content: "x", Status: domain.ProposalStatusDraft}
	require.NoError(t, repo.Create(context.Background(), proposal))

	svc := newProposalService(t, db, nil)
	_, err := svc.Iterate(context.Background(), userContextFor(user), proposal.ID, "expand")
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestIterateReplacesContent(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, &domain.User{Email: "author@example.org", Name: "Author"})
	repo := repository.NewProposalRepository(db)
	proposal := &domain.Proposal{UserID: user.ID, Title: "Draft", Content: "old body", Status: domain.ProposalStatusDraft}
	require.NoError(t, repo.Create(context.Background(), proposal))

	gen := &fakeGenerator{complete: func(p string) (string, error) {
		assert.Contains(t, p, "old body")
		assert.Contains(t, p, "make it formal")
		return "```markdown\n# New Document\n```", nil
	}}
	svc := newProposalService(t, db, gen)

	dto, err := svc.Iterate(context.Background(), userContextFor(user), proposal.ID, "make it formal")
	require.NoError(t, err)
	assert.Equal(t, "# New Document", dto.Content, "fences are stripped before saving")
	assert.Empty(t, dto.ProposalRevision)
}

func TestIterateOnReviewCopyWritesRevision(t *testing.T) {
	db := newTestDB(t)
	reviewer := createTestUser(t, db, &domain.User{
		Email:                 "reviewer@example.org",
		Department:            "Water Supply",
		DepartmentDescription: "Handles water infrastructure",
	})
	repo := repository.NewProposalRepository(db)
	copy := &domain.Proposal{
		UserID:           reviewer.ID,
		Title:            "Draft - Water Supply",
		Content:          "original",
		ProposalRevision: "personalized",
		AssignedToEmail:  "reviewer@example.org",
		Status:           domain.ProposalStatusRevision,
	}
	require.NoError(t, repo.Create(context.Background(), copy))

	gen := &fakeGenerator{complete: func(p string) (string, error) {
		// Review copies iterate on the personalized revision with the
		// assignee's department context
		assert.Contains(t, p, "personalized")
		assert.Contains(t, p, "Handles water infrastructure")
		return "updated revision", nil
	}}
	svc := newProposalService(t, db, gen)

	dto, err := svc.Iterate(context.Background(), userContextFor(reviewer), copy.ID, "refine")
	require.NoError(t, err)
	assert.Equal(t, "updated revision", dto.ProposalRevision)
	assert.Equal(t, "original", dto.Content, "the shared original stays untouched")
}

func TestIterateWithFilesRejectsUnsupportedType(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, &domain.User{Email: "author@example.org"})
	svc := newProposalService(t, db, &fakeGenerator{complete: func(string) (string, error) { return "", nil }})

	_, _, err := svc.IterateWithFiles(context.Background(), userContextFor(user), uuid.New(), "use this", []UploadedFile{
		{Filename: "malware.exe", ContentType: "application/x-msdownload", Data: []byte{0x4d}},
	})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestMyRevisionAccessControl(t *testing.T) {
	db := newTestDB(t)
	reviewer := createTestUser(t, db, &domain.User{Email: "reviewer@example.org"})
	stranger := createTestUser(t, db, &domain.User{Email: "stranger@example.org"})
	repo := repository.NewProposalRepository(db)

	copy := &domain.Proposal{
		UserID:          reviewer.ID,
		Title:           "Draft - Finance",
		Content:         "x",
		AssignedToEmail: "reviewer@example.org",
		Status:          domain.ProposalStatusRevision,
	}
	require.NoError(t, repo.Create(context.Background(), copy))

	svc := newProposalService(t, db, nil)

	mine, err := svc.MyRevision(context.Background(), userContextFor(reviewer), copy.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft - Finance", mine.Title)

	_, err = svc.MyRevision(context.Background(), userContextFor(stranger), copy.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameAndTogglePin(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, &domain.User{Email: "author@example.org"})
	repo := repository.NewProposalRepository(db)
	proposal := &domain.Proposal{UserID: user.ID, Title: "Old Name", Content: "x", Status: domain.ProposalStatusDraft}
	require.NoError(t, repo.Create(context.Background(), proposal))

	svc := newProposalService(t, db, nil)

	renamed, err := svc.Rename(context.Background(), proposal.ID, "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", renamed.Title)

	pinnedDTO, err := svc.TogglePin(context.Background(), proposal.ID)
	require.NoError(t, err)
	assert.True(t, pinnedDTO.Pinned)

	unpinnedDTO, err := svc.TogglePin(context.Background(), proposal.ID)
	require.NoError(t, err)
	assert.False(t, unpinnedDTO.Pinned)
}

func TestDeleteRemovesProposal(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, &domain.User{Email: "author@example.org"})
	repo := repository.NewProposalRepository(db)
	proposal := &domain.Proposal{UserID: user.ID, Title: "Doomed", Content: "x", Status: domain.ProposalStatusDraft}
	require.NoError(t, repo.Create(context.Background(), proposal))

	svc := newProposalService(t, db, nil)
	require.NoError(t, svc.Delete(context.Background(), proposal.ID))

	_, err := svc.Get(context.Background(), proposal.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
