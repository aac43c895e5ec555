package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/genai"
)

var testNow = time.Date(2026, 3, 14, 15, 4, 0, 0, time.UTC)

func newTestBuilder(maxTokens int) *Builder {
	return NewBuilder(genai.NewTokenCounter(), maxTokens)
}

// denseEstimator models encodings where short byte sequences cost many
// tokens, as multi-byte scripts do under cl100k_base
type denseEstimator struct{}

func (denseEstimator) Count(text string) int { return len(text) }

func TestBuildDraftPromptTokenDenseDraftUnderCharCap(t *testing.T) {
	b := NewBuilder(denseEstimator{}, 10000000)
	// Over the 50k token threshold while under the 200k character cap;
	// the draft must pass through whole instead of being sliced past its end
	dense := strings.Repeat("जलापूर्ति ", 6000)
	out := b.BuildDraftPrompt(DraftRequest{
		Instruction:    "Tighten the summary",
		CurrentContent: dense,
	}, testNow)

	assert.Contains(t, out, strings.TrimSpace(dense))
	assert.NotContains(t, out, "[... content truncated ...]")
}

func TestBuildDraftPromptSectionOrder(t *testing.T) {
	b := newTestBuilder(120000)
	out := b.BuildDraftPrompt(DraftRequest{
		Instruction:    "Add a water quality monitoring section",
		CurrentContent: "# Existing Draft\nBody",
		Title:          "Rural Water Supply",
		Author:         AuthorProfile{Name: "Anita Rao", Role: "editor", OrganizationName: "PHED"},
		Attachments: []AttachmentText{
			{Filename: "survey.pdf", ContentType: "application/pdf", Text: "survey data"},
		},
	}, testNow)

	draftIdx := strings.Index(out, "## Current Proposal (to be updated)")
	refIdx := strings.Index(out, "## Reference Documents")
	instrIdx := strings.Index(out, "## User Instruction")

	assert.Greater(t, draftIdx, 0)
	assert.Greater(t, refIdx, draftIdx)
	assert.Greater(t, instrIdx, refIdx)

	assert.Contains(t, out, "### File: survey.pdf")
	assert.Contains(t, out, "Content Type: application/pdf")
	assert.Contains(t, out, "(Proposal Title: Rural Water Supply)")
	assert.Contains(t, out, "Add a water quality monitoring section")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out),
		"**Generate the complete, updated Draft Proposal in Markdown format. Output ONLY the proposal document, no other text.**"))
}

func TestBuildDraftPromptDepartmentContext(t *testing.T) {
	b := newTestBuilder(120000)
	out := b.BuildDraftPrompt(DraftRequest{
		Instruction:           "Review drainage specs",
		CurrentContent:        "draft",
		Author:                AuthorProfile{Department: "Public Works"},
		DepartmentDescription: "Handles roads and drainage",
	}, testNow)

	assert.Contains(t, out, "## Department Context")
	assert.Contains(t, out, "revising this proposal for the **Public Works**")
	assert.Contains(t, out, "**Department Description:** Handles roads and drainage")
}

func TestBuildDraftPromptOmitsEmptySections(t *testing.T) {
	b := newTestBuilder(120000)
	out := b.BuildDraftPrompt(DraftRequest{Instruction: "Start a new draft"}, testNow)

	assert.NotContains(t, out, "## Current Proposal (to be updated)")
	assert.NotContains(t, out, "## Reference Documents")
	assert.NotContains(t, out, "## Department Context")
	assert.NotContains(t, out, "(Proposal Title:")
}

func TestBuildDraftPromptTruncatesOversizedDraft(t *testing.T) {
	b := newTestBuilder(10000000)
	// ~250k tokens at four chars per token, well past the 50k token limit
	huge := strings.Repeat("abcd ", 200000)
	out := b.BuildDraftPrompt(DraftRequest{
		Instruction:    "Tighten the summary",
		CurrentContent: huge,
	}, testNow)

	assert.Contains(t, out, "[... content truncated ...]")
	assert.NotContains(t, out, huge)
}

func TestBuildDraftPromptTruncatesOversizedAttachment(t *testing.T) {
	b := newTestBuilder(10000000)
	out := b.BuildDraftPrompt(DraftRequest{
		Instruction: "Summarize the survey",
		Attachments: []AttachmentText{
			{Filename: "big.pdf", ContentType: "application/pdf", Text: strings.Repeat("z", 150000)},
		},
	}, testNow)

	assert.Contains(t, out, "[... file content truncated ...]")
}

func TestBuildDraftPromptFallsBackToReducedPrompt(t *testing.T) {
	b := newTestBuilder(500)
	attachments := []AttachmentText{
		{Filename: "a.pdf", ContentType: "application/pdf", Text: strings.Repeat("a", 40000)},
		{Filename: "b.pdf", ContentType: "application/pdf", Text: "b text"},
		{Filename: "c.pdf", ContentType: "application/pdf", Text: "c text"},
		{Filename: "d.pdf", ContentType: "application/pdf", Text: "d text"},
	}
	out := b.BuildDraftPrompt(DraftRequest{
		Instruction:    "Condense everything",
		CurrentContent: strings.Repeat("draft ", 2000),
		Attachments:    attachments,
	}, testNow)

	// Reduced form drops the current draft and keeps at most three files
	assert.NotContains(t, out, "## Current Proposal (to be updated)")
	assert.Contains(t, out, "### File 1: a.pdf")
	assert.Contains(t, out, "### File 3: c.pdf")
	assert.NotContains(t, out, "d.pdf")
	assert.Contains(t, out, "[... content truncated ...]")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out),
		"**Generate the complete Draft Proposal in Markdown format. Output ONLY the proposal document.**"))
}

func TestSystemPromptPlaceholderReplacement(t *testing.T) {
	out := SystemPrompt(AuthorProfile{
		Name:             "Anita Rao",
		Role:             "editor",
		OrganizationName: "PHED Rajasthan",
		Department:       "Water Supply",
	}, testNow)

	assert.Contains(t, out, "PHED Rajasthan")
	assert.Contains(t, out, "Water Supply")
	assert.Contains(t, out, "Anita Rao, Editor")
	assert.Contains(t, out, "14 March 2026, 03:04 PM")
	assert.NotContains(t, out, "{organization_name}")
	assert.NotContains(t, out, "{prepared_by}")
	assert.NotContains(t, out, "{current_datetime}")
}

func TestSystemPromptFallbacks(t *testing.T) {
	out := SystemPrompt(AuthorProfile{}, testNow)
	assert.Contains(t, out, "[Author Name]")

	nameOnly := SystemPrompt(AuthorProfile{Name: "Ravi"}, testNow)
	assert.Contains(t, nameOnly, "Ravi")
	assert.NotContains(t, nameOnly, "Ravi,")
}

func TestSummarizeContributions(t *testing.T) {
	out := SummarizeContributions([]domain.DepartmentContribution{
		{Department: "Water Supply", ContactName: "Anita Rao", ProposalContent: "supply plan"},
		{Department: "Finance", ContactName: "Ravi Kumar", ProposalContent: "budget plan"},
	})

	assert.Contains(t, out, "### Department 1: Water Supply")
	assert.Contains(t, out, "**Contact:** Anita Rao")
	assert.Contains(t, out, "### Department 2: Finance")
	assert.Contains(t, out, "supply plan")
	assert.Contains(t, out, "budget plan")
}

func TestSummarizeContributionsEmpty(t *testing.T) {
	assert.Equal(t, "No department proposals available.", SummarizeContributions(nil))
}

func TestSummarizeContributionsRespectsBudget(t *testing.T) {
	long := strings.Repeat("x", 20000)
	out := SummarizeContributions([]domain.DepartmentContribution{
		{Department: "A", ContactName: "a", ProposalContent: long},
		{Department: "B", ContactName: "b", ProposalContent: long},
	})

	assert.Contains(t, out, "[... content summarized for context limits ...]")
	assert.Less(t, len(out), 2*len(long))
}

func TestExtractDepartmentsPromptEmbedsRoster(t *testing.T) {
	out := ExtractDepartments("draft body", `[{"name": "Anita"}]`)
	assert.Contains(t, out, "draft body")
	assert.Contains(t, out, `[{"name": "Anita"}]`)
}

func TestPersonalizedProposalDefaultsDescription(t *testing.T) {
	out := PersonalizedProposal("draft", "Finance", "", "Ravi")
	assert.Contains(t, out, "No description available")
	assert.Contains(t, out, "Finance")
	assert.Contains(t, out, "Ravi")
}

func TestFinalTenderFallbacks(t *testing.T) {
	out := FinalTender("", "", "", "draft", "proposals", testNow)
	assert.Contains(t, out, "Government Organization")
	assert.Contains(t, out, "Department")
	assert.Contains(t, out, "Executive Engineer")
	assert.Contains(t, out, "14-Mar-2026 03:04 PM")
}
