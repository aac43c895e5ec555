package prompt

import (
	"fmt"
	"strings"
	"time"
)

const (
	// contentTokenLimit is the token threshold above which the current
	// draft is truncated before entering the prompt
	contentTokenLimit = 50000
	// contentCharLimit is the character count the draft is cut to when it
	// exceeds contentTokenLimit
	contentCharLimit = 200000
	// attachmentCharLimit caps each attachment's extracted text in the
	// full prompt
	attachmentCharLimit = 100000
	// reducedAttachmentCharLimit caps attachments in the reduced prompt
	reducedAttachmentCharLimit = 30000
	// reducedAttachmentCount limits how many attachments survive into the
	// reduced prompt
	reducedAttachmentCount = 3

	contentTruncatedMarker = "\n\n[... content truncated ...]"
	fileTruncatedMarker    = "\n\n[... file content truncated ...]"
)

// AttachmentText is an attachment's extracted text as seen by the prompt
type AttachmentText struct {
	Filename    string
	ContentType string
	Text        string
}

// DraftRequest carries everything the drafting prompt needs
type DraftRequest struct {
	Instruction           string
	CurrentContent        string
	Attachments           []AttachmentText
	Title                 string
	Author                AuthorProfile
	DepartmentDescription string
}

// TokenEstimator reports an estimated token count for a text.
// *genai.TokenCounter satisfies it.
type TokenEstimator interface {
	Count(text string) int
}

// Builder assembles drafting prompts within a token budget
type Builder struct {
	counter   TokenEstimator
	maxTokens int
}

// NewBuilder creates a prompt builder. maxTokens is the context ceiling;
// prompts that exceed it are rebuilt in a reduced form.
func NewBuilder(counter TokenEstimator, maxTokens int) *Builder {
	return &Builder{counter: counter, maxTokens: maxTokens}
}

// BuildDraftPrompt assembles the full drafting prompt: system prompt,
// department revision context, current draft, attachment texts, and the
// user instruction. When the assembled prompt exceeds the token ceiling it
// falls back to a reduced prompt that keeps the system prompt, up to three
// trimmed attachments, and the instruction.
func (b *Builder) BuildDraftPrompt(req DraftRequest, now time.Time) string {
	systemPrompt := SystemPrompt(req.Author, now)

	parts := []string{systemPrompt}

	if req.DepartmentDescription != "" {
		dept := req.Author.Department
		if dept == "" {
			dept = "Department"
		}
		parts = append(parts,
			"\n---\n",
			"## Department Context",
			fmt.Sprintf("You are revising this proposal for the **%s**.", dept),
			fmt.Sprintf("**Department Description:** %s", req.DepartmentDescription),
			"Consider this department's perspective and responsibilities when making revisions.",
		)
	}

	if strings.TrimSpace(req.CurrentContent) != "" {
		content := req.CurrentContent
		// Token-dense text can cross the token threshold while staying
		// under the character cap, so the slice needs its own bound
		if b.counter.Count(content) > contentTokenLimit && len(content) > contentCharLimit {
			content = content[:contentCharLimit] + contentTruncatedMarker
		}
		parts = append(parts,
			"\n---\n",
			"## Current Proposal (to be updated)",
			"The following is the current draft. Update it based on the user's instruction below.",
			"\n"+fence+"markdown",
			content,
			fence+"\n",
		)
	}

	if len(req.Attachments) > 0 {
		parts = append(parts,
			"\n---\n",
			"## Reference Documents",
			"**IMPORTANT**: The user has provided the following reference documents. You MUST:",
			"1. Carefully analyze all attached documents",
			"2. Extract relevant data, specifications, requirements, and context",
			"3. Incorporate this information into the proposal where appropriate",
			"4. Reference specific details from the documents to strengthen the proposal",
			"5. For images, describe what you see and integrate visual information into the proposal\n",
		)
		for _, att := range req.Attachments {
			if att.Text == "" {
				continue
			}
			text := att.Text
			if len(text) > attachmentCharLimit {
				text = text[:attachmentCharLimit] + fileTruncatedMarker
			}
			parts = append(parts,
				fmt.Sprintf("\n### File: %s", att.Filename),
				fmt.Sprintf("Content Type: %s", att.ContentType),
				fmt.Sprintf("%s\n%s\n%s", fence, text, fence),
			)
		}
	}

	parts = append(parts,
		"\n---\n",
		"## User Instruction",
		req.Instruction,
	)

	if req.Title != "" {
		parts = append(parts, fmt.Sprintf("\n\n(Proposal Title: %s)", req.Title))
	}

	parts = append(parts,
		"\n---\n",
		"**Generate the complete, updated Draft Proposal in Markdown format. Output ONLY the proposal document, no other text.**",
	)

	fullPrompt := strings.Join(parts, "\n")

	if b.counter.Count(fullPrompt) > b.maxTokens {
		fullPrompt = b.buildReducedPrompt(systemPrompt, req)
	}

	return fullPrompt
}

// buildReducedPrompt keeps only the pieces that matter most once the full
// prompt blows the budget
func (b *Builder) buildReducedPrompt(systemPrompt string, req DraftRequest) string {
	parts := []string{systemPrompt, "\n---\n"}

	if len(req.Attachments) > 0 {
		parts = append(parts,
			"## Reference Documents",
			"**IMPORTANT**: Analyze and incorporate information from these documents:\n",
		)
		attachments := req.Attachments
		if len(attachments) > reducedAttachmentCount {
			attachments = attachments[:reducedAttachmentCount]
		}
		for i, att := range attachments {
			if att.Text == "" {
				continue
			}
			text := att.Text
			if len(text) > reducedAttachmentCharLimit {
				text = text[:reducedAttachmentCharLimit] + contentTruncatedMarker
			}
			parts = append(parts,
				fmt.Sprintf("\n### File %d: %s", i+1, att.Filename),
				fmt.Sprintf("%s\n%s\n%s\n", fence, text, fence),
			)
		}
		parts = append(parts, "\n---\n")
	}

	parts = append(parts,
		"## User Instruction",
		req.Instruction,
		"\n---\n",
		"**Generate the complete Draft Proposal in Markdown format. Output ONLY the proposal document.**",
	)

	return strings.Join(parts, "\n")
}
