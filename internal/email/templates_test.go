package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uniflow-app/uniflow-api/internal/config"
)

func TestProposalNotificationHTML(t *testing.T) {
	html := proposalNotificationHTML(ProposalNotification{
		ToEmail:       "water@example.org",
		RecipientName: "Anita Rao",
		Department:    "Water Supply",
		ProposalTitle: "Rural Water Supply",
		SubmittedBy:   "Meera Shah",
	}, "https://app.example.org")

	assert.Contains(t, html, "Anita Rao")
	assert.Contains(t, html, "Meera Shah")
	assert.Contains(t, html, "Water Supply")
	assert.Contains(t, html, "Rural Water Supply")
	assert.Contains(t, html, `href="https://app.example.org"`)
	assert.NotContains(t, html, "water@example.org", "the body carries no proposal content or addresses")
}

func TestDeadlineReminderHTML(t *testing.T) {
	html := deadlineReminderHTML(DeadlineReminder{
		ToEmail:     "publisher@example.org",
		TenderTitle: "Rural Water Supply Tender",
		Deadline:    "2026-03-08T10:00:00Z",
	}, "https://app.example.org")

	assert.Contains(t, html, "Rural Water Supply Tender")
	assert.Contains(t, html, "2026-03-08T10:00:00Z")
	assert.Contains(t, html, `href="https://app.example.org"`)
}

func TestNewResendDispatcherRequiresAPIKey(t *testing.T) {
	_, err := NewResendDispatcher(&config.EmailConfig{}, "https://app.example.org", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
