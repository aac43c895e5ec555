package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/uniflow-app/uniflow-api/internal/config"
	"go.uber.org/zap"
)

// ProposalNotification is one review request going to a department contact
type ProposalNotification struct {
	ToEmail       string
	RecipientName string
	Department    string
	ProposalTitle string
	SubmittedBy   string
}

// DeadlineReminder nudges the tender owner before the submission deadline
type DeadlineReminder struct {
	ToEmail     string
	TenderTitle string
	Deadline    string
}

// SendResult records the outcome for one intended recipient. When delivery
// to the recipient fails and the fallback address accepted the message,
// FallbackUsed is set and Email holds the fallback address.
type SendResult struct {
	Success       bool
	ID            string
	Email         string
	OriginalEmail string
	FallbackUsed  bool
	Err           error
}

// Dispatcher sends notification emails
type Dispatcher interface {
	SendProposalNotification(ctx context.Context, n ProposalNotification) SendResult
	SendDeadlineReminder(ctx context.Context, r DeadlineReminder) SendResult
}

// ResendDispatcher sends email through the Resend API. A delivery failure
// triggers one retry to the configured fallback recipient with the subject
// prefixed so the forward is obvious.
type ResendDispatcher struct {
	client      *resend.Client
	from        string
	fallback    string
	frontendURL string
	logger      *zap.Logger
}

// ErrNotConfigured signals that no Resend API key was provided
var ErrNotConfigured = fmt.Errorf("email service not configured")

func NewResendDispatcher(cfg *config.EmailConfig, frontendURL string, logger *zap.Logger) (*ResendDispatcher, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	return &ResendDispatcher{
		client:      resend.NewClient(cfg.APIKey),
		from:        cfg.FromAddress,
		fallback:    cfg.FallbackRecipient,
		frontendURL: frontendURL,
		logger:      logger,
	}, nil
}

// SendProposalNotification emails a department contact that their review is
// requested. The body carries no proposal content, only a login link.
func (d *ResendDispatcher) SendProposalNotification(ctx context.Context, n ProposalNotification) SendResult {
	subject := fmt.Sprintf("Proposal Request: %s", n.ProposalTitle)
	html := proposalNotificationHTML(n, d.frontendURL)

	return d.sendWithFallback(ctx, n.ToEmail, n.RecipientName, subject, html)
}

// SendDeadlineReminder emails the tender owner that the submission deadline
// is approaching
func (d *ResendDispatcher) SendDeadlineReminder(ctx context.Context, r DeadlineReminder) SendResult {
	subject := fmt.Sprintf("Submission Deadline Approaching: %s", r.TenderTitle)
	html := deadlineReminderHTML(r, d.frontendURL)

	return d.sendWithFallback(ctx, r.ToEmail, "", subject, html)
}

func (d *ResendDispatcher) sendWithFallback(ctx context.Context, toEmail, recipientName, subject, html string) SendResult {
	sent, err := d.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    d.from,
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	})
	if err == nil {
		return SendResult{Success: true, ID: sent.Id, Email: toEmail}
	}

	d.logger.Warn("email delivery failed, retrying with fallback recipient",
		zap.String("to", toEmail),
		zap.String("fallback", d.fallback),
		zap.Error(err))

	if d.fallback == "" {
		return SendResult{Email: toEmail, Err: err}
	}

	fallbackSubject := subject
	fallbackHTML := html
	if recipientName != "" {
		fallbackSubject = fmt.Sprintf("[FWD to %s] %s", recipientName, subject)
		fallbackHTML = strings.Replace(html,
			fmt.Sprintf("Dear <strong>%s</strong>", recipientName),
			fmt.Sprintf("Dear <strong>%s</strong><br><em style='color: #6b7280;'>(Original recipient: %s - forwarded due to email restriction)</em>", recipientName, toEmail),
			1)
	}

	sent, fallbackErr := d.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    d.from,
		To:      []string{d.fallback},
		Subject: fallbackSubject,
		Html:    fallbackHTML,
	})
	if fallbackErr != nil {
		return SendResult{Email: toEmail, Err: fallbackErr}
	}

	return SendResult{
		Success:       true,
		ID:            sent.Id,
		Email:         d.fallback,
		OriginalEmail: toEmail,
		FallbackUsed:  true,
	}
}
