package email

import "fmt"

const notificationStyles = `body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 8px 8px 0 0; text-align: center; }
.header h1 { margin: 0; font-size: 24px; }
.content { background: #f9fafb; padding: 40px 30px; border: 1px solid #e5e7eb; text-align: center; }
.btn { display: inline-block; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 16px 40px; text-decoration: none; border-radius: 8px; margin-top: 25px; font-weight: 600; font-size: 16px; }
.btn:hover { opacity: 0.9; }
.footer { padding: 20px; text-align: center; color: #6b7280; font-size: 14px; border-radius: 0 0 8px 8px; background: #f3f4f6; }
.proposal-title { color: #667eea; font-size: 20px; margin: 20px 0 10px 0; }`

func proposalNotificationHTML(n ProposalNotification, appURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <style>
%s
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>&#128203; New Proposal Request</h1>
        </div>
        <div class="content">
            <p>Dear <strong>%s</strong>,</p>
            <p><strong>%s</strong> has requested your department (<strong>%s</strong>) to review and contribute to a proposal.</p>

            <p class="proposal-title">"%s"</p>

            <p style="color: #6b7280; margin-top: 20px;">Log in to UniFlow to view the full proposal and provide your input.</p>

            <a href="%s" class="btn">View Proposal in UniFlow &#8594;</a>
        </div>
        <div class="footer">
            <p>This is an automated notification from UniFlow.</p>
        </div>
    </div>
</body>
</html>`, notificationStyles, n.RecipientName, n.SubmittedBy, n.Department, n.ProposalTitle, appURL)
}

func deadlineReminderHTML(r DeadlineReminder, appURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <style>
%s
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>&#9200; Deadline Reminder</h1>
        </div>
        <div class="content">
            <p>The bid submission deadline for your published tender is approaching.</p>

            <p class="proposal-title">"%s"</p>

            <p style="color: #6b7280; margin-top: 20px;">Submission deadline: <strong>%s</strong></p>

            <a href="%s" class="btn">View Tender in UniFlow &#8594;</a>
        </div>
        <div class="footer">
            <p>This is an automated notification from UniFlow.</p>
        </div>
    </div>
</body>
</html>`, notificationStyles, r.TenderTitle, r.Deadline, appURL)
}
