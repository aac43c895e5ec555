package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniflow-app/uniflow-api/internal/database"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/email"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// recordingDispatcher captures reminders and fails for addresses in failFor
type recordingDispatcher struct {
	failFor   map[string]bool
	reminders []email.DeadlineReminder
}

func (d *recordingDispatcher) SendProposalNotification(ctx context.Context, n email.ProposalNotification) email.SendResult {
	return email.SendResult{Success: true, Email: n.ToEmail}
}

func (d *recordingDispatcher) SendDeadlineReminder(ctx context.Context, r email.DeadlineReminder) email.SendResult {
	d.reminders = append(d.reminders, r)
	if d.failFor[r.ToEmail] {
		return email.SendResult{Success: false, Email: r.ToEmail, Err: fmt.Errorf("delivery refused")}
	}
	return email.SendResult{Success: true, Email: r.ToEmail}
}

func seedTender(t *testing.T, db *gorm.DB, title, createdBy string, deadline time.Time) {
	t.Helper()
	user := &domain.User{Email: createdBy, PasswordHash: "x", OrganizationNIF: "ORG-12345"}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))

	proposal := &domain.Proposal{
		UserID:  user.ID,
		Title:   title,
		Content: "body",
		Status:  domain.ProposalStatusPublished,
	}
	require.NoError(t, repository.NewProposalRepository(db).Create(context.Background(), proposal))

	require.NoError(t, repository.NewActiveTenderRepository(db).Create(context.Background(), &domain.ActiveTender{
		ProposalID:         proposal.ID,
		Title:              title,
		OrganizationNIF:    "ORG-12345",
		SubmissionDate:     deadline.AddDate(0, 0, -7),
		SubmissionDeadline: deadline,
		ContractExpiryDate: deadline.AddDate(1, 0, 0),
		TenderContent:      "# Tender",
		CreatedBy:          createdBy,
	}))
}

func TestDeadlineReminderRun(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	// Inside the 24h window
	seedTender(t, db, "Rural Water Supply", "near@example.org", now.Add(6*time.Hour))
	// Outside the window, must not trigger a reminder
	seedTender(t, db, "Road Widening", "far@example.org", now.Add(72*time.Hour))

	dispatcher := &recordingDispatcher{}
	job := NewDeadlineReminderJob(repository.NewActiveTenderRepository(db), dispatcher, zap.NewNop())
	job.Run()

	require.Len(t, dispatcher.reminders, 1)
	reminder := dispatcher.reminders[0]
	assert.Equal(t, "Rural Water Supply", reminder.TenderTitle)
	assert.Equal(t, "near@example.org", reminder.ToEmail)
	// The deadline travels as a human-readable string
	assert.Contains(t, reminder.Deadline, "UTC")
}

func TestDeadlineReminderRunCountsFailures(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	seedTender(t, db, "Tender A", "ok@example.org", now.Add(2*time.Hour))
	seedTender(t, db, "Tender B", "broken@example.org", now.Add(3*time.Hour))

	dispatcher := &recordingDispatcher{failFor: map[string]bool{"broken@example.org": true}}
	job := NewDeadlineReminderJob(repository.NewActiveTenderRepository(db), dispatcher, zap.NewNop())
	job.Run()

	// A failed delivery never stops the sweep
	assert.Len(t, dispatcher.reminders, 2)
}

func TestDeadlineReminderRunWithoutDispatcher(t *testing.T) {
	db := newTestDB(t)
	job := NewDeadlineReminderJob(repository.NewActiveTenderRepository(db), nil, zap.NewNop())
	job.Run()
}
