package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/database"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/email"
	"github.com/uniflow-app/uniflow-api/internal/genai"
	"github.com/uniflow-app/uniflow-api/internal/repository"
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

func createTestUser(t *testing.T, db *gorm.DB, user *domain.User) *domain.User {
	t.Helper()
	if user.PasswordHash == "" {
		user.PasswordHash = "x"
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func userContextFor(user *domain.User) *auth.UserContext {
	return &auth.UserContext{
		UserID:          user.ID,
		Email:           user.Email,
		Name:            user.Name,
		Role:            user.Role,
		OrganizationNIF: user.OrganizationNIF,
		Department:      user.Department,
	}
}

// fakeGenerator routes each prompt through a single completion function
type fakeGenerator struct {
	complete func(prompt string) (string, error)
	prompts  []string
}

func (f *fakeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.complete(prompt)
}

func (f *fakeGenerator) CompleteWithImages(ctx context.Context, prompt string, _ []genai.Image) (string, error) {
	return f.Complete(ctx, prompt)
}

// fakeDispatcher records notifications and fails for addresses in failFor
type fakeDispatcher struct {
	failFor   map[string]bool
	sent      []email.ProposalNotification
	reminders []email.DeadlineReminder
}

func (f *fakeDispatcher) SendProposalNotification(ctx context.Context, n email.ProposalNotification) email.SendResult {
	f.sent = append(f.sent, n)
	if f.failFor[n.ToEmail] {
		return email.SendResult{Success: false, Email: n.ToEmail, Err: fmt.Errorf("delivery refused")}
	}
	return email.SendResult{Success: true, Email: n.ToEmail}
}

func (f *fakeDispatcher) SendDeadlineReminder(ctx context.Context, r email.DeadlineReminder) email.SendResult {
	f.reminders = append(f.reminders, r)
	if f.failFor[r.ToEmail] {
		return email.SendResult{Success: false, Email: r.ToEmail, Err: fmt.Errorf("delivery refused")}
	}
	return email.SendResult{Success: true, Email: r.ToEmail}
}
