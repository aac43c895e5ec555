package jobs

import (
	"context"
	"time"

	"github.com/uniflow-app/uniflow-api/internal/email"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"go.uber.org/zap"
)

// DeadlineReminderJob emails tender publishers when the submission deadline
// falls within the next 24 hours.
type DeadlineReminderJob struct {
	tenderRepo *repository.ActiveTenderRepository
	dispatcher email.Dispatcher
	logger     *zap.Logger
}

func NewDeadlineReminderJob(
	tenderRepo *repository.ActiveTenderRepository,
	dispatcher email.Dispatcher,
	logger *zap.Logger,
) *DeadlineReminderJob {
	return &DeadlineReminderJob{
		tenderRepo: tenderRepo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run sweeps active tenders and sends a reminder for every deadline within
// the next 24 hours.
func (j *DeadlineReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if j.dispatcher == nil {
		j.logger.Warn("deadline reminder sweep skipped, email not configured")
		return
	}

	now := time.Now().UTC()
	tenders, err := j.tenderRepo.ListWithDeadlineBetween(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		j.logger.Error("deadline reminder sweep failed", zap.Error(err))
		return
	}

	if len(tenders) == 0 {
		j.logger.Debug("no tender deadlines within the next 24 hours")
		return
	}

	sent, failed := 0, 0
	for _, tender := range tenders {
		result := j.dispatcher.SendDeadlineReminder(ctx, email.DeadlineReminder{
			ToEmail:     tender.CreatedBy,
			TenderTitle: tender.Title,
			Deadline:    tender.SubmissionDeadline.UTC().Format("02 Jan 2006, 03:04 PM MST"),
		})
		if result.Success {
			sent++
		} else {
			failed++
			j.logger.Warn("deadline reminder delivery failed",
				zap.String("tenderId", tender.ID.String()),
				zap.String("recipient", tender.CreatedBy),
				zap.Error(result.Err))
		}
	}

	j.logger.Info("deadline reminder sweep completed",
		zap.Int("tenders", len(tenders)),
		zap.Int("sent", sent),
		zap.Int("failed", failed))
}
