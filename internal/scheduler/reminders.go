// Package scheduler runs the hourly task-reminder pass.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/tanmay-j/cliqnotion/internal/cliq"
	"go.uber.org/zap"
)

// Scheduler drives the reminder check. The cadence matters more than
// the clock edge — tasks carry day-granularity due dates, so once an
// hour at minute zero is plenty.
type Scheduler struct {
	cron   *cron.Cron
	sender *cliq.Sender
	logger *zap.Logger
}

func New(sender *cliq.Sender, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		sender: sender,
		logger: logger,
	}
}

// Start registers the hourly job and launches the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 * * * *", s.checkReminders); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("reminder scheduler started")
	return nil
}

// Stop halts the cron loop; running jobs finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("reminder scheduler stopped")
}

// checkReminders is the hourly pass. The full version will query Notion
// for tasks due within each user's reminder lead time and notify the
// ones with reminders enabled; until the task database integration
// lands, the pass only records that it ran.
//
// TODO: query upcoming due dates once a real tasks database is wired in.
func (s *Scheduler) checkReminders() {
	s.logger.Info("checking for task reminders")
	s.logger.Info("task reminder check completed")
}

// SendTestReminder pushes a canned reminder card to one user. Used to
// verify bot delivery end to end without waiting for the hour.
func (s *Scheduler) SendTestReminder(ctx context.Context, cliqUserID string) error {
	msg := cliq.TaskReminder("Test Task", "https://notion.so/test-task", "today")
	return s.sender.Send(ctx, cliqUserID, "", msg)
}
