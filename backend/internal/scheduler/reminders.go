// Package scheduler runs the periodic reminder job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/academicyear"
)

const runTimeout = 5 * time.Minute

// Scheduler owns the cron runner for monthly reminders.
type Scheduler struct {
	cron    *cron.Cron
	missing service.MissingReportService
	remind  service.ReminderService
	logger  *zap.Logger
	now     func() time.Time
}

// New builds a Scheduler. Call Start to begin firing.
func New(missing service.MissingReportService, remind service.ReminderService, logger *zap.Logger) *Scheduler {
	clog := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)), cron.WithLogger(clog)),
		missing: missing,
		remind:  remind,
		logger:  logger,
		now:     time.Now,
	}
}

// Register adds the reminder job on spec (standard five-field cron syntax).
func (s *Scheduler) Register(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled reminders failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("register reminder job %q: %w", spec, err)
	}
	s.logger.Info("reminder job registered", zap.String("spec", spec))
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce reminds every teacher still missing last month's report in the
// academic year that month belongs to. It returns nil, nil when nothing is
// missing.
func (s *Scheduler) RunOnce(ctx context.Context) (*dto.SendRemindersResponse, error) {
	year, month := previousMonth(s.now())

	ids, err := s.missing.MissingIDs(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		s.logger.Info("no missing reports, skipping reminders", zap.String("year", year), zap.Int("month", month))
		return nil, nil
	}

	return s.remind.Send(ctx, &dto.SendRemindersRequest{AssignmentIDs: ids, Month: month})
}

// previousMonth returns the month before now and the academic year holding
// it, so a September run still targets August of the year just closed.
func previousMonth(now time.Time) (string, int) {
	last := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
	return academicyear.Default(last), int(last.Month())
}

// cronLogger routes cron's logging through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
