package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"TankSentinel/internal/coordinator"
	"TankSentinel/internal/model"
	"TankSentinel/internal/notifier"
	"TankSentinel/internal/recorder"
)

// Scheduler drives periodic refreshes and answers bot commands.
type Scheduler struct {
	Cron        *cron.Cron
	Coordinator *coordinator.Coordinator
	Recorder    recorder.Recorder
	Interval    time.Duration
	Ctx         context.Context
	logger      *zap.Logger
}

// NewScheduler creates a new Scheduler. A tick that fires while the previous
// one is still running is skipped.
func NewScheduler(ctx context.Context, coord *coordinator.Coordinator, rec recorder.Recorder, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("scheduler")
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		Cron:        cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		Coordinator: coord,
		Recorder:    rec,
		Interval:    interval,
		Ctx:         ctx,
		logger:      logger,
	}
}

// Register adds the recurring refresh job.
func (s *Scheduler) Register() error {
	spec := fmt.Sprintf("@every %s", s.Interval)
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	s.logger.Info("refresh task registered", zap.Duration("interval", s.Interval))
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	err := s.Coordinator.Refresh(s.Ctx, model.TriggerScheduled)
	switch {
	case err == nil:
	case errors.Is(err, coordinator.ErrRefreshInProgress):
		s.logger.Info("scheduled refresh skipped, another refresh is running")
	case errors.Is(err, coordinator.ErrClosed):
		s.logger.Debug("scheduled refresh skipped, coordinator closed")
	default:
		// The coordinator keeps the previous snapshot; the next tick retries.
		s.logger.Warn("scheduled refresh failed", zap.Error(err))
	}
}

// RefreshNow forces an immediate refresh outside the schedule.
func (s *Scheduler) RefreshNow(ctx context.Context) error {
	return s.Coordinator.Refresh(ctx, model.TriggerManual)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch normalizeCommand(command) {
	case "/tanks":
		return notifier.FormatTankReport(s.Coordinator.Snapshot())
	case "/refresh":
		if err := s.RefreshNow(ctx); err != nil {
			if errors.Is(err, coordinator.ErrRefreshInProgress) {
				return "⏳ A refresh is already running."
			}
			return notifier.FormatRefreshFailed(err)
		}
		return notifier.FormatTankReport(s.Coordinator.Snapshot())
	case "/price":
		return notifier.FormatPrice(s.Coordinator.Snapshot())
	case "/status":
		recent, err := s.Recorder.RecentRefreshes(5)
		if err != nil {
			s.logger.Error("load refresh log", zap.Error(err))
		}
		return notifier.FormatStatus(s.Coordinator.Status(), recent)
	default:
		return notifier.HelpText
	}
}

// normalizeCommand lowercases the first word and drops a "@botname" suffix.
func normalizeCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(cmd)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
