package jobs

import (
	"context"
	"fmt"
	"time"

	"voucherbot/internal/domain"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// formExpireSchedule sweeps abandoned voucher forms
const formExpireSchedule = "*/5 * * * *"

// FormExpirer drops stale admin forms
type FormExpirer interface {
	Expire() int
}

// StatsCollector gathers ledger statistics
type StatsCollector interface {
	Collect(ctx context.Context) (domain.Stats, error)
}

// DigestFunc delivers the daily statistics to admins
type DigestFunc func(ctx context.Context, stats domain.Stats)

// Scheduler runs background jobs
type Scheduler struct {
	cron           *cron.Cron
	forms          FormExpirer
	stats          StatsCollector
	digest         DigestFunc
	digestSchedule string
	logger         *zap.Logger
}

// NewScheduler creates a scheduler running in loc
func NewScheduler(
	loc *time.Location,
	forms FormExpirer,
	stats StatsCollector,
	digest DigestFunc,
	digestSchedule string,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		cron:           cron.New(cron.WithLocation(loc)),
		forms:          forms,
		stats:          stats,
		digest:         digest,
		digestSchedule: digestSchedule,
		logger:         logger,
	}
}

// Start registers every job and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(formExpireSchedule, s.ExpireForms); err != nil {
		return fmt.Errorf("schedule form expiry: %w", err)
	}
	if _, err := s.cron.AddFunc(s.digestSchedule, func() { s.SendDigest(ctx) }); err != nil {
		return fmt.Errorf("schedule digest %q: %w", s.digestSchedule, err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("digest_schedule", s.digestSchedule))
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// ExpireForms drops forms past their TTL
func (s *Scheduler) ExpireForms() {
	if n := s.forms.Expire(); n > 0 {
		s.logger.Debug("Expired voucher forms", zap.Int("count", n))
	}
}

// SendDigest collects statistics and hands them to the digest func
func (s *Scheduler) SendDigest(ctx context.Context) {
	stats, err := s.stats.Collect(ctx)
	if err != nil {
		s.logger.Error("Failed to collect digest statistics", zap.Error(err))
		return
	}
	s.digest(ctx, stats)
}
