package service

import (
	"context"

	"voucherbot/internal/domain"
	"voucherbot/internal/repository"

	"go.uber.org/zap"
)

// StatsService handles sales statistics
type StatsService struct {
	sessions repository.SessionRepository
	vouchers repository.VoucherRepository
	logger   *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(
	sessions repository.SessionRepository,
	vouchers repository.VoucherRepository,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		sessions: sessions,
		vouchers: vouchers,
		logger:   logger,
	}
}

// Collect returns chat count and ledger totals
func (s *StatsService) Collect(ctx context.Context) (domain.Stats, error) {
	stats, err := s.vouchers.Stats(ctx)
	if err != nil {
		s.logger.Error("Failed to collect voucher stats", zap.Error(err))
		return domain.Stats{}, err
	}

	chats, err := s.sessions.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count chats", zap.Error(err))
		return domain.Stats{}, err
	}
	stats.Chats = chats

	return stats, nil
}
