package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voucherbot/internal/domain"
	"voucherbot/internal/repository"

	"go.uber.org/zap"
)

const serialAttempts = 3

// PaymentProvider looks up completed checkouts
type PaymentProvider interface {
	// FindPayment returns the paid checkout carrying the confirmation code, nil if there is none
	FindPayment(ctx context.Context, code string) (*domain.Payment, error)
}

// PaymentService turns a completed checkout into an e-voucher
type PaymentService struct {
	sessions   repository.SessionRepository
	vouchers   repository.VoucherRepository
	provider   PaymentProvider
	newSerial  func() string
	linkFormat string
	logger     *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	sessions repository.SessionRepository,
	vouchers repository.VoucherRepository,
	provider PaymentProvider,
	linkFormat string,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		sessions:   sessions,
		vouchers:   vouchers,
		provider:   provider,
		newSerial:  NewSerial,
		linkFormat: linkFormat,
		logger:     logger,
	}
}

// Link returns the checkout link for a price tier
func (s *PaymentService) Link(tier domain.PriceTier) string {
	return fmt.Sprintf(s.linkFormat, tier)
}

// Confirm mints the e-voucher for the chat's pending payment.
// The confirmation code is consumed before minting, so one payment credits one voucher.
func (s *PaymentService) Confirm(ctx context.Context, chatID int64) (*domain.Voucher, error) {
	sess, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.DarkSoulCode == "" {
		return nil, domain.ErrPaymentNotFound
	}
	code := sess.DarkSoulCode

	payment, err := s.provider.FindPayment(ctx, code)
	if err != nil {
		s.logger.Error("Failed to look up payment", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil, err
	}
	if payment == nil || payment.Value() <= 0 {
		return nil, domain.ErrPaymentNotFound
	}

	consumed, err := s.sessions.ConsumeConfirmationCode(ctx, chatID, code)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// Another update already credited this code
		return nil, domain.ErrPaymentNotFound
	}

	voucher, err := s.mint(ctx, chatID, payment.Value())
	if err != nil {
		s.logger.Error("Paid voucher was not minted",
			zap.Int64("chat_id", chatID),
			zap.String("confirmation_code", code),
			zap.Int("value", payment.Value()),
			zap.String("email", payment.Email),
			zap.Error(err))
		// Give the code back so the next check can mint again
		if restoreErr := s.sessions.RestoreConfirmationCode(ctx, chatID, code); restoreErr != nil {
			s.logger.Error("Failed to restore confirmation code",
				zap.Int64("chat_id", chatID),
				zap.String("confirmation_code", code),
				zap.Error(restoreErr))
		}
		return nil, err
	}

	if payment.Email != "" {
		if err := s.sessions.SetEmail(ctx, chatID, payment.Email); err != nil {
			s.logger.Warn("Failed to store payment email", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		sess.Email = payment.Email
	}

	sess.Focus = nil
	sess.DarkSoulCode = ""
	if err := s.sessions.Save(ctx, *sess); err != nil {
		s.logger.Warn("Failed to clear price selection", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	s.logger.Info("Paid voucher issued",
		zap.Int64("chat_id", chatID),
		zap.String("code", voucher.Code),
		zap.Int("value", voucher.Value))
	return voucher, nil
}

func (s *PaymentService) mint(ctx context.Context, chatID int64, value int) (*domain.Voucher, error) {
	for i := 0; i < serialAttempts; i++ {
		v := domain.Voucher{
			Code:        s.newSerial(),
			OwnerChatID: chatID,
			Value:       value,
			CreatedAt:   time.Now(),
			Active:      true,
		}
		inserted, err := s.vouchers.InsertIfAbsent(ctx, v)
		if err != nil {
			return nil, err
		}
		if inserted {
			return &v, nil
		}
	}
	return nil, errors.New("no free voucher serial")
}
