package service

import (
	"context"
	"fmt"

	"voucherbot/internal/domain"
	"voucherbot/internal/repository"

	"go.uber.org/zap"
)

// VoucherRenderer draws a printable e-voucher
type VoucherRenderer interface {
	Render(v domain.Voucher) ([]byte, error)
}

// Mailer sends a message with one attachment
type Mailer interface {
	Send(ctx context.Context, to, subject, body, filename string, attachment []byte) error
}

// DeliveryService hands e-vouchers to their owners
type DeliveryService struct {
	vouchers repository.VoucherRepository
	renderer VoucherRenderer
	mailer   Mailer
	logger   *zap.Logger
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(
	vouchers repository.VoucherRepository,
	renderer VoucherRenderer,
	mailer Mailer,
	logger *zap.Logger,
) *DeliveryService {
	return &DeliveryService{
		vouchers: vouchers,
		renderer: renderer,
		mailer:   mailer,
		logger:   logger,
	}
}

// Document renders the chat's selected voucher as a PDF
func (s *DeliveryService) Document(ctx context.Context, sess domain.Session) (string, []byte, error) {
	v, err := s.ownVoucher(ctx, sess)
	if err != nil {
		return "", nil, err
	}

	pdf, err := s.renderer.Render(*v)
	if err != nil {
		s.logger.Error("Failed to render voucher", zap.String("code", v.Code), zap.Error(err))
		return "", nil, err
	}
	return fileName(*v), pdf, nil
}

// Email sends the chat's selected voucher to the address stored with its last payment.
// It returns ErrNoEmail when no address is on file.
func (s *DeliveryService) Email(ctx context.Context, sess domain.Session, subject, body string) (string, error) {
	if sess.Email == "" {
		return "", domain.ErrNoEmail
	}

	name, pdf, err := s.Document(ctx, sess)
	if err != nil {
		return "", err
	}

	if err := s.mailer.Send(ctx, sess.Email, subject, body, name, pdf); err != nil {
		s.logger.Error("Failed to mail voucher", zap.Int64("chat_id", sess.ChatID), zap.Error(err))
		return "", err
	}

	s.logger.Info("Voucher mailed", zap.Int64("chat_id", sess.ChatID))
	return sess.Email, nil
}

func (s *DeliveryService) ownVoucher(ctx context.Context, sess domain.Session) (*domain.Voucher, error) {
	if _, ok := sess.Focus.(domain.UserVoucherFocus); !ok {
		return nil, domain.ErrNoVoucherSelected
	}
	v, err := selectedVoucher(ctx, s.vouchers, sess)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNoVoucherSelected
	}
	return v, nil
}

func fileName(v domain.Voucher) string {
	return fmt.Sprintf("e_voucher_%s.pdf", v.Code)
}
