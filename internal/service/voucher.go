package service

import (
	"context"
	"strconv"
	"strings"

	"voucherbot/internal/domain"
	"voucherbot/internal/repository"

	"go.uber.org/zap"
)

// VoucherService handles issuance, redemption and listing of vouchers
type VoucherService struct {
	vouchers repository.VoucherRepository
	sessions repository.SessionRepository
	logger   *zap.Logger
}

// NewVoucherService creates a new voucher service
func NewVoucherService(
	vouchers repository.VoucherRepository,
	sessions repository.SessionRepository,
	logger *zap.Logger,
) *VoucherService {
	return &VoucherService{
		vouchers: vouchers,
		sessions: sessions,
		logger:   logger,
	}
}

// ParseValue validates a typed voucher value
func ParseValue(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return 0, domain.ErrInvalidVoucherValue
	}
	return value, nil
}

// NormalizeCode trims a typed voucher code. Codes a button could not carry are rejected,
// as are codes that would shadow a menu, price or language button.
func NormalizeCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if code == "" || len(code) > 32 || strings.ContainsAny(code, " \t\n|") {
		return "", domain.ErrInvalidVoucherCode
	}
	// A trailing dash would merge with a negative chat id in the user voucher key
	if strings.HasSuffix(code, "-") {
		return "", domain.ErrInvalidVoucherCode
	}
	if _, ok := domain.ParseAction(code); ok {
		return "", domain.ErrInvalidVoucherCode
	}
	if domain.PriceTier(code).Valid() || domain.Language(code).Valid() {
		return "", domain.ErrInvalidVoucherCode
	}
	return code, nil
}

// IssueManual adds an admin-entered voucher owned by the admin's chat.
// A code already in the ledger yields ErrDuplicateVoucher and no row is written.
func (s *VoucherService) IssueManual(ctx context.Context, adminChatID int64, code string, value int) error {
	code, err := NormalizeCode(code)
	if err != nil {
		return err
	}
	if value <= 0 {
		return domain.ErrInvalidVoucherValue
	}

	inserted, err := s.vouchers.InsertIfAbsent(ctx, domain.Voucher{
		Code:        code,
		OwnerChatID: adminChatID,
		Value:       value,
		Active:      true,
	})
	if err != nil {
		s.logger.Error("Failed to issue voucher", zap.String("code", code), zap.Error(err))
		return err
	}
	if !inserted {
		s.logger.Info("Duplicate voucher code rejected", zap.String("code", code))
		return domain.ErrDuplicateVoucher
	}

	s.logger.Info("Voucher issued",
		zap.String("code", code),
		zap.Int("value", value),
		zap.Int64("admin_chat_id", adminChatID))
	return nil
}

// Activate redeems the voucher the admin selected and clears the selection.
// Redeeming a voucher that is no longer active returns ErrVoucherNotActive.
func (s *VoucherService) Activate(ctx context.Context, adminChatID int64) (string, error) {
	sess, err := s.sessions.Get(ctx, adminChatID)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", domain.ErrNoVoucherSelected
	}
	focus, ok := sess.Focus.(domain.AdminVoucherFocus)
	if !ok {
		return "", domain.ErrNoVoucherSelected
	}

	flipped, err := s.vouchers.Deactivate(ctx, focus.Code)
	if err != nil {
		s.logger.Error("Failed to activate voucher", zap.String("code", focus.Code), zap.Error(err))
		return focus.Code, err
	}

	sess.Focus = nil
	if err := s.sessions.Save(ctx, *sess); err != nil {
		return focus.Code, err
	}

	if !flipped {
		s.logger.Warn("Voucher already redeemed", zap.String("code", focus.Code))
		return focus.Code, domain.ErrVoucherNotActive
	}

	s.logger.Info("Voucher activated", zap.String("code", focus.Code), zap.Int64("admin_chat_id", adminChatID))
	return focus.Code, nil
}

// Selected returns the voucher behind the chat's focus, nil when nothing is selected or it vanished
func (s *VoucherService) Selected(ctx context.Context, sess domain.Session) (*domain.Voucher, error) {
	return selectedVoucher(ctx, s.vouchers, sess)
}

func selectedVoucher(ctx context.Context, vouchers repository.VoucherRepository, sess domain.Session) (*domain.Voucher, error) {
	var code string
	switch f := sess.Focus.(type) {
	case domain.AdminVoucherFocus:
		code = f.Code
	case domain.UserVoucherFocus:
		code = f.Code
	default:
		return nil, nil
	}

	v, err := vouchers.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	// End users only ever see their own vouchers
	if f, ok := sess.Focus.(domain.UserVoucherFocus); ok && v.OwnerChatID != f.ChatID {
		return nil, nil
	}
	return v, nil
}

// ActiveVouchers returns every redeemable voucher
func (s *VoucherService) ActiveVouchers(ctx context.Context) ([]domain.Voucher, error) {
	return s.vouchers.ListActive(ctx)
}

// RedeemedVouchers returns every redeemed voucher
func (s *VoucherService) RedeemedVouchers(ctx context.Context) ([]domain.Voucher, error) {
	return s.vouchers.ListInactive(ctx)
}

// UserVouchers returns the chat's own vouchers, active or redeemed
func (s *VoucherService) UserVouchers(ctx context.Context, chatID int64, active bool) ([]domain.Voucher, error) {
	return s.vouchers.ListByOwner(ctx, chatID, active)
}

// Ledger returns every voucher for export
func (s *VoucherService) Ledger(ctx context.Context) ([]domain.Voucher, error) {
	return s.vouchers.ListAll(ctx)
}
