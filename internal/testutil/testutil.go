package testutil

import (
	"time"

	"voucherbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestSession creates a session that already picked a language
func NewTestSession(chatID int64, lang domain.Language) *domain.Session {
	return &domain.Session{
		ChatID:   chatID,
		Lang:     lang,
		PrevLang: lang,
	}
}

// NewTestVoucher creates an active voucher issued today
func NewTestVoucher(code string, owner int64, value int) domain.Voucher {
	return domain.Voucher{
		Code:        code,
		OwnerChatID: owner,
		Value:       value,
		CreatedAt:   time.Now(),
		Active:      true,
	}
}
