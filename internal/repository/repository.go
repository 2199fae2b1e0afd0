package repository

import (
	"context"

	"voucherbot/internal/domain"
)

// SessionRepository defines per-chat session operations
type SessionRepository interface {
	Get(ctx context.Context, chatID int64) (*domain.Session, error)
	EnsureExists(ctx context.Context, s domain.Session) error
	Save(ctx context.Context, s domain.Session) error
	ClearScreen(ctx context.Context, chatID int64) error
	ClearPrevFunc(ctx context.Context, chatID int64) error
	SetEmail(ctx context.Context, chatID int64, email string) error
	ConsumeConfirmationCode(ctx context.Context, chatID int64, code string) (bool, error)
	RestoreConfirmationCode(ctx context.Context, chatID int64, code string) error
	Count(ctx context.Context) (int, error)
}

// VoucherRepository defines voucher ledger operations
type VoucherRepository interface {
	ListActiveCodes(ctx context.Context) ([]string, error)
	ListActive(ctx context.Context) ([]domain.Voucher, error)
	ListInactive(ctx context.Context) ([]domain.Voucher, error)
	ListByOwner(ctx context.Context, chatID int64, active bool) ([]domain.Voucher, error)
	ListAll(ctx context.Context) ([]domain.Voucher, error)
	Get(ctx context.Context, code string) (*domain.Voucher, error)
	InsertIfAbsent(ctx context.Context, v domain.Voucher) (bool, error)
	Deactivate(ctx context.Context, code string) (bool, error)
	Stats(ctx context.Context) (domain.Stats, error)
}
