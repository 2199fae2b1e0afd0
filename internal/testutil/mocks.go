package testutil

import (
	"context"

	"voucherbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockSessionRepository is a mock for SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) EnsureExists(ctx context.Context, s domain.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Save(ctx context.Context, s domain.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) ClearScreen(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *MockSessionRepository) ClearPrevFunc(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *MockSessionRepository) SetEmail(ctx context.Context, chatID int64, email string) error {
	args := m.Called(ctx, chatID, email)
	return args.Error(0)
}

func (m *MockSessionRepository) ConsumeConfirmationCode(ctx context.Context, chatID int64, code string) (bool, error) {
	args := m.Called(ctx, chatID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) RestoreConfirmationCode(ctx context.Context, chatID int64, code string) error {
	args := m.Called(ctx, chatID, code)
	return args.Error(0)
}

func (m *MockSessionRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockVoucherRepository is a mock for VoucherRepository
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) ListActiveCodes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVoucherRepository) ListActive(ctx context.Context) ([]domain.Voucher, error) {
	args := m.Called(ctx)
	return vouchers(args.Get(0)), args.Error(1)
}

func (m *MockVoucherRepository) ListInactive(ctx context.Context) ([]domain.Voucher, error) {
	args := m.Called(ctx)
	return vouchers(args.Get(0)), args.Error(1)
}

func (m *MockVoucherRepository) ListByOwner(ctx context.Context, chatID int64, active bool) ([]domain.Voucher, error) {
	args := m.Called(ctx, chatID, active)
	return vouchers(args.Get(0)), args.Error(1)
}

func (m *MockVoucherRepository) ListAll(ctx context.Context) ([]domain.Voucher, error) {
	args := m.Called(ctx)
	return vouchers(args.Get(0)), args.Error(1)
}

func (m *MockVoucherRepository) Get(ctx context.Context, code string) (*domain.Voucher, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) InsertIfAbsent(ctx context.Context, v domain.Voucher) (bool, error) {
	args := m.Called(ctx, v)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoucherRepository) Deactivate(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoucherRepository) Stats(ctx context.Context) (domain.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Stats), args.Error(1)
}

func vouchers(v interface{}) []domain.Voucher {
	if v == nil {
		return nil
	}
	return v.([]domain.Voucher)
}

// MockPaymentProvider is a mock for service.PaymentProvider
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) FindPayment(ctx context.Context, code string) (*domain.Payment, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

// MockRenderer is a mock for service.VoucherRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(v domain.Voucher) ([]byte, error) {
	args := m.Called(v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockMailer is a mock for service.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body, filename string, attachment []byte) error {
	args := m.Called(ctx, to, subject, body, filename, attachment)
	return args.Error(0)
}
