package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"voucherbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockForms struct {
	mock.Mock
}

func (m *mockForms) Expire() int {
	return m.Called().Int(0)
}

type mockStats struct {
	mock.Mock
}

func (m *mockStats) Collect(ctx context.Context) (domain.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Stats), args.Error(1)
}

func TestScheduler_SendDigest(t *testing.T) {
	tests := []struct {
		name       string
		stats      domain.Stats
		err        error
		expectCall bool
	}{
		{
			name:       "digest delivered",
			stats:      domain.Stats{Chats: 10, Vouchers: 2, TotalValue: 900},
			expectCall: true,
		},
		{
			name: "collect error skips delivery",
			err:  errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := new(mockStats)
			stats.On("Collect", mock.Anything).Return(tt.stats, tt.err)

			var delivered []domain.Stats
			digest := func(ctx context.Context, s domain.Stats) { delivered = append(delivered, s) }

			s := NewScheduler(time.UTC, new(mockForms), stats, digest, "0 9 * * *", zap.NewNop())
			s.SendDigest(context.Background())

			if tt.expectCall {
				assert.Equal(t, []domain.Stats{tt.stats}, delivered)
			} else {
				assert.Empty(t, delivered)
			}
			stats.AssertExpectations(t)
		})
	}
}

func TestScheduler_ExpireForms(t *testing.T) {
	forms := new(mockForms)
	forms.On("Expire").Return(2).Once()

	s := NewScheduler(time.UTC, forms, new(mockStats), nil, "0 9 * * *", zap.NewNop())
	s.ExpireForms()

	forms.AssertExpectations(t)
}

func TestScheduler_Start(t *testing.T) {
	t.Run("valid schedule", func(t *testing.T) {
		s := NewScheduler(time.UTC, new(mockForms), new(mockStats), nil, "0 9 * * *", zap.NewNop())
		assert.NoError(t, s.Start(context.Background()))
		assert.Len(t, s.cron.Entries(), 2)
		s.Stop()
	})

	t.Run("invalid digest schedule", func(t *testing.T) {
		s := NewScheduler(time.UTC, new(mockForms), new(mockStats), nil, "every morning", zap.NewNop())
		assert.Error(t, s.Start(context.Background()))
	})
}
