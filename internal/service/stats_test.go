package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"voucherbot/internal/domain"
	"voucherbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStatsService_Collect(t *testing.T) {
	lastSale := time.Date(2024, 12, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		ledger        domain.Stats
		ledgerErr     error
		chats         int
		chatsErr      error
		expected      domain.Stats
		expectedError bool
	}{
		{
			name:     "successful collection",
			ledger:   domain.Stats{Vouchers: 3, TotalValue: 1900, LastSale: &lastSale},
			chats:    17,
			expected: domain.Stats{Chats: 17, Vouchers: 3, TotalValue: 1900, LastSale: &lastSale},
		},
		{
			name:          "ledger error",
			ledgerErr:     fmt.Errorf("db error"),
			expectedError: true,
		},
		{
			name:          "session count error",
			chatsErr:      fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(testutil.MockSessionRepository)
			vouchers := new(testutil.MockVoucherRepository)
			vouchers.On("Stats", mock.Anything).Return(tt.ledger, tt.ledgerErr)
			sessions.On("Count", mock.Anything).Return(tt.chats, tt.chatsErr).Maybe()

			service := NewStatsService(sessions, vouchers, testutil.NewTestLogger())
			stats, err := service.Collect(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, stats)
			}
			vouchers.AssertExpectations(t)
		})
	}
}
