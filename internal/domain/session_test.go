package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseUserVoucherKey(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		expected    UserVoucherFocus
		expectedErr bool
	}{
		{
			name:     "plain code",
			key:      "AbC123xyZ9-42",
			expected: UserVoucherFocus{Code: "AbC123xyZ9", ChatID: 42},
		},
		{
			name:     "code containing dash",
			key:      "GIFT-2024-42",
			expected: UserVoucherFocus{Code: "GIFT-2024", ChatID: 42},
		},
		{
			name:     "group chat",
			key:      "XYZ--100123",
			expected: UserVoucherFocus{Code: "XYZ", ChatID: -100123},
		},
		{
			name:        "no dash",
			key:         "ABC",
			expectedErr: true,
		},
		{
			name:        "trailing dash",
			key:         "ABC-",
			expectedErr: true,
		},
		{
			name:        "non numeric chat",
			key:         "ABC-xyz",
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseUserVoucherKey(tt.key)
			if tt.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, tt.key, result.Key())
		})
	}
}

func TestSession_Language(t *testing.T) {
	assert.Equal(t, LangENG, Session{}.Language())
	assert.Equal(t, LangPL, Session{Lang: LangPL}.Language())
	assert.Equal(t, LangENG, Session{Lang: "LANGUAGE"}.Language())
}

func TestSession_SelectedPrice(t *testing.T) {
	s := Session{Focus: PriceFocus{Tier: Price600}}
	tier, ok := s.SelectedPrice()
	assert.True(t, ok)
	assert.Equal(t, Price600, tier)

	s.Focus = AdminVoucherFocus{Code: "XYZ"}
	_, ok = s.SelectedPrice()
	assert.False(t, ok)
}

func TestNewSession(t *testing.T) {
	s := NewSession(42)
	assert.Equal(t, int64(42), s.ChatID)
	assert.Equal(t, ActionStart, s.PrevFunc)
	assert.Nil(t, s.Focus)
	assert.Empty(t, s.Screen)
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		raw      string
		expected Action
		ok       bool
		admin    bool
	}{
		{raw: "voucher", expected: ActionVoucherMenu, ok: true},
		{raw: "check", expected: ActionCheckPayment, ok: true},
		{raw: "statistics", expected: ActionStatistics, ok: true, admin: true},
		{raw: "activate", expected: ActionActivate, ok: true, admin: true},
		{raw: "600", ok: false},
		{raw: "ENG", ok: false},
		{raw: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			action, ok := ParseAction(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, action)
			if ok {
				assert.Equal(t, tt.admin, action.IsAdmin())
			}
		})
	}
}

func TestVoucher_DateString(t *testing.T) {
	v := Voucher{CreatedAt: time.Date(2024, 12, 12, 10, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-12-12", v.DateString())
}

func TestPayment_Value(t *testing.T) {
	assert.Equal(t, 600, Payment{AmountMinor: 60000}.Value())
	assert.Equal(t, 600, Payment{AmountMinor: 60099}.Value())
	assert.Equal(t, 0, Payment{AmountMinor: 99}.Value())
}

func TestParseAction_ResolverOnly(t *testing.T) {
	for _, a := range []Action{ActionAdminSelectedVoucher, ActionAlreadySelected} {
		_, ok := ParseAction(string(a))
		assert.False(t, ok, a)
		assert.Contains(t, AllActions(), a)
	}
}
