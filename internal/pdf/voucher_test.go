package pdf

import (
	"bytes"
	"testing"
	"time"

	"voucherbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherRenderer_Render(t *testing.T) {
	r := NewVoucherRenderer("Aleksandr DarkSoul Tattoo")

	doc, err := r.Render(domain.Voucher{
		Code:      "aB3dE5gH7j",
		Value:     600,
		CreatedAt: time.Date(2024, 12, 12, 15, 0, 0, 0, time.UTC),
		Active:    true,
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	assert.True(t, bytes.Contains(doc, []byte("%%EOF")))
}

func TestVoucherRenderer_RenderDiffersPerVoucher(t *testing.T) {
	r := NewVoucherRenderer("studio")
	issued := time.Date(2024, 12, 12, 0, 0, 0, 0, time.UTC)

	first, err := r.Render(domain.Voucher{Code: "AAAAAAAAAA", Value: 300, CreatedAt: issued})
	require.NoError(t, err)
	second, err := r.Render(domain.Voucher{Code: "BBBBBBBBBB", Value: 300, CreatedAt: issued})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
