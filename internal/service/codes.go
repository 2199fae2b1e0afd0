package service

import (
	"crypto/rand"
	"math/big"
)

const (
	confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	serialAlphabet       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	confirmationLength = 5
	serialLength       = 10
)

// NewConfirmationCode returns a short code the customer types into the checkout form
func NewConfirmationCode() string {
	return randomString(confirmationAlphabet, confirmationLength)
}

// NewSerial returns a voucher code for a paid e-voucher
func NewSerial() string {
	return randomString(serialAlphabet, serialLength)
}

func randomString(alphabet string, n int) string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b)
}
