package domain

import "errors"

var (
	// ErrDuplicateVoucher is returned when a voucher code already exists in the ledger
	ErrDuplicateVoucher = errors.New("voucher code already exists")
	// ErrVoucherNotActive is returned when activation finds no active row to flip
	ErrVoucherNotActive = errors.New("voucher is not active")
	// ErrNoVoucherSelected is returned when activation runs without a selected voucher
	ErrNoVoucherSelected = errors.New("no voucher selected")
	// ErrPaymentNotFound is returned when no completed payment matches the confirmation code
	ErrPaymentNotFound = errors.New("no completed payment found")
	// ErrNoEmail is returned when e-mail delivery is requested but no address is on file
	ErrNoEmail = errors.New("no email on file")
	// ErrFormIncomplete is returned when the voucher form is saved before both answers arrive
	ErrFormIncomplete = errors.New("voucher form is incomplete")
	// ErrInvalidVoucherValue is returned for non-positive or non-numeric voucher values
	ErrInvalidVoucherValue = errors.New("invalid voucher value")
	// ErrInvalidVoucherCode is returned for empty or malformed voucher codes
	ErrInvalidVoucherCode = errors.New("invalid voucher code")
	// ErrAccessDenied is returned when a non-admin reaches an admin screen
	ErrAccessDenied = errors.New("access denied")
)
