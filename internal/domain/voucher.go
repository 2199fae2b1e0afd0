package domain

import "time"

// Voucher is a ledger row
type Voucher struct {
	Code        string
	OwnerChatID int64
	Value       int
	CreatedAt   time.Time
	Active      bool
}

// DateString returns issue date in YYYY-MM-DD format
func (v Voucher) DateString() string {
	return v.CreatedAt.Format("2006-01-02")
}

// Payment is a completed checkout matched to a confirmation code
type Payment struct {
	Code        string
	AmountMinor int64
	Email       string
}

// Value converts the captured amount to whole currency units
func (p Payment) Value() int {
	return int(p.AmountMinor / 100)
}

// Stats summarizes the ledger for the admin panel
type Stats struct {
	Chats      int
	Vouchers   int
	TotalValue int
	LastSale   *time.Time
}

// FormStep is the position inside the two-question voucher form
type FormStep int

const (
	FormAwaitCode FormStep = iota + 1
	FormAwaitValue
	FormComplete
)

// VoucherForm holds an admin's in-progress manual issuance answers
type VoucherForm struct {
	Step      FormStep
	Code      string
	Value     int
	StartedAt time.Time
}
