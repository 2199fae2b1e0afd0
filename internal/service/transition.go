package service

import (
	"voucherbot/internal/domain"
)

// Category is the class an incoming action falls into. Categories are tried in declaration order.
type Category int

const (
	CategoryIgnored Category = iota
	CategoryUserVoucher
	CategoryAdminVoucher
	CategoryScreen
	CategoryPrice
	CategoryLanguage
)

func (c Category) String() string {
	switch c {
	case CategoryUserVoucher:
		return "user_voucher"
	case CategoryAdminVoucher:
		return "admin_voucher"
	case CategoryScreen:
		return "screen"
	case CategoryPrice:
		return "price"
	case CategoryLanguage:
		return "language"
	}
	return "ignored"
}

// LedgerView is the slice of the voucher ledger the applier needs to classify an action
type LedgerView struct {
	ActiveCodes []string
	Owned       []domain.Voucher
}

// CodeGenerator returns a fresh payment confirmation code
type CodeGenerator func() string

// Applier mutates a session according to an incoming action
type Applier struct {
	newCode CodeGenerator
}

// NewApplier creates an applier that draws confirmation codes from gen
func NewApplier(gen CodeGenerator) *Applier {
	return &Applier{newCode: gen}
}

// Classify returns the category of action for this session without changing anything
func (a *Applier) Classify(s domain.Session, action string, view LedgerView) Category {
	if _, ok := ownedVoucher(s, action, view); ok {
		return CategoryUserVoucher
	}
	for _, code := range view.ActiveCodes {
		if action == code {
			return CategoryAdminVoucher
		}
	}
	if _, ok := domain.ParseAction(action); ok {
		return CategoryScreen
	}
	if domain.PriceTier(action).Valid() {
		return CategoryPrice
	}
	if domain.Language(action).Valid() {
		return CategoryLanguage
	}
	return CategoryIgnored
}

// Apply returns the session after action. Unknown actions leave it unchanged.
func (a *Applier) Apply(s domain.Session, action string, view LedgerView) (domain.Session, Category) {
	category := a.Classify(s, action, view)

	switch category {
	case CategoryUserVoucher:
		v, _ := ownedVoucher(s, action, view)
		s.Focus = domain.UserVoucherFocus{Code: v.Code, ChatID: s.ChatID}
		s.Screen = ""

	case CategoryAdminVoucher:
		s.Focus = domain.AdminVoucherFocus{Code: action}
		s.Screen = ""

	case CategoryScreen:
		// Screens act on the current focus, so it is kept
		s.Screen = domain.Action(action)

	case CategoryPrice:
		tier := domain.PriceTier(action)
		current, ok := s.SelectedPrice()
		if ok && current == tier {
			return s, category
		}
		s.PrevPrice = current
		s.Focus = domain.PriceFocus{Tier: tier}
		s.Screen = ""
		s.DarkSoulCode = a.newCode()

	case CategoryLanguage:
		s.PrevLang = s.Lang
		s.Lang = domain.Language(action)
		s.Focus = nil
		s.Screen = ""
		s.DarkSoulCode = ""
	}

	return s, category
}

// ownedVoucher finds the chat's active voucher whose composite key equals action
func ownedVoucher(s domain.Session, action string, view LedgerView) (domain.Voucher, bool) {
	for _, v := range view.Owned {
		if v.Active && v.OwnerChatID == s.ChatID && action == domain.UserVoucherKey(v.Code, s.ChatID) {
			return v, true
		}
	}
	return domain.Voucher{}, false
}
