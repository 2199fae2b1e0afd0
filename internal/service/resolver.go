package service

import (
	"voucherbot/internal/domain"
)

// Resolve picks the single screen to render for a session.
// A pending screen command wins over the focus, the focus wins over a language change.
func Resolve(s domain.Session) domain.Action {
	if s.Screen != "" {
		return s.Screen
	}

	switch s.Focus.(type) {
	case domain.AdminVoucherFocus:
		return domain.ActionAdminSelectedVoucher
	case domain.UserVoucherFocus:
		return domain.ActionSelectedUserVoucher
	case domain.PriceFocus:
		return domain.ActionManagePrice
	}

	if s.PrevLang != s.Lang {
		return domain.ActionMainMenu
	}

	// Nothing changed. On first contact show the picker instead of the notice.
	if s.PrevFunc == domain.ActionStart {
		return domain.ActionStart
	}
	return domain.ActionAlreadySelected
}
