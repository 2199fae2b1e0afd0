package domain

// Action identifies a screen the bot can render
type Action string

// Main menu screens
const (
	ActionStart      Action = "start"
	ActionMainMenu   Action = "all_commands"
	ActionFAQ        Action = "faq"
	ActionFAQHowTo   Action = "how_to"
	ActionFAQCare    Action = "care"
	ActionFAQHowMuch Action = "how_much"
	ActionContact    Action = "kontakt"
	ActionLocation   Action = "local"
	ActionCancelForm Action = "cancel"
)

// Voucher screens
const (
	ActionVoucherMenu          Action = "voucher"
	ActionEVoucher             Action = "e_voucher"
	ActionPaperVoucher         Action = "paper_voucher"
	ActionPriceMore            Action = "price_more"
	ActionChangePrice          Action = "change_price"
	ActionManagePrice          Action = "manage_price"
	ActionCheckPayment         Action = "check"
	ActionGetInChat            Action = "get_in_chat"
	ActionGetInEmail           Action = "get_in_email"
	ActionUserVouchers         Action = "user_vouchers"
	ActionUserActiveVouchers   Action = "user_active_vouchers"
	ActionUserInactiveVouchers Action = "user_inactive_vouchers"
	ActionSelectedUserVoucher  Action = "selected_user_active_voucher"
)

// Admin panel screens
const (
	ActionAdmin          Action = "admin"
	ActionStatistics     Action = "statistics"
	ActionAddVoucher     Action = "add_voucher"
	ActionChangeForm     Action = "change"
	ActionSaveVoucher    Action = "save"
	ActionActiveVouchers Action = "check_voucher"
	ActionUsedVouchers   Action = "activated"
	ActionActivate       Action = "activate"
	ActionExportLedger   Action = "db_in_chat"
)

// Screens the resolver routes to on its own; buttons never carry them
const (
	ActionAdminSelectedVoucher Action = "admin_selected_voucher"
	ActionAlreadySelected      Action = "already_selected"
)

var screenActions = map[Action]struct{}{
	ActionStart: {}, ActionMainMenu: {}, ActionFAQ: {}, ActionFAQHowTo: {}, ActionFAQCare: {},
	ActionFAQHowMuch: {}, ActionContact: {}, ActionLocation: {}, ActionCancelForm: {},
	ActionVoucherMenu: {}, ActionEVoucher: {}, ActionPaperVoucher: {}, ActionPriceMore: {},
	ActionChangePrice: {}, ActionManagePrice: {}, ActionCheckPayment: {}, ActionGetInChat: {},
	ActionGetInEmail: {}, ActionUserVouchers: {}, ActionUserActiveVouchers: {},
	ActionUserInactiveVouchers: {}, ActionSelectedUserVoucher: {},
}

var adminActions = map[Action]struct{}{
	ActionAdmin: {}, ActionStatistics: {}, ActionAddVoucher: {}, ActionChangeForm: {},
	ActionSaveVoucher: {}, ActionActiveVouchers: {}, ActionUsedVouchers: {}, ActionActivate: {},
	ActionExportLedger: {},
}

// ParseAction reports whether raw names a known screen or admin-panel action
func ParseAction(raw string) (Action, bool) {
	a := Action(raw)
	if _, ok := screenActions[a]; ok {
		return a, true
	}
	if _, ok := adminActions[a]; ok {
		return a, true
	}
	return "", false
}

// IsAdmin reports whether the action belongs to the admin panel
func (a Action) IsAdmin() bool {
	_, ok := adminActions[a]
	return ok
}

// AllActions lists every action a screen has to exist for
func AllActions() []Action {
	out := make([]Action, 0, len(screenActions)+len(adminActions)+2)
	for a := range screenActions {
		out = append(out, a)
	}
	for a := range adminActions {
		out = append(out, a)
	}
	return append(out, ActionAdminSelectedVoucher, ActionAlreadySelected)
}

// Language is a UI language code
type Language string

const (
	LangRU  Language = "RU"
	LangENG Language = "ENG"
	LangPL  Language = "PL"
)

// Languages lists the supported UI languages in picker order
var Languages = []Language{LangRU, LangENG, LangPL}

// Valid reports whether l is a supported language
func (l Language) Valid() bool {
	switch l {
	case LangRU, LangENG, LangPL:
		return true
	}
	return false
}

// PriceTier is one of the fixed e-voucher amounts in PLN
type PriceTier string

const (
	Price300  PriceTier = "300"
	Price600  PriceTier = "600"
	Price800  PriceTier = "800"
	Price1000 PriceTier = "1000"
)

// PriceTiers lists the fixed tiers in ascending order
var PriceTiers = []PriceTier{Price300, Price600, Price800, Price1000}

// Valid reports whether p is one of the fixed tiers
func (p PriceTier) Valid() bool {
	switch p {
	case Price300, Price600, Price800, Price1000:
		return true
	}
	return false
}
