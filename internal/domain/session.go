package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Session is the durable per-chat navigation record
type Session struct {
	ChatID       int64
	Lang         Language
	PrevLang     Language
	Screen       Action // one-shot screen command, cleared after every resolution
	PrevFunc     Action
	Focus        Focus
	PrevPrice    PriceTier
	DarkSoulCode string
	Email        string
}

// NewSession returns the row inserted on first contact with a chat
func NewSession(chatID int64) Session {
	return Session{
		ChatID:   chatID,
		PrevFunc: ActionStart,
	}
}

// Language returns the language used for copy, falling back to English
func (s Session) Language() Language {
	if s.Lang.Valid() {
		return s.Lang
	}
	return LangENG
}

// SelectedPrice returns the price tier in focus, if any
func (s Session) SelectedPrice() (PriceTier, bool) {
	if f, ok := s.Focus.(PriceFocus); ok {
		return f.Tier, true
	}
	return "", false
}

// Focus is what the chat is currently looking at. Exactly one variant (or none) is
// active per session: an admin-selected voucher, an end user's own voucher or a price tier.
type Focus interface {
	isFocus()
}

// AdminVoucherFocus is a ledger code picked from the admin panel
type AdminVoucherFocus struct {
	Code string
}

// UserVoucherFocus is one of the chat's own active vouchers
type UserVoucherFocus struct {
	Code   string
	ChatID int64
}

// PriceFocus is a pending e-voucher price pick
type PriceFocus struct {
	Tier PriceTier
}

func (AdminVoucherFocus) isFocus() {}
func (UserVoucherFocus) isFocus()  {}
func (PriceFocus) isFocus()        {}

// UserVoucherKey builds the composite "<code>-<chat_id>" key used on end-user buttons
func UserVoucherKey(code string, chatID int64) string {
	return fmt.Sprintf("%s-%d", code, chatID)
}

// Key returns the composite key stored in user_selected_voucher
func (f UserVoucherFocus) Key() string {
	return UserVoucherKey(f.Code, f.ChatID)
}

// ParseUserVoucherKey splits a composite key at the dash that starts the chat id
func ParseUserVoucherKey(key string) (UserVoucherFocus, error) {
	i := strings.LastIndex(key, "-")
	if i > 0 && key[i-1] == '-' {
		// group chats have negative ids
		i--
	}
	if i <= 0 || i >= len(key)-1 {
		return UserVoucherFocus{}, fmt.Errorf("invalid user voucher key %q", key)
	}
	chatID, err := strconv.ParseInt(key[i+1:], 10, 64)
	if err != nil {
		return UserVoucherFocus{}, fmt.Errorf("invalid user voucher key %q: %w", key, err)
	}
	return UserVoucherFocus{Code: key[:i], ChatID: chatID}, nil
}
