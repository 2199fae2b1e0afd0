package handler

import (
	"fmt"
	"strings"

	"voucherbot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

const (
	instagramURL = "https://www.instagram.com/alexandr_darksoul/"
	facebookURL  = "https://www.facebook.com/AlexINKINK/"

	studioLat = 52.234496916779186
	studioLng = 21.0165569344955
)

// keyboard builds an inline keyboard in the session language
type keyboard struct {
	h      *Handler
	lang   domain.Language
	markup *tele.ReplyMarkup
	rows   []tele.Row
}

func (h *Handler) keyboard(lang domain.Language) *keyboard {
	return &keyboard{h: h, lang: lang, markup: &tele.ReplyMarkup{}}
}

// btn is a button labelled with localized copy that triggers action
func (k *keyboard) btn(key string, action domain.Action) tele.Btn {
	return k.markup.Data(k.h.text(k.lang, key), string(action))
}

// raw is a button with a literal label and action id
func (k *keyboard) raw(label, action string) tele.Btn {
	return k.markup.Data(label, action)
}

func (k *keyboard) url(label, link string) tele.Btn {
	return k.markup.URL(label, link)
}

func (k *keyboard) row(btns ...tele.Btn) *keyboard {
	k.rows = append(k.rows, k.markup.Row(btns...))
	return k
}

// back adds a single back button leading to action
func (k *keyboard) back(action domain.Action) *keyboard {
	return k.row(k.btn("btn_back", action))
}

func (k *keyboard) mainMenu() *keyboard {
	return k.row(k.btn("btn_main_menu", domain.ActionMainMenu))
}

func (k *keyboard) build() *tele.ReplyMarkup {
	k.markup.Inline(k.rows...)
	return k.markup
}

// languageMarkup is the first-run language picker
func (h *Handler) languageMarkup() *tele.ReplyMarkup {
	k := h.keyboard(domain.LangENG)
	return k.row(
		k.raw("🇺🇦 RU", string(domain.LangRU)),
		k.raw("🇺🇲 ENG", string(domain.LangENG)),
		k.raw("🇵🇱 PL", string(domain.LangPL)),
	).build()
}

// mainMenuMarkup lists the top level sections two per row
func (h *Handler) mainMenuMarkup(lang domain.Language) *tele.ReplyMarkup {
	k := h.keyboard(lang)
	return k.
		row(k.btn("btn_start", domain.ActionStart), k.btn("btn_faq", domain.ActionFAQ)).
		row(k.btn("btn_contact", domain.ActionContact), k.btn("btn_location", domain.ActionLocation)).
		row(k.btn("btn_voucher", domain.ActionVoucherMenu)).
		build()
}

func (h *Handler) mainMenuOnly(lang domain.Language) *tele.ReplyMarkup {
	return h.keyboard(lang).mainMenu().build()
}

// priceListMarkup offers every fixed tier plus the custom amount screen
func (h *Handler) priceListMarkup(lang domain.Language) *tele.ReplyMarkup {
	k := h.keyboard(lang)
	tiers := make([]tele.Btn, 0, len(domain.PriceTiers))
	for _, tier := range domain.PriceTiers {
		tiers = append(tiers, k.raw(fmt.Sprintf("%s PLN", tier), string(tier)))
	}
	return k.
		row(tiers[:2]...).
		row(tiers[2:]...).
		row(k.btn("btn_price_more", domain.ActionPriceMore)).
		back(domain.ActionVoucherMenu).
		build()
}

// socialMarkup links the artist's profiles
func (h *Handler) socialMarkup(lang domain.Language, back domain.Action) *tele.ReplyMarkup {
	k := h.keyboard(lang)
	return k.
		row(k.url("Instagram", instagramURL), k.url("Facebook", facebookURL)).
		back(back).
		build()
}

// voucherListMarkup has one button per voucher, labelled with code and value
func (h *Handler) voucherListMarkup(lang domain.Language, vouchers []domain.Voucher, action func(domain.Voucher) string, back domain.Action) *tele.ReplyMarkup {
	k := h.keyboard(lang)
	for _, v := range vouchers {
		k.row(k.raw(fmt.Sprintf("%s | %d PLN", v.Code, v.Value), action(v)))
	}
	return k.back(back).build()
}

// voucherLines renders vouchers as plain text, one per line
func voucherLines(vouchers []domain.Voucher) string {
	lines := make([]string, 0, len(vouchers))
	for _, v := range vouchers {
		lines = append(lines, fmt.Sprintf("%s | %d PLN | %s", v.Code, v.Value, v.DateString()))
	}
	return strings.Join(lines, "\n")
}
