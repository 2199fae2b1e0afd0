package handler

import (
	"bytes"
	"context"
	"errors"

	"voucherbot/internal/domain"
	"voucherbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func (h *Handler) screenStart(ctx context.Context, c tele.Context, out service.Outcome) error {
	return h.show(c, h.text(out.Session.Language(), "start"), h.languageMarkup())
}

func (h *Handler) screenMainMenu(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	return h.show(c, h.text(lang, "main_menu"), h.mainMenuMarkup(lang))
}

func (h *Handler) screenAlreadySelected(ctx context.Context, c tele.Context, out service.Outcome) error {
	return h.notify(c, h.text(out.Session.Language(), "already_selected"))
}

func (h *Handler) screenFAQ(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	k := h.keyboard(lang)
	markup := k.
		row(k.btn("btn_how_to", domain.ActionFAQHowTo)).
		row(k.btn("btn_care", domain.ActionFAQCare)).
		row(k.btn("btn_how_much", domain.ActionFAQHowMuch)).
		mainMenu().
		build()
	return h.show(c, h.text(lang, "faq"), markup)
}

// screenFAQTopic shows one FAQ answer
func (h *Handler) screenFAQTopic(key string) screenFunc {
	return func(ctx context.Context, c tele.Context, out service.Outcome) error {
		lang := out.Session.Language()
		return h.show(c, h.text(lang, key), h.keyboard(lang).back(domain.ActionFAQ).build())
	}
}

func (h *Handler) screenContact(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	return h.show(c, h.text(lang, "contact"), h.socialMarkup(lang, domain.ActionMainMenu))
}

func (h *Handler) screenLocation(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	if err := h.sendNew(c, &tele.Location{Lat: studioLat, Lng: studioLng}); err != nil {
		return err
	}
	return c.Send(h.text(lang, "location"), h.mainMenuOnly(lang))
}

// screenCancelForm drops an in-progress voucher form
func (h *Handler) screenCancelForm(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	if !h.svc.Forms.Cancel(out.Session.ChatID) {
		return h.show(c, h.text(lang, "form_missing"), h.mainMenuOnly(lang))
	}
	h.logger.Info("Voucher form cancelled", zap.Int64("chat_id", out.Session.ChatID))
	return h.show(c, h.text(lang, "form_cancelled"), h.mainMenuOnly(lang))
}

func (h *Handler) screenVoucherMenu(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	k := h.keyboard(lang)
	markup := k.
		row(k.btn("btn_e_voucher", domain.ActionEVoucher), k.btn("btn_paper_voucher", domain.ActionPaperVoucher)).
		row(k.btn("btn_my_vouchers", domain.ActionUserVouchers)).
		mainMenu().
		build()
	return h.show(c, h.text(lang, "voucher_menu"), markup)
}

func (h *Handler) screenPriceList(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	return h.show(c, h.text(lang, "price_list"), h.priceListMarkup(lang))
}

// screenContactInfo points the chat at the artist's profiles
func (h *Handler) screenContactInfo(key string, back domain.Action) screenFunc {
	return func(ctx context.Context, c tele.Context, out service.Outcome) error {
		lang := out.Session.Language()
		return h.show(c, h.text(lang, key), h.socialMarkup(lang, back))
	}
}

// screenPayment shows the checkout link and confirmation code for the chosen tier
func (h *Handler) screenPayment(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	tier, ok := out.Session.SelectedPrice()
	if !ok || out.Session.DarkSoulCode == "" {
		return h.screenPriceList(ctx, c, out)
	}

	k := h.keyboard(lang)
	markup := k.
		row(k.url(h.text(lang, "btn_pay"), h.svc.Payments.Link(tier))).
		row(k.btn("btn_change_price", domain.ActionChangePrice)).
		row(k.btn("btn_check_payment", domain.ActionCheckPayment)).
		mainMenu().
		build()
	return h.show(c, h.text(lang, "payment", tier, out.Session.DarkSoulCode), markup)
}

// screenCheckPayment mints the voucher once the checkout is found
func (h *Handler) screenCheckPayment(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	chatID := out.Session.ChatID

	voucher, err := h.svc.Payments.Confirm(ctx, chatID)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		return h.sendNew(c, h.text(lang, "invalid_payment"), h.keyboard(lang).back(domain.ActionManagePrice).build())
	}
	if err != nil {
		return err
	}

	sess, err := h.svc.Flow.Session(ctx, chatID)
	if err != nil {
		return err
	}
	k := h.keyboard(lang)
	markup := k.row(k.btn("btn_my_vouchers", domain.ActionUserVouchers)).mainMenu().build()
	return h.show(c, h.text(lang, "successful_payment", voucher.Value, voucher.Code, sess.Email), markup)
}

func (h *Handler) screenMyVouchers(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	k := h.keyboard(lang)
	markup := k.
		row(k.btn("btn_active_vouchers", domain.ActionUserActiveVouchers)).
		row(k.btn("btn_used_vouchers", domain.ActionUserInactiveVouchers)).
		back(domain.ActionVoucherMenu).
		build()
	return h.show(c, h.text(lang, "my_vouchers"), markup)
}

func (h *Handler) screenUserActiveVouchers(ctx context.Context, c tele.Context, out service.Outcome) error {
	return h.userVoucherList(ctx, c, out, true, "user_active_vouchers")
}

func (h *Handler) screenUserUsedVouchers(ctx context.Context, c tele.Context, out service.Outcome) error {
	return h.userVoucherList(ctx, c, out, false, "user_inactive_vouchers")
}

// userVoucherList lists the chat's own vouchers. Only active ones are buttons.
func (h *Handler) userVoucherList(ctx context.Context, c tele.Context, out service.Outcome, active bool, key string) error {
	lang := out.Session.Language()
	chatID := out.Session.ChatID

	vouchers, err := h.svc.Vouchers.UserVouchers(ctx, chatID, active)
	if err != nil {
		return err
	}
	if len(vouchers) == 0 {
		return h.show(c, h.text(lang, "user_vouchers_empty"), h.keyboard(lang).back(domain.ActionUserVouchers).build())
	}

	if !active {
		return h.show(c, h.text(lang, key)+"\n\n"+voucherLines(vouchers), h.keyboard(lang).back(domain.ActionUserVouchers).build())
	}
	action := func(v domain.Voucher) string {
		return domain.UserVoucherKey(v.Code, chatID)
	}
	return h.show(c, h.text(lang, key), h.voucherListMarkup(lang, vouchers, action, domain.ActionUserVouchers))
}

func (h *Handler) screenUserSelectedVoucher(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	v, err := h.svc.Vouchers.Selected(ctx, out.Session)
	if err != nil {
		return err
	}
	if v == nil || !v.Active {
		if err := h.svc.Flow.ClearFocus(ctx, out.Session.ChatID); err != nil {
			return err
		}
		return h.show(c, h.text(lang, "voucher_missing"), h.keyboard(lang).back(domain.ActionUserActiveVouchers).build())
	}

	k := h.keyboard(lang)
	markup := k.
		row(k.btn("btn_get_in_chat", domain.ActionGetInChat), k.btn("btn_get_in_email", domain.ActionGetInEmail)).
		back(domain.ActionUserActiveVouchers).
		build()
	return h.show(c, h.text(lang, "user_selected_voucher", v.Code, v.Value), markup)
}

// screenGetInChat sends the selected voucher as a PDF document
func (h *Handler) screenGetInChat(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	name, pdf, err := h.svc.Delivery.Document(ctx, out.Session)
	if errors.Is(err, domain.ErrNoVoucherSelected) {
		return h.notify(c, h.text(lang, "no_voucher_selected"))
	}
	if err != nil {
		return err
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(pdf)),
		FileName: name,
		MIME:     "application/pdf",
		Caption:  h.text(lang, "voucher_in_chat"),
	}
	if err := h.sendNew(c, doc); err != nil {
		return err
	}
	return c.Send(h.text(lang, "main_menu"), h.mainMenuMarkup(lang))
}

// screenGetInEmail mails the selected voucher to the address from the last payment
func (h *Handler) screenGetInEmail(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	to, err := h.svc.Delivery.Email(ctx, out.Session, h.text(lang, "email_subject"), h.text(lang, "email_body"))
	switch {
	case errors.Is(err, domain.ErrNoEmail):
		return h.notify(c, h.text(lang, "no_email"))
	case errors.Is(err, domain.ErrNoVoucherSelected):
		return h.notify(c, h.text(lang, "no_voucher_selected"))
	case err != nil:
		return err
	}
	return h.notify(c, h.text(lang, "email_sent", to))
}
