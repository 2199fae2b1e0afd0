package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"voucherbot/internal/domain"
	"voucherbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// adminMarkup is the admin panel
func (h *Handler) adminMarkup(lang domain.Language) *tele.ReplyMarkup {
	k := h.keyboard(lang)
	return k.
		row(k.btn("btn_statistics", domain.ActionStatistics), k.btn("btn_add_voucher", domain.ActionAddVoucher)).
		row(k.btn("btn_admin_active", domain.ActionActiveVouchers), k.btn("btn_admin_used", domain.ActionUsedVouchers)).
		row(k.btn("btn_export", domain.ActionExportLedger)).
		build()
}

// formSummaryMarkup confirms or restarts a filled voucher form
func (h *Handler) formSummaryMarkup(lang domain.Language) *tele.ReplyMarkup {
	k := h.keyboard(lang)
	return k.
		row(k.btn("btn_save", domain.ActionSaveVoucher), k.btn("btn_change", domain.ActionChangeForm)).
		back(domain.ActionAdmin).
		build()
}

func (h *Handler) screenAdmin(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	return h.show(c, h.text(lang, "admin_panel"), h.adminMarkup(lang))
}

func (h *Handler) screenStatistics(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	stats, err := h.svc.Stats.Collect(ctx)
	if err != nil {
		return err
	}
	return h.show(c, h.statisticsText(lang, stats), h.keyboard(lang).back(domain.ActionAdmin).build())
}

func (h *Handler) statisticsText(lang domain.Language, stats domain.Stats) string {
	lastSale := h.text(lang, "no_sales")
	if stats.LastSale != nil {
		lastSale = stats.LastSale.Format("2006-01-02 15:04")
	}
	return h.text(lang, "statistics", stats.Chats, stats.Vouchers, stats.TotalValue, lastSale)
}

func (h *Handler) screenAddVoucher(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	return h.show(c, h.text(lang, "add_voucher_help"), h.keyboard(lang).back(domain.ActionAdmin).build())
}

// screenChangeForm restarts the voucher form from the first question
func (h *Handler) screenChangeForm(ctx context.Context, c tele.Context, out service.Outcome) error {
	h.svc.Forms.Start(out.Session.ChatID)
	return h.sendNew(c, h.text(out.Session.Language(), "form_code"))
}

// screenSaveVoucher writes a completed form to the ledger
func (h *Handler) screenSaveVoucher(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	chatID := out.Session.ChatID

	form, err := h.svc.Forms.Take(chatID)
	if errors.Is(err, domain.ErrFormIncomplete) {
		return h.show(c, h.text(lang, "form_missing"), h.keyboard(lang).back(domain.ActionAdmin).build())
	}
	if err != nil {
		return err
	}

	err = h.svc.Vouchers.IssueManual(ctx, chatID, form.Code, form.Value)
	if errors.Is(err, domain.ErrDuplicateVoucher) {
		return h.show(c, h.text(lang, "voucher_duplicate", form.Code), h.keyboard(lang).back(domain.ActionAdmin).build())
	}
	if err != nil {
		return err
	}
	return h.show(c, h.text(lang, "voucher_saved", form.Code), h.adminMarkup(lang))
}

func (h *Handler) screenAdminActiveVouchers(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	vouchers, err := h.svc.Vouchers.ActiveVouchers(ctx)
	if err != nil {
		return err
	}
	if len(vouchers) == 0 {
		return h.show(c, h.text(lang, "admin_vouchers_empty"), h.keyboard(lang).back(domain.ActionAdmin).build())
	}
	action := func(v domain.Voucher) string { return v.Code }
	return h.show(c, h.text(lang, "admin_active_vouchers"), h.voucherListMarkup(lang, vouchers, action, domain.ActionAdmin))
}

func (h *Handler) screenAdminUsedVouchers(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	vouchers, err := h.svc.Vouchers.RedeemedVouchers(ctx)
	if err != nil {
		return err
	}
	back := h.keyboard(lang).back(domain.ActionAdmin).build()
	if len(vouchers) == 0 {
		return h.show(c, h.text(lang, "admin_vouchers_empty"), back)
	}
	return h.show(c, h.text(lang, "admin_used_vouchers")+"\n\n"+voucherLines(vouchers), back)
}

func (h *Handler) screenAdminSelectedVoucher(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	v, err := h.svc.Vouchers.Selected(ctx, out.Session)
	if err != nil {
		return err
	}
	if v == nil {
		if err := h.svc.Flow.ClearFocus(ctx, out.Session.ChatID); err != nil {
			return err
		}
		return h.show(c, h.text(lang, "voucher_missing"), h.keyboard(lang).back(domain.ActionActiveVouchers).build())
	}

	k := h.keyboard(lang)
	markup := k.
		row(k.btn("btn_activate", domain.ActionActivate)).
		back(domain.ActionActiveVouchers).
		build()
	return h.show(c, h.text(lang, "admin_selected_voucher", v.Code, v.Value, v.DateString()), markup)
}

// screenActivate redeems the voucher the admin is looking at
func (h *Handler) screenActivate(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	back := h.keyboard(lang).back(domain.ActionActiveVouchers).build()

	code, err := h.svc.Vouchers.Activate(ctx, out.Session.ChatID)
	switch {
	case errors.Is(err, domain.ErrNoVoucherSelected):
		return h.notify(c, h.text(lang, "no_voucher_selected"))
	case errors.Is(err, domain.ErrVoucherNotActive):
		return h.show(c, h.text(lang, "voucher_already_redeemed", code), back)
	case err != nil:
		return err
	}
	return h.show(c, h.text(lang, "voucher_activated", code), back)
}

// screenExportLedger sends the whole voucher table as a CSV document
func (h *Handler) screenExportLedger(ctx context.Context, c tele.Context, out service.Outcome) error {
	lang := out.Session.Language()
	vouchers, err := h.svc.Vouchers.Ledger(ctx)
	if err != nil {
		return err
	}

	data, err := ledgerCSV(vouchers)
	if err != nil {
		return err
	}
	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(data)),
		FileName: fmt.Sprintf("vouchers_%s.csv", time.Now().Format("20060102")),
		MIME:     "text/csv",
		Caption:  h.text(lang, "export_caption", len(vouchers)),
	}
	h.logger.Info("Ledger exported", zap.Int64("chat_id", out.Session.ChatID), zap.Int("rows", len(vouchers)))
	return h.sendNew(c, doc)
}

// ledgerCSV renders vouchers with a header row
func ledgerCSV(vouchers []domain.Voucher) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"code", "chat_id", "value", "date", "active"}); err != nil {
		return nil, err
	}
	for _, v := range vouchers {
		row := []string{
			v.Code,
			strconv.FormatInt(v.OwnerChatID, 10),
			strconv.Itoa(v.Value),
			v.DateString(),
			strconv.FormatBool(v.Active),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write ledger csv: %w", err)
	}
	return buf.Bytes(), nil
}

// SendDigest posts the daily statistics to every admin chat
func (h *Handler) SendDigest(ctx context.Context, stats domain.Stats) {
	for id := range h.admins {
		if ctx.Err() != nil {
			return
		}
		lang := domain.LangENG
		if sess, err := h.svc.Flow.Session(ctx, id); err == nil {
			lang = sess.Language()
		}
		if _, err := h.bot.Send(tele.ChatID(id), h.statisticsText(lang, stats)); err != nil {
			h.logger.Warn("Failed to send digest", zap.Int64("chat_id", id), zap.Error(err))
		}
	}
}
