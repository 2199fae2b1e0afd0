package handler

import (
	"context"
	"errors"

	"voucherbot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	h.logger.Info("Chat started bot",
		zap.Int64("chat_id", c.Chat().ID),
		zap.String("username", c.Chat().Username),
	)
	return h.dispatch(c, string(domain.ActionStart))
}

// handleCancel handles /cancel command
func (h *Handler) handleCancel(c tele.Context) error {
	return h.dispatch(c, string(domain.ActionCancelForm))
}

// handleAdmin handles /admin command
func (h *Handler) handleAdmin(c tele.Context) error {
	return h.dispatch(c, string(domain.ActionAdmin))
}

// handleAdd starts the manual voucher form
func (h *Handler) handleAdd(c tele.Context) error {
	chatID := c.Chat().ID
	h.svc.Forms.Start(chatID)
	h.logger.Info("Voucher form started", zap.Int64("chat_id", chatID))
	return c.Send(h.text(h.language(c), "form_code"))
}

// handleAccessDenied answers anything a non-admin is not allowed to see
func (h *Handler) handleAccessDenied(c tele.Context) error {
	text := h.text(domain.LangENG, "access_denied")
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}

// handleText feeds admin replies into the voucher form. Other text is ignored.
func (h *Handler) handleText(c tele.Context) error {
	chatID := c.Chat().ID
	if !h.isAdmin(chatID) {
		return nil
	}
	if _, ok := h.svc.Forms.Get(chatID); !ok {
		return nil
	}

	lang := h.language(c)
	form, err := h.svc.Forms.Answer(chatID, c.Text())
	switch {
	case errors.Is(err, domain.ErrInvalidVoucherCode):
		return c.Send(h.text(lang, "invalid_code"))
	case errors.Is(err, domain.ErrInvalidVoucherValue):
		return c.Send(h.text(lang, "invalid_value"))
	case errors.Is(err, domain.ErrFormIncomplete):
		return c.Send(h.text(lang, "form_missing"))
	case err != nil:
		h.logger.Error("Failed to record form answer", zap.Int64("chat_id", chatID), zap.Error(err))
		return c.Send(h.text(lang, "error_generic"))
	}

	switch form.Step {
	case domain.FormAwaitValue:
		return c.Send(h.text(lang, "form_value"))
	case domain.FormComplete:
		return c.Send(h.text(lang, "form_summary", form.Code, form.Value), h.formSummaryMarkup(lang))
	}
	return nil
}

// language looks up the chat's language outside of a dispatch
func (h *Handler) language(c tele.Context) domain.Language {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	sess, err := h.svc.Flow.Session(ctx, c.Chat().ID)
	if err != nil {
		h.logger.Warn("Failed to load session language", zap.Int64("chat_id", c.Chat().ID), zap.Error(err))
		return domain.LangENG
	}
	return sess.Language()
}
