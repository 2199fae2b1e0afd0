package handler

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// callbackAction extracts the action id a button carries.
// Buttons are built with a unique and no payload, so either field may hold it.
func callbackAction(cb *tele.Callback) string {
	if cb == nil {
		return ""
	}
	if unique := cleanCallbackData(cb.Unique); unique != "" {
		return unique
	}
	data := cleanCallbackData(cb.Data)
	// "unique|payload" when telebot did not split it
	if i := strings.Index(data, "|"); i >= 0 {
		data = data[:i]
	}
	return data
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, chatID int64) error {
	if err == nil {
		return nil
	}

	// Same screen drawn twice in a row
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already up to date, acknowledging",
			zap.Int64("chat_id", chatID),
			zap.String("callback_id", c.Callback().ID),
		)
		_ = c.Respond()
		return nil
	}

	h.logger.Debug("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("chat_id", chatID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	action := callbackAction(callback)
	h.logger.Debug("Processing callback",
		zap.String("action", action),
		zap.String("data_raw", callback.Data),
		zap.String("id", callback.ID),
		zap.Int64("chat_id", c.Chat().ID),
	)

	if action == "" {
		return c.Respond()
	}
	return h.dispatch(c, action)
}

// show edits the pressed message in place, or sends a new one
func (h *Handler) show(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, c.Chat().ID); handleErr == nil {
				return nil
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}

// sendNew always sends a fresh message, for media that cannot replace text
func (h *Handler) sendNew(c tele.Context, what interface{}, opts ...interface{}) error {
	if c.Callback() != nil {
		if err := c.Respond(); err != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}
	}
	return c.Send(what, opts...)
}

// notify pops a toast for button presses and a plain message otherwise
func (h *Handler) notify(c tele.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text})
	}
	return c.Send(text)
}
