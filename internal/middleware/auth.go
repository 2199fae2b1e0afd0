package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AdminOnly lets admin chats through and hands everyone else to deny
func AdminOnly(isAdmin func(chatID int64) bool, deny tele.HandlerFunc, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil || !isAdmin(chat.ID) {
				var chatID int64
				if chat != nil {
					chatID = chat.ID
				}
				logger.Warn("Admin command denied",
					zap.Int64("chat_id", chatID),
					zap.String("text", c.Text()),
				)
				return deny(c)
			}
			return next(c)
		}
	}
}
