package middleware

import (
	"context"
	"time"

	"voucherbot/internal/lock"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// ChatLock handles one update per chat at a time
func ChatLock(locker lock.Locker, wait time.Duration, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(context.Background(), wait)
			defer cancel()

			unlock, err := locker.Lock(ctx, chat.ID)
			if err != nil {
				logger.Warn("Dropping update, chat is busy", zap.Int64("chat_id", chat.ID), zap.Error(err))
				if c.Callback() != nil {
					return c.Respond()
				}
				return nil
			}
			defer unlock()

			return next(c)
		}
	}
}
