package telegram

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// handle runs fn for one update. Errors and panics are logged and answered
// with msgInternalError; the polling loop keeps going either way.
func (h *Handler) handle(ctx context.Context, chatID int64, route string, fn HandlerFunc) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("telegram handler panic",
				zap.Int64("chat_id", chatID),
				zap.String("route", route),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			h.sendError(chatID, msgInternalError)
		}
	}()

	if err := fn(ctx, chatID); err != nil {
		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.String("route", route),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return
	}

	h.logger.Debug("update handled",
		zap.Int64("chat_id", chatID),
		zap.String("route", route),
		zap.Duration("took", time.Since(start)),
	)
}
