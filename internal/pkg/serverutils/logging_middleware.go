package serverutils

import (
	"log/slog"
	"time"

	"github.com/SophiaCH21/NoteBookApp/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

// RequestLogMiddleware must be registered outside ErrorHandlerMiddleware so the
// logged status is the one actually written. It also puts the request id on
// the user context, so every record logged with that context carries it.
func RequestLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			c.SetUserContext(slogx.ContextWith(c.UserContext(), slogx.RequestID(id)))
		}

		err := c.Next()

		status := c.Response().StatusCode()
		level := slog.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest:
			level = slog.LevelWarn
		}

		slogx.Log(c.UserContext(), level, "http request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slogx.Duration(time.Since(start)),
		)

		return err
	}
}
