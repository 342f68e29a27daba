package serverutils

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/SophiaCH21/NoteBookApp/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				slogx.Error(c.UserContext(), "panic recovered",
					slog.String("panic", fmt.Sprintf("%v", r)),
					slog.String("stack", string(debug.Stack())),
				)
				err = writeInternal(c)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		return WriteError(c, err)
	}
}

// WriteError renders err as a {code, message} body. Unknown errors become a
// generic 500; their cause only reaches the log.
func WriteError(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse(ve.ToErrorDetails()))
	}

	switch {
	case errors.Is(err, ErrInternal):
		return internalError(c, err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrAlreadyExists):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, err.Error()))
	case errors.Is(err, ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, err.Error()))
	case errors.Is(err, ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, err.Error()))
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, err.Error()))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return c.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	return internalError(c, err)
}

func internalError(c *fiber.Ctx, err error) error {
	slogx.Error(c.UserContext(), "request failed",
		slogx.Err(err),
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
	)
	return writeInternal(c)
}

func writeInternal(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(
		fiber.StatusInternalServerError, ErrInternal.Error(),
	))
}

// FiberErrorHandler catches errors that escape the middleware chain, such as
// body limit violations raised by fasthttp before any handler runs.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	return WriteError(c, err)
}
