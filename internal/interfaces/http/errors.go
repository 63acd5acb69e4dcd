package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/crud"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
	"github.com/jhoicas/Gestion-api/pkg/logger"
)

// respondError traduce los errores de dominio a respuestas HTTP. Lo que no
// reconoce se devuelve tal cual para que lo registre el ErrorHandler de Fiber.
func respondError(c *fiber.Ctx, err error) error {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:   "VALIDATION",
			Error:  "Revise los campos marcados",
			Fields: verr.Fields,
		})
	}
	status, code := statusFor(err)
	if status == 0 {
		return err
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Error: err.Error()})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownResource):
		return fiber.StatusNotFound, "UNKNOWN_RESOURCE"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrTokenRevoked):
		return fiber.StatusUnauthorized, "TOKEN_REVOKED"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests, "RATE_LIMITED"
	case errors.Is(err, crud.ErrStorageDisabled):
		return fiber.StatusServiceUnavailable, "STORAGE_DISABLED"
	}
	return 0, ""
}

// ErrorHandler manejador final de Fiber: errores propios de Fiber (404 de
// ruta, cuerpo demasiado grande) y errores internos, que se registran.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return c.Status(ferr.Code).JSON(dto.ErrorResponse{Code: "HTTP", Error: ferr.Message})
		}
		if status, code := statusFor(err); status != 0 {
			return c.Status(status).JSON(dto.ErrorResponse{Code: code, Error: err.Error()})
		}
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Error: "error interno del servidor"})
	}
}
