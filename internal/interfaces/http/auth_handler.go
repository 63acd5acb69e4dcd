package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/auth"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// AuthHandler maneja registro, login (usuarios y portal) y logout.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar usuario
// @Description  El primer usuario del sistema queda como admin.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name"
// @Success      201   {object}  dto.UserResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	user, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión (usuarios internos)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	resp, err := h.uc.Login(c.UserContext(), in, c.IP())
	metrics.Login(jwt.KindUser, loginResult(err))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// CustomerLogin godoc
// @Summary      Iniciar sesión en el portal de clientes
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/customer/login [post]
func (h *AuthHandler) CustomerLogin(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	resp, err := h.uc.CustomerLogin(c.UserContext(), in, c.IP())
	metrics.Login(jwt.KindCustomer, loginResult(err))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Revoca el token hasta su expiración.
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetClaims(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Identidad del token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MeResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := GetClaims(c)
	if claims == nil {
		return respondError(c, domain.ErrUnauthorized)
	}
	me, err := h.uc.Me(c.UserContext(), claims)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(me)
}

// SetCustomerPassword godoc
// @Summary      Habilitar acceso al portal
// @Description  Fija o cambia el password de portal de un cliente. Solo admin y manager.
// @Tags         customers
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID del cliente"
// @Param        body  body  dto.SetPasswordRequest  true  "password"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/password [put]
func (h *AuthHandler) SetCustomerPassword(c *fiber.Ctx) error {
	var in dto.SetPasswordRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.uc.SetCustomerPassword(c.UserContext(), c.Params("id"), in.Password); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// bindBody parsea el JSON y valida los tags validate del DTO. Los fallos de
// validación salen como *schema.ValidationError (422 con errores por campo).
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	if err := validate.Struct(out); err != nil {
		return &schema.ValidationError{Fields: validationFields(err)}
	}
	return nil
}

func validationFields(err error) schema.Errors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return schema.Errors{"body": "Valor inválido"}
	}
	out := make(schema.Errors, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			out[name] = "Este campo es obligatorio"
		case "email":
			out[name] = "Ingrese un email válido"
		case "min":
			out[name] = "Debe tener al menos " + fe.Param() + " caracteres"
		case "max":
			out[name] = "Debe tener como máximo " + fe.Param() + " caracteres"
		default:
			out[name] = "Valor inválido"
		}
	}
	return out
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrRateLimited):
		return "limited"
	default:
		return "denied"
	}
}
