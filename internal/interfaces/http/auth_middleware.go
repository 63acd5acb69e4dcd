package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/crud"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

// Locals keys para los datos del token en Fiber.
const (
	LocalClaims  = "claims"
	LocalSubject = "subject"
	LocalKind    = "kind"
	LocalRole    = "role"
)

// TokenChecker comprueba que un token válido no haya sido revocado (logout).
type TokenChecker interface {
	CheckToken(ctx context.Context, claims *jwt.Claims) error
}

// AuthMiddleware valida el Bearer Token JWT y deja los claims en c.Locals.
// checker puede ser nil (sin revocación).
func AuthMiddleware(jwtSecret string, checker TokenChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Error: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Error: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Error: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Error: "token inválido o expirado"})
		}
		if checker != nil {
			if err := checker.CheckToken(c.UserContext(), claims); err != nil {
				return respondError(c, err)
			}
		}
		c.Locals(LocalClaims, claims)
		c.Locals(LocalSubject, claims.Subject)
		c.Locals(LocalKind, claims.Kind)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireKind restringe la ruta a un tipo de token (usuario interno o cliente).
func RequireKind(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetKind(c) != kind {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Error: "tipo de cuenta no permitido"})
		}
		return c.Next()
	}
}

// RequireRole deja pasar solo a usuarios internos con alguno de los roles.
// Sin roles, cualquier usuario interno autenticado pasa.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetKind(c) != jwt.KindUser {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Error: "acceso solo para usuarios internos"})
		}
		if len(roles) == 0 {
			return c.Next()
		}
		role := GetRole(c)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Error: "rol sin permiso para esta operación"})
	}
}

// GetUserID devuelve el subject del token (id de usuario o de cliente).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalSubject) }

// GetKind devuelve el tipo de token.
func GetKind(c *fiber.Ctx) string { return localString(c, LocalKind) }

// GetRole devuelve el rol del usuario interno (vacío para clientes).
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetClaims devuelve los claims completos (logout, me).
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(LocalClaims).(*jwt.Claims)
	return claims
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// actorFrom arma el actor de los casos de uso a partir del token.
func actorFrom(c *fiber.Ctx) crud.Actor {
	return crud.Actor{Kind: GetKind(c), ID: GetUserID(c), Role: GetRole(c)}
}
