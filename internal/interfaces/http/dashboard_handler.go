package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/analytics"
)

// DashboardHandler expone el resumen del tablero.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler del tablero.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del tablero
// @Description  Registros por estado y movimientos del mes en curso de toda la empresa.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext(), "")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PortalSummary godoc
// @Summary      Resumen del portal
// @Description  Igual que el tablero pero limitado a los datos del cliente del token.
// @Tags         portal
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/portal/dashboard [get]
func (h *DashboardHandler) PortalSummary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
