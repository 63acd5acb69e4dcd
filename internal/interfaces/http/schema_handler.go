package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/crud"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

// SchemaHandler sirve las definiciones de pantalla que el cliente renderiza:
// campos, columnas, acciones, modales y opciones.
type SchemaHandler struct {
	records *crud.UseCase
}

// NewSchemaHandler construye el handler de esquemas.
func NewSchemaHandler(records *crud.UseCase) *SchemaHandler {
	return &SchemaHandler{records: records}
}

// Index godoc
// @Summary      Índice de pantallas
// @Tags         schemas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.ResourceSummary
// @Router       /api/schemas [get]
func (h *SchemaHandler) Index(c *fiber.Ctx) error {
	return c.JSON(h.records.Resources(actorFrom(c)))
}

// Get godoc
// @Summary      Definición de pantalla
// @Tags         schemas
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string  true  "Recurso"
// @Success      200  {object}  dto.SchemaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/schemas/{resource} [get]
func (h *SchemaHandler) Get(c *fiber.Ctx) error {
	out, err := h.records.Schema(actorFrom(c), c.Params("resource"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Modal godoc
// @Summary      Configuración de modal
// @Description  Campos y textos del modal para view, create, edit o delete. edit/view/delete requieren id.
// @Tags         schemas
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path   string  true   "Recurso"
// @Param        mode      path   string  true   "view | create | edit | delete"
// @Param        id        query  string  false  "ID del registro"
// @Success      200  {object}  schema.ModalConfig
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/schemas/{resource}/modal/{mode} [get]
func (h *SchemaHandler) Modal(c *fiber.Ctx) error {
	cfg, err := h.records.Modal(actorFrom(c), c.Params("resource"), schema.Mode(c.Params("mode")), c.Query("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}

// Validate godoc
// @Summary      Validar formulario sin guardar
// @Tags         schemas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string  true  "Recurso"
// @Success      200  {object}  dto.ValidateResponse
// @Router       /api/schemas/{resource}/validate [post]
func (h *SchemaHandler) Validate(c *fiber.Ctx) error {
	name := c.Params("resource")
	res, err := h.records.Registry().Get(name)
	if err != nil {
		return respondError(c, err)
	}
	values, err := parseValues(c, res)
	if err != nil {
		return respondError(c, err)
	}
	errs, err := h.records.Validate(c.UserContext(), actorFrom(c), name, values)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ValidateResponse{Valid: !errs.Any(), Fields: errs})
}

// Options godoc
// @Summary      Opciones de un campo
// @Tags         schemas
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string  true  "Recurso"
// @Param        field     path  string  true  "Campo select, multiselect o reference"
// @Success      200  {array}  schema.Option
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/schemas/{resource}/options/{field} [get]
func (h *SchemaHandler) Options(c *fiber.Ctx) error {
	opts, err := h.records.Options(c.UserContext(), actorFrom(c), c.Params("resource"), c.Params("field"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(opts)
}
