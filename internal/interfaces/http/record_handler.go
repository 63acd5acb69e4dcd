package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/crud"
	"github.com/jhoicas/Gestion-api/internal/application/export"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/metrics"
)

// Headers de la convención heredada (el id viaja en un header en lugar de la ruta).
const (
	HeaderRecordID   = "id"
	HeaderCustomerID = "customerId"
)

// RecordHandler expone el CRUD genérico de todos los recursos registrados.
type RecordHandler struct {
	records *crud.UseCase
	exports *export.UseCase
}

// NewRecordHandler construye el handler. exports puede ser nil (sin exportes).
func NewRecordHandler(records *crud.UseCase, exports *export.UseCase) *RecordHandler {
	return &RecordHandler{records: records, exports: exports}
}

// List godoc
// @Summary      Listar registros
// @Description  Página de la tabla con filtros (filter[k], min[k], max[k], from[k], to[k]) y orden (sort, dir).
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path   string  true   "Recurso (projects, customers, ...)"
// @Param        page      query  int     false  "Página (desde 1)"
// @Param        limit     query  int     false  "Tamaño de página"
// @Param        sort      query  string  false  "Columna de orden"
// @Param        dir       query  string  false  "asc | desc | none"
// @Success      200  {object}  dto.ListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{resource} [get]
func (h *RecordHandler) List(c *fiber.Ctx) error {
	out, err := h.records.List(c.UserContext(), actorFrom(c), c.Params("resource"), parseTableQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByCustomer godoc
// @Summary      Listar registros de un cliente
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        resource    path    string  true  "Recurso con campo de cliente"
// @Param        customerId  header  string  true  "ID del cliente"
// @Success      200  {object}  dto.ListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{resource}/byCustomer [get]
func (h *RecordHandler) ListByCustomer(c *fiber.Ctx) error {
	out, err := h.records.ListByCustomer(c.UserContext(), actorFrom(c), c.Params("resource"), c.Get(HeaderCustomerID), parseTableQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener registro
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string  true  "Recurso"
// @Param        id        path  string  true  "ID del registro"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{resource}/{id} [get]
func (h *RecordHandler) Get(c *fiber.Ctx) error {
	return h.get(c, c.Params("id"))
}

// GetByHeader variante heredada de Get: GET /api/{resource}/detailes con header id.
func (h *RecordHandler) GetByHeader(c *fiber.Ctx) error {
	return h.get(c, c.Get(HeaderRecordID))
}

func (h *RecordHandler) get(c *fiber.Ctx, id string) error {
	rec, err := h.records.Get(c.UserContext(), actorFrom(c), c.Params("resource"), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

// Create godoc
// @Summary      Crear registro
// @Description  Acepta JSON o multipart/form-data (necesario para campos de archivo).
// @Tags         records
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string  true  "Recurso"
// @Success      201  {object}  map[string]interface{}
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/{resource} [post]
func (h *RecordHandler) Create(c *fiber.Ctx) error {
	name := c.Params("resource")
	res, err := h.records.Registry().Get(name)
	if err != nil {
		return respondError(c, err)
	}
	values, err := parseValues(c, res)
	if err != nil {
		return respondError(c, err)
	}
	rec, err := h.records.Create(c.UserContext(), actorFrom(c), name, values)
	if err != nil {
		return respondError(c, err)
	}
	metrics.RecordOperation(name, "create")
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// Update godoc
// @Summary      Actualizar registro
// @Description  Update parcial: solo se modifican los campos enviados.
// @Tags         records
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string  true  "Recurso"
// @Param        id        path  string  true  "ID del registro"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/{resource}/{id} [put]
func (h *RecordHandler) Update(c *fiber.Ctx) error {
	return h.update(c, c.Params("id"))
}

// UpdateByHeader variante heredada de Update: PUT /api/{resource}/update con header id.
func (h *RecordHandler) UpdateByHeader(c *fiber.Ctx) error {
	return h.update(c, c.Get(HeaderRecordID))
}

func (h *RecordHandler) update(c *fiber.Ctx, id string) error {
	name := c.Params("resource")
	res, err := h.records.Registry().Get(name)
	if err != nil {
		return respondError(c, err)
	}
	values, err := parseValues(c, res)
	if err != nil {
		return respondError(c, err)
	}
	rec, err := h.records.Update(c.UserContext(), actorFrom(c), name, id, values)
	if err != nil {
		return respondError(c, err)
	}
	metrics.RecordOperation(name, "update")
	return c.JSON(rec)
}

// Delete godoc
// @Summary      Eliminar registro
// @Description  Solo admin y manager.
// @Tags         records
// @Security     BearerAuth
// @Param        resource  path  string  true  "Recurso"
// @Param        id        path  string  true  "ID del registro"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/{resource}/{id} [delete]
func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	return h.delete(c, c.Params("id"))
}

// DeleteByHeader variante heredada de Delete: DELETE /api/{resource}/delete con header id.
func (h *RecordHandler) DeleteByHeader(c *fiber.Ctx) error {
	return h.delete(c, c.Get(HeaderRecordID))
}

func (h *RecordHandler) delete(c *fiber.Ctx, id string) error {
	name := c.Params("resource")
	if err := h.records.Delete(c.UserContext(), actorFrom(c), name, id); err != nil {
		return respondError(c, err)
	}
	metrics.RecordOperation(name, "delete")
	return c.SendStatus(fiber.StatusNoContent)
}

// Export godoc
// @Summary      Exportar tabla
// @Description  Genera XLSX o PDF con los mismos filtros y orden que la vista.
// @Tags         records
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/pdf
// @Security     BearerAuth
// @Param        resource  path  string  true  "Recurso"
// @Param        format    path  string  true  "xlsx | pdf"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/{resource}/export/{format} [get]
func (h *RecordHandler) Export(c *fiber.Ctx) error {
	if h.exports == nil {
		return fiber.ErrNotFound
	}
	name, format := c.Params("resource"), c.Params("format")
	file, err := h.exports.Export(c.UserContext(), actorFrom(c), name, format, parseTableQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	metrics.Export(name, format)
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Send(file.Content)
}
