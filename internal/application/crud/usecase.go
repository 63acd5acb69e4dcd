// Package crud contiene el caso de uso genérico que da vida a todas las
// pantallas de negocio: cada operación recibe el nombre del recurso y se
// guía por su definición declarativa (campos, columnas, acciones).
package crud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

// ErrStorageDisabled se devuelve al subir un archivo sin almacenamiento configurado.
var ErrStorageDisabled = errors.New("almacenamiento de archivos no configurado")

// Actor quién ejecuta la operación, tal como viene en el token.
type Actor struct {
	Kind string // jwt.KindUser o jwt.KindCustomer
	ID   string
	Role string
}

// IsCustomer indica si el actor es un cliente del portal.
func (a Actor) IsCustomer() bool { return a.Kind == jwt.KindCustomer }

// UseCase casos de uso CRUD sobre cualquier recurso registrado.
type UseCase struct {
	registry  *schema.Registry
	repo      repository.RecordRepository
	validator *schema.Validator
	storage   ports.FileStorage
	now       func() time.Time
}

// NewUseCase construye el caso de uso. storage puede ser nil: los campos file
// quedan deshabilitados.
func NewUseCase(registry *schema.Registry, repo repository.RecordRepository, validator *schema.Validator, storage ports.FileStorage) *UseCase {
	return &UseCase{
		registry:  registry,
		repo:      repo,
		validator: validator,
		storage:   storage,
		now:       time.Now,
	}
}

// Registry recursos registrados.
func (uc *UseCase) Registry() *schema.Registry { return uc.registry }

// Validator validador compartido (para predicados custom adicionales).
func (uc *UseCase) Validator() *schema.Validator { return uc.validator }

// Resource resuelve el recurso y comprueba que el actor pueda ejecutar la acción.
func (uc *UseCase) Resource(actor Actor, name, action string) (*schema.Resource, error) {
	res, err := uc.registry.Get(name)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, res, action); err != nil {
		return nil, err
	}
	return res, nil
}

// authorize: los usuarios internos se rigen por los roles del recurso y de la
// acción; los clientes solo leen sus propios registros y crean donde el recurso
// lo permite.
func authorize(actor Actor, res *schema.Resource, action string) error {
	if actor.IsCustomer() {
		if res.CustomerField == "" || actor.ID == "" {
			return domain.ErrForbidden
		}
		switch action {
		case entity.ActionView:
			return nil
		case entity.ActionCreate:
			if res.PortalCreate {
				return nil
			}
		}
		return domain.ErrForbidden
	}
	if !res.Can(actor.Role, action) {
		return domain.ErrForbidden
	}
	return nil
}

// scopeFilters filtros obligatorios según el actor (un cliente solo ve lo suyo).
func scopeFilters(actor Actor, res *schema.Resource) []schema.Filter {
	if !actor.IsCustomer() {
		return nil
	}
	return []schema.Filter{{Key: res.CustomerField, Type: schema.FilterExact, Value: actor.ID}}
}

// List devuelve una página de la tabla. En recursos con paginación en memoria
// trae todos los registros y aplica la consulta con el motor de tablas.
func (uc *UseCase) List(ctx context.Context, actor Actor, name string, q schema.TableQuery) (*dto.ListResponse, error) {
	res, err := uc.Resource(actor, name, entity.ActionView)
	if err != nil {
		return nil, err
	}
	return uc.list(ctx, actor, res, q, nil)
}

// ListByCustomer lista los registros de un cliente en recursos que declaran
// campo de cliente.
func (uc *UseCase) ListByCustomer(ctx context.Context, actor Actor, name, customerID string, q schema.TableQuery) (*dto.ListResponse, error) {
	res, err := uc.Resource(actor, name, entity.ActionView)
	if err != nil {
		return nil, err
	}
	if res.CustomerField == "" || customerID == "" {
		return nil, domain.ErrInvalidInput
	}
	extra := []schema.Filter{{Key: res.CustomerField, Type: schema.FilterExact, Value: customerID}}
	return uc.list(ctx, actor, res, q, extra)
}

func (uc *UseCase) list(ctx context.Context, actor Actor, res *schema.Resource, q schema.TableQuery, extra []schema.Filter) (*dto.ListResponse, error) {
	// Sin parámetro de orden se usa el orden por defecto; "none" explícito lo desactiva.
	if q.Sort.Key == "" {
		q.Sort = res.DefaultSort
	}
	q.Page = q.Page.Normalize()
	forced := append(scopeFilters(actor, res), extra...)

	var (
		items []schema.Record
		info  schema.PageInfo
	)
	if res.Pagination == schema.PaginationClient {
		all, err := uc.repo.ListAll(ctx, res, forced)
		if err != nil {
			return nil, err
		}
		items, info = schema.Apply(all, res.Columns, q)
	} else {
		q = q.Sanitize(res.Columns)
		q.Filters = append(q.Filters, forced...)
		rows, total, err := uc.repo.List(ctx, res, q)
		if err != nil {
			return nil, err
		}
		items, info = rows, schema.NewPageInfo(q.Page, total)
	}
	if items == nil {
		items = []schema.Record{}
	}
	uc.resolveFiles(ctx, res, items...)
	return &dto.ListResponse{Items: items, Page: info}, nil
}

// Rows todos los registros que cumplen la consulta, ordenados y sin paginar
// (exportes).
func (uc *UseCase) Rows(ctx context.Context, actor Actor, name string, q schema.TableQuery) (*schema.Resource, []schema.Record, error) {
	res, err := uc.Resource(actor, name, entity.ActionExport)
	if err != nil {
		return nil, nil, err
	}
	// Mismo criterio que la tabla: "none" explícito exporta sin ordenar.
	if q.Sort.Key == "" {
		q.Sort = res.DefaultSort
	}
	q = q.Sanitize(res.Columns)
	all, err := uc.repo.ListAll(ctx, res, append(q.Filters, scopeFilters(actor, res)...))
	if err != nil {
		return nil, nil, err
	}
	return res, schema.SortRecords(all, q.Sort), nil
}

// Get devuelve un registro con sus referencias pobladas.
func (uc *UseCase) Get(ctx context.Context, actor Actor, name, id string) (schema.Record, error) {
	res, err := uc.Resource(actor, name, entity.ActionView)
	if err != nil {
		return nil, err
	}
	rec, err := uc.get(ctx, actor, res, id)
	if err != nil {
		return nil, err
	}
	uc.resolveFiles(ctx, res, rec)
	return rec, nil
}

func (uc *UseCase) get(ctx context.Context, actor Actor, res *schema.Resource, id string) (schema.Record, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	rec, err := uc.repo.Get(ctx, res, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	// Un cliente no distingue entre "no existe" y "no es suyo".
	if actor.IsCustomer() && schema.ReferenceID(rec[res.CustomerField]) != actor.ID {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// Create normaliza, valida, sube los archivos y persiste. Devuelve el registro
// releído de la base de datos.
func (uc *UseCase) Create(ctx context.Context, actor Actor, name string, in schema.Values) (schema.Record, error) {
	res, err := uc.Resource(actor, name, entity.ActionCreate)
	if err != nil {
		return nil, err
	}
	values, err := uc.prepare(res, actorValues(actor, res, in))
	if err != nil {
		return nil, err
	}
	values = schema.ApplyDefaults(res.Fields, values)
	if errs := uc.validator.Validate(res.Fields, values); errs.Any() {
		return nil, &schema.ValidationError{Fields: errs}
	}

	id := uuid.New().String()
	if err := uc.uploadFiles(ctx, res, id, values); err != nil {
		return nil, err
	}
	if err := uc.repo.Insert(ctx, res, id, visibleValues(res, values), uc.now()); err != nil {
		return nil, err
	}
	return uc.Get(ctx, actor, name, id)
}

// Update aplica un update parcial: los valores recibidos se superponen al
// registro guardado y el resultado se valida completo.
func (uc *UseCase) Update(ctx context.Context, actor Actor, name, id string, in schema.Values) (schema.Record, error) {
	res, err := uc.Resource(actor, name, entity.ActionEdit)
	if err != nil {
		return nil, err
	}
	current, err := uc.get(ctx, actor, res, id)
	if err != nil {
		return nil, err
	}
	patch, err := uc.prepare(res, in)
	if err != nil {
		return nil, err
	}
	// Un archivo solo se reemplaza subiendo otro o se borra con null.
	for _, f := range res.Fields {
		if f.Type != schema.FieldFile {
			continue
		}
		if v, ok := patch[f.Name]; ok && v != nil {
			if _, isFile := v.(*schema.FileValue); !isFile {
				delete(patch, f.Name)
			}
		}
	}

	merged := schema.Merge(storedValues(res, current), patch)
	if errs := uc.validator.Validate(res.Fields, merged); errs.Any() {
		return nil, &schema.ValidationError{Fields: errs}
	}
	// Los campos que dejaron de ser visibles se limpian.
	for _, f := range res.Fields {
		if f.DependsOn != nil && !schema.Visible(f, merged) && !schema.IsEmpty(merged[f.Name]) {
			patch[f.Name] = nil
		}
	}
	if err := uc.uploadFiles(ctx, res, id, patch); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, res, id, patch, uc.now()); err != nil {
		return nil, err
	}
	uc.deleteReplacedFiles(ctx, res, current, patch)
	return uc.Get(ctx, actor, name, id)
}

// deleteReplacedFiles borra del almacenamiento los archivos que el update
// reemplazó o quitó. Corre después de persistir: si falla, el archivo queda
// huérfano pero el registro ya apunta al nuevo.
func (uc *UseCase) deleteReplacedFiles(ctx context.Context, res *schema.Resource, current schema.Record, patch schema.Values) {
	if uc.storage == nil {
		return
	}
	for _, f := range res.Fields {
		if f.Type != schema.FieldFile {
			continue
		}
		next, ok := patch[f.Name]
		if !ok {
			continue
		}
		old := schema.AsString(current[f.Name])
		if old != "" && old != schema.AsString(next) {
			_ = uc.storage.Delete(ctx, old)
		}
	}
}

// Delete elimina el registro y, si tenía archivos, los borra del almacenamiento.
func (uc *UseCase) Delete(ctx context.Context, actor Actor, name, id string) error {
	res, err := uc.Resource(actor, name, entity.ActionDelete)
	if err != nil {
		return err
	}
	current, err := uc.get(ctx, actor, res, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, res, id); err != nil {
		return err
	}
	if uc.storage == nil {
		return nil
	}
	for _, f := range res.Fields {
		if key := schema.AsString(current[f.Name]); f.Type == schema.FieldFile && key != "" {
			// El registro ya no existe: un archivo huérfano no debe fallar el borrado.
			_ = uc.storage.Delete(ctx, key)
		}
	}
	return nil
}

// Validate valida sin persistir (validación del formulario en el servidor).
func (uc *UseCase) Validate(ctx context.Context, actor Actor, name string, in schema.Values) (schema.Errors, error) {
	res, err := uc.Resource(actor, name, entity.ActionView)
	if err != nil {
		return nil, err
	}
	values, typeErrs := schema.Normalize(res.Fields, actorValues(actor, res, in))
	values = schema.ApplyDefaults(res.Fields, values)
	errs := uc.validator.Validate(res.Fields, values)
	for k, v := range typeErrs {
		errs[k] = v
	}
	return errs, nil
}

// Options opciones de un campo select, multiselect o reference: las estáticas
// declaradas o las cargadas del recurso de origen.
func (uc *UseCase) Options(ctx context.Context, actor Actor, name, field string) ([]schema.Option, error) {
	res, err := uc.Resource(actor, name, entity.ActionView)
	if err != nil {
		return nil, err
	}
	f, ok := res.Field(field)
	if !ok || !f.Type.HasOptions() {
		return nil, fmt.Errorf("%w: el campo %s no tiene opciones", domain.ErrInvalidInput, field)
	}
	if len(f.Options) > 0 || f.OptionsFrom == "" {
		return f.Options, nil
	}
	source, err := uc.registry.Get(f.OptionsFrom)
	if err != nil {
		return nil, err
	}
	if !actor.IsCustomer() {
		return uc.repo.Options(ctx, source)
	}
	// Un cliente no puede listar otros clientes ni registros ajenos.
	if field == res.CustomerField {
		return nil, domain.ErrForbidden
	}
	if source.CustomerField == "" {
		return uc.repo.Options(ctx, source)
	}
	rows, err := uc.repo.ListAll(ctx, source, scopeFilters(actor, source))
	if err != nil {
		return nil, err
	}
	out := make([]schema.Option, 0, len(rows))
	for _, r := range rows {
		out = append(out, schema.Option{Value: schema.AsString(r["id"]), Label: schema.AsString(r[source.DisplayField])})
	}
	return out, nil
}

// Modal configuración del modal para el modo pedido, con los campos ya resueltos.
func (uc *UseCase) Modal(actor Actor, name string, mode schema.Mode, id string) (schema.ModalConfig, error) {
	if !mode.Valid() {
		return schema.ModalConfig{}, fmt.Errorf("%w: modo %q", domain.ErrInvalidInput, mode)
	}
	res, err := uc.Resource(actor, name, modeAction(mode))
	if err != nil {
		return schema.ModalConfig{}, err
	}
	cfg, err := res.Modal(mode, id)
	if err != nil {
		return schema.ModalConfig{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if actor.IsCustomer() && mode == schema.ModeCreate {
		cfg.Fields = res.PortalFields()
	}
	return cfg.Rendered(), nil
}

func modeAction(m schema.Mode) string {
	switch m {
	case schema.ModeCreate:
		return entity.ActionCreate
	case schema.ModeEdit:
		return entity.ActionEdit
	case schema.ModeDelete:
		return entity.ActionDelete
	}
	return entity.ActionView
}

// Schema definición de la pantalla con las acciones que el actor puede usar.
func (uc *UseCase) Schema(actor Actor, name string) (*dto.SchemaResponse, error) {
	res, err := uc.Resource(actor, name, entity.ActionView)
	if err != nil {
		return nil, err
	}
	actions := res.ActionsFor(actor.Role)
	fields := res.FormFields()
	if actor.IsCustomer() {
		fields = res.PortalFields()
		actions = []schema.Action{{Name: entity.ActionView, Label: "Ver"}}
		if res.PortalCreate {
			actions = append(actions, schema.Action{Name: entity.ActionCreate, Label: "Nuevo"})
		}
	}
	return &dto.SchemaResponse{
		Name:         res.Name,
		Title:        res.Title,
		Singular:     res.Singular,
		Endpoint:     res.Endpoint,
		Fields:       fields,
		Columns:      res.Columns,
		Actions:      actions,
		References:   res.References,
		Pagination:   res.Pagination,
		DefaultSort:  res.DefaultSort,
		DisplayField: res.DisplayField,
	}, nil
}

// Resources índice de pantallas visibles para el actor.
func (uc *UseCase) Resources(actor Actor) []dto.ResourceSummary {
	out := make([]dto.ResourceSummary, 0)
	for _, res := range uc.registry.All() {
		if authorize(actor, res, entity.ActionView) != nil {
			continue
		}
		out = append(out, dto.ResourceSummary{Name: res.Name, Title: res.Title, Endpoint: res.Endpoint})
	}
	return out
}

// prepare normaliza la entrada; los errores de tipo se devuelven como
// *schema.ValidationError.
func (uc *UseCase) prepare(res *schema.Resource, in schema.Values) (schema.Values, error) {
	values, errs := schema.Normalize(res.Fields, in)
	if errs.Any() {
		return nil, &schema.ValidationError{Fields: errs}
	}
	return values, nil
}

// actorValues ajusta la entrada de un cliente del portal: descarta los campos
// reservados al personal y fija el campo de cliente con el id del token.
func actorValues(actor Actor, res *schema.Resource, in schema.Values) schema.Values {
	if !actor.IsCustomer() {
		return in
	}
	values := in.Clone()
	for _, f := range res.Fields {
		if f.StaffOnly {
			delete(values, f.Name)
		}
	}
	values[res.CustomerField] = actor.ID
	return values
}

// storedValues convierte un registro leído en valores de formulario:
// las referencias pobladas vuelven a ser ids.
func storedValues(res *schema.Resource, rec schema.Record) schema.Values {
	out := schema.Values{}
	for _, f := range res.Fields {
		v, ok := rec[f.Name]
		if !ok {
			continue
		}
		if f.Type == schema.FieldReference {
			if id := schema.ReferenceID(v); id != "" {
				v = id
			} else {
				v = nil
			}
		}
		out[f.Name] = v
	}
	return out
}

// visibleValues descarta los campos cuya condición de visibilidad no se cumple.
func visibleValues(res *schema.Resource, values schema.Values) schema.Values {
	out := schema.Values{}
	for _, f := range res.Fields {
		if v, ok := values[f.Name]; ok && schema.Visible(f, values) {
			out[f.Name] = v
		}
	}
	return out
}

// uploadFiles sube los archivos nuevos y reemplaza el valor por la clave guardada.
func (uc *UseCase) uploadFiles(ctx context.Context, res *schema.Resource, id string, values schema.Values) error {
	for _, f := range res.Fields {
		fv, ok := values[f.Name].(*schema.FileValue)
		if !ok || fv == nil || f.Type != schema.FieldFile {
			continue
		}
		if uc.storage == nil {
			return ErrStorageDisabled
		}
		key, err := uc.storage.Put(ctx, fileKey(res.Name, id, f.Name, fv.Filename), fv)
		if err != nil {
			return fmt.Errorf("subir %s: %w", f.Name, err)
		}
		values[f.Name] = key
	}
	return nil
}

// resolveFiles reemplaza las claves de archivo por {key, url} para descargar.
func (uc *UseCase) resolveFiles(ctx context.Context, res *schema.Resource, records ...schema.Record) {
	if uc.storage == nil {
		return
	}
	for _, f := range res.Fields {
		if f.Type != schema.FieldFile {
			continue
		}
		for _, rec := range records {
			key, ok := rec[f.Name].(string)
			if !ok || key == "" {
				continue
			}
			file := map[string]any{"key": key}
			if url, err := uc.storage.URL(ctx, key); err == nil {
				file["url"] = url
			}
			rec[f.Name] = file
		}
	}
}
