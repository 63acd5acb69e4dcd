package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

// Columnas de auditoría presentes en todas las tablas de recursos.
var metaColumns = map[string]string{
	"id":        "id",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// RecordRepo implementación genérica de RecordRepository: arma el SQL a partir
// de la definición del recurso (tabla, campos y referencias).
type RecordRepo struct {
	db Querier
}

// NewRecordRepository construye el repositorio sobre un pool o una transacción.
func NewRecordRepository(db Querier) *RecordRepo {
	return &RecordRepo{db: db}
}

// List filtra, ordena y pagina en SQL y devuelve además el total filtrado.
func (r *RecordRepo) List(ctx context.Context, res *schema.Resource, q schema.TableQuery) ([]schema.Record, int, error) {
	where, args := buildWhere(res, q.Filters)

	var total int
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s t%s", ident(res.Table), where)
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("contar %s: %w", res.Name, err)
	}

	page := q.Page.Normalize()
	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		selectSQL(res), where, orderBy(res, q.Sort), len(args)-1, len(args))

	recs, err := r.query(ctx, res, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// ListAll devuelve todos los registros que cumplen los filtros, del más reciente al más antiguo.
func (r *RecordRepo) ListAll(ctx context.Context, res *schema.Resource, filters []schema.Filter) ([]schema.Record, error) {
	where, args := buildWhere(res, filters)
	query := fmt.Sprintf("%s%s ORDER BY t.created_at DESC, t.id", selectSQL(res), where)
	return r.query(ctx, res, query, args...)
}

// Get devuelve nil, nil si no existe (o si el id no es un UUID).
func (r *RecordRepo) Get(ctx context.Context, res *schema.Resource, id string) (schema.Record, error) {
	recs, err := r.query(ctx, res, selectSQL(res)+" WHERE t.id = $1", id)
	if err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// Insert persiste un registro nuevo con los campos presentes en values.
func (r *RecordRepo) Insert(ctx context.Context, res *schema.Resource, id string, values schema.Values, now time.Time) error {
	cols := []string{"id", "created_at", "updated_at"}
	args := []any{id, now, now}
	for _, f := range res.Fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		cols = append(cols, ident(f.ColumnName()))
		args = append(args, toColumnValue(f, v))
	}
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		ident(res.Table), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return mapWriteError(res, err)
	}
	return nil
}

// Update modifica solo las columnas presentes en values y siempre updated_at.
func (r *RecordRepo) Update(ctx context.Context, res *schema.Resource, id string, values schema.Values, now time.Time) error {
	sets := []string{"updated_at = $1"}
	args := []any{now}
	for _, f := range res.Fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		args = append(args, toColumnValue(f, v))
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(f.ColumnName()), len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", ident(res.Table), strings.Join(sets, ", "), len(args))
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return mapWriteError(res, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el registro. Si otro registro lo referencia devuelve ErrConflict.
func (r *RecordRepo) Delete(ctx context.Context, res *schema.Resource, id string) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", ident(res.Table)), id)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return mapWriteError(res, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Options pares id/etiqueta ordenados por el campo de despliegue del recurso.
func (r *RecordRepo) Options(ctx context.Context, res *schema.Resource) ([]schema.Option, error) {
	label := "id"
	if f, ok := res.Field(res.DisplayField); ok {
		label = ident(f.ColumnName())
	}
	query := fmt.Sprintf("SELECT id::text, COALESCE(%s::text, '') FROM %s ORDER BY 2, 1", label, ident(res.Table))
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("opciones %s: %w", res.Name, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (schema.Option, error) {
		var o schema.Option
		err := row.Scan(&o.Value, &o.Label)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("opciones %s: %w", res.Name, err)
	}
	return out, nil
}

func (r *RecordRepo) query(ctx context.Context, res *schema.Resource, query string, args ...any) ([]schema.Record, error) {
	keys := recordKeys(res)
	dates := make(map[int]bool)
	for i, f := range res.Fields {
		if f.Type == schema.FieldDate {
			dates[len(metaColumns)+i] = true
		}
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("consultar %s: %w", res.Name, err)
	}
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (schema.Record, error) {
		vals, err := row.Values()
		if err != nil {
			return nil, err
		}
		rec := make(schema.Record, len(keys))
		for i, k := range keys {
			v := vals[i]
			// Las columnas DATE viajan como "2006-01-02", igual que en los formularios.
			if t, ok := v.(time.Time); ok && dates[i] {
				v = t.Format(schema.DateLayout)
			}
			rec[k] = v
		}
		return rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", res.Name, err)
	}
	return recs, nil
}

// recordKeys claves del registro en el mismo orden que selectSQL.
func recordKeys(res *schema.Resource) []string {
	keys := []string{"id", "createdAt", "updatedAt"}
	for _, f := range res.Fields {
		keys = append(keys, f.Name)
	}
	return keys
}

// selectSQL SELECT con las referencias pobladas como objetos JSON:
//
//	(SELECT json_build_object('id', r.id::text, 'name', r.name) FROM customers r WHERE r.id = t.customer_id)
func selectSQL(res *schema.Resource) string {
	cols := []string{"t.id::text", "t.created_at", "t.updated_at"}
	for _, f := range res.Fields {
		col := "t." + ident(f.ColumnName())
		if ref, ok := res.Reference(f.Name); ok && ref.Table != "" {
			pairs := []string{"'id', r.id::text"}
			for _, c := range ref.Columns {
				pairs = append(pairs, fmt.Sprintf("'%s', r.%s", c, ident(schema.SnakeCase(c))))
			}
			cols = append(cols, fmt.Sprintf("(SELECT json_build_object(%s) FROM %s r WHERE r.id = %s)",
				strings.Join(pairs, ", "), ident(ref.Table), col))
			continue
		}
		if f.Type == schema.FieldReference {
			col += "::text"
		}
		cols = append(cols, col)
	}
	return fmt.Sprintf("SELECT %s FROM %s t", strings.Join(cols, ", "), ident(res.Table))
}

// columnExpr columna SQL de una clave de registro (campo o columna de auditoría).
func columnExpr(res *schema.Resource, key string) (string, schema.Field, bool) {
	if c, ok := metaColumns[key]; ok {
		return "t." + c, schema.Field{Name: key}, true
	}
	f, ok := res.Field(key)
	if !ok {
		return "", schema.Field{}, false
	}
	return "t." + ident(f.ColumnName()), f, true
}

type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) add(format string, a ...any) {
	w.clauses = append(w.clauses, fmt.Sprintf(format, a...))
}

// buildWhere traduce los filtros de tabla a SQL con parámetros posicionales.
// Los filtros sobre claves desconocidas o con valores no interpretables se ignoran,
// igual que en el motor de tablas en memoria.
func buildWhere(res *schema.Resource, filters []schema.Filter) (string, []any) {
	w := &whereBuilder{}
	for _, f := range filters {
		if !f.Active() {
			continue
		}
		col, field, ok := columnExpr(res, f.Key)
		if !ok {
			continue
		}
		switch f.Type {
		case schema.FilterText:
			w.add("%s::text ILIKE %s", col, w.arg("%"+escapeLike(strings.TrimSpace(f.Value))+"%"))
		case schema.FilterExact:
			switch field.Type {
			case schema.FieldMultiSelect:
				w.add("%s = ANY(%s)", w.arg(f.Value), col)
			case schema.FieldCheckbox:
				w.add("%s = %s", col, w.arg(schema.AsBool(f.Value)))
			default:
				w.add("%s::text = %s", col, w.arg(f.Value))
			}
		case schema.FilterNumberRange:
			if d, ok := schema.AsDecimal(f.Min); ok {
				w.add("%s >= %s", col, w.arg(d))
			}
			if d, ok := schema.AsDecimal(f.Max); ok {
				w.add("%s <= %s", col, w.arg(d))
			}
		case schema.FilterDateRange:
			if t, ok := schema.AsTime(f.From); ok {
				w.add("%s::date >= %s::date", col, w.arg(t.Format(schema.DateLayout)))
			}
			if t, ok := schema.AsTime(f.To); ok {
				w.add("%s::date <= %s::date", col, w.arg(t.Format(schema.DateLayout)))
			}
		}
	}
	if len(w.clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(w.clauses, " AND "), w.args
}

// orderBy orden pedido con vacíos al final; el id desempata para que la
// paginación sea estable.
func orderBy(res *schema.Resource, s schema.SortState) string {
	if s.Active() {
		if col, _, ok := columnExpr(res, s.Key); ok {
			dir := "ASC"
			if s.Direction == schema.SortDesc {
				dir = "DESC"
			}
			return fmt.Sprintf("%s %s NULLS LAST, t.id", col, dir)
		}
	}
	return "t.created_at DESC, t.id"
}

// toColumnValue adapta el valor normalizado al tipo de la columna.
func toColumnValue(f schema.Field, v any) any {
	if f.Type == schema.FieldMultiSelect {
		out := schema.AsStrings(v)
		if out == nil {
			out = []string{}
		}
		return out
	}
	if v == nil {
		return nil
	}
	switch f.Type {
	case schema.FieldReference, schema.FieldDate, schema.FieldSelect:
		if s := schema.ReferenceID(v); s != "" {
			if f.Type == schema.FieldDate {
				if t, ok := schema.AsTime(v); ok {
					return t
				}
			}
			return s
		}
		return nil
	case schema.FieldNumber, schema.FieldCurrency:
		if d, ok := schema.AsDecimal(v); ok {
			return d
		}
		return nil
	case schema.FieldCheckbox:
		return schema.AsBool(v)
	}
	return v
}

func mapWriteError(res *schema.Resource, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", res.Singular, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", res.Singular, domain.ErrConflict)
	case errors.Is(err, context.Canceled):
		return err
	}
	return fmt.Errorf("guardar %s: %w", res.Name, err)
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
