package schema

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterType tipo de filtro de una columna.
type FilterType string

const (
	FilterNone        FilterType = ""
	FilterText        FilterType = "text"
	FilterExact       FilterType = "exact"
	FilterNumberRange FilterType = "numberRange"
	FilterDateRange   FilterType = "dateRange"
)

// Column descriptor de una columna de tabla.
type Column struct {
	Key      string     `json:"key"`
	Label    string     `json:"label"`
	Sortable bool       `json:"sortable,omitempty"`
	Filter   FilterType `json:"filter,omitempty"`
	Format   string     `json:"format,omitempty"` // currency, date, status, reference, boolean
	Options  []Option   `json:"options,omitempty"`
}

// Action acción disponible por fila. Roles vacío = cualquier usuario.
type Action struct {
	Name  string   `json:"name"` // view, edit, delete o personalizada
	Label string   `json:"label"`
	Roles []string `json:"roles,omitempty"`
}

// Allowed indica si el rol puede ejecutar la acción.
func (a Action) Allowed(role string) bool {
	if len(a.Roles) == 0 {
		return true
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SortDirection dirección de orden.
type SortDirection string

const (
	SortNone SortDirection = "none"
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection interpreta "asc"/"desc"; cualquier otro valor es none.
func ParseSortDirection(s string) SortDirection {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return SortAsc
	case "desc", "descending":
		return SortDesc
	}
	return SortNone
}

// SortState columna y dirección de orden actuales.
type SortState struct {
	Key       string        `json:"key,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// Active indica si hay orden aplicado.
func (s SortState) Active() bool {
	return s.Key != "" && (s.Direction == SortAsc || s.Direction == SortDesc)
}

// Toggle avanza el ciclo de orden: sobre la misma columna asc -> desc -> none -> asc;
// sobre otra columna reinicia en asc.
func (s SortState) Toggle(key string) SortState {
	if s.Key != key {
		return SortState{Key: key, Direction: SortAsc}
	}
	switch s.Direction {
	case SortAsc:
		return SortState{Key: key, Direction: SortDesc}
	case SortDesc:
		return SortState{Key: key, Direction: SortNone}
	}
	return SortState{Key: key, Direction: SortAsc}
}

// Filter restricción sobre una columna.
type Filter struct {
	Key   string     `json:"key"`
	Type  FilterType `json:"type"`
	Value string     `json:"value,omitempty"`
	Min   string     `json:"min,omitempty"`
	Max   string     `json:"max,omitempty"`
	From  string     `json:"from,omitempty"`
	To    string     `json:"to,omitempty"`
}

// Active indica si el filtro restringe algo.
func (f Filter) Active() bool {
	switch f.Type {
	case FilterText, FilterExact:
		return f.Value != ""
	case FilterNumberRange:
		return f.Min != "" || f.Max != ""
	case FilterDateRange:
		return f.From != "" || f.To != ""
	}
	return false
}

// Match evalúa el filtro sobre un registro.
func (f Filter) Match(rec Record) bool {
	if !f.Active() {
		return true
	}
	v := rec[f.Key]
	switch f.Type {
	case FilterText:
		return strings.Contains(Fold(AsString(v)), Fold(f.Value))

	case FilterExact:
		switch t := v.(type) {
		case []string, []any:
			for _, s := range AsStrings(t) {
				if s == f.Value {
					return true
				}
			}
			return false
		case map[string]any:
			return ReferenceID(t) == f.Value || AsString(t) == f.Value
		}
		return AsString(v) == f.Value

	case FilterNumberRange:
		d, ok := AsDecimal(v)
		if !ok {
			return false
		}
		if min, ok := AsDecimal(f.Min); ok && d.LessThan(min) {
			return false
		}
		if max, ok := AsDecimal(f.Max); ok && d.GreaterThan(max) {
			return false
		}
		return true

	case FilterDateRange:
		t, ok := AsTime(v)
		if !ok {
			return false
		}
		day := truncateDay(t)
		if from, ok := AsTime(f.From); ok && day.Before(truncateDay(from)) {
			return false
		}
		if to, ok := AsTime(f.To); ok && day.After(truncateDay(to)) {
			return false
		}
		return true
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fold normaliza mayúsculas/minúsculas con case folding Unicode.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// PageRequest paginación solicitada (página base 1).
type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Límites de paginación.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Normalize aplica los valores por defecto y el límite máximo.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset desplazamiento de la página.
func (p PageRequest) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

// PageInfo metadatos de la página devuelta.
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPageInfo calcula los metadatos a partir del total.
func NewPageInfo(p PageRequest, total int) PageInfo {
	p = p.Normalize()
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageInfo{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

// TableQuery consulta completa de una tabla.
type TableQuery struct {
	Sort    SortState   `json:"sort"`
	Filters []Filter    `json:"filters,omitempty"`
	Page    PageRequest `json:"page"`
}

// Sanitize descarta filtros y orden sobre columnas desconocidas, no filtrables
// o no ordenables, y fija el tipo de filtro declarado por la columna.
func (q TableQuery) Sanitize(columns []Column) TableQuery {
	byKey := make(map[string]Column, len(columns))
	for _, c := range columns {
		byKey[c.Key] = c
	}
	out := TableQuery{Page: q.Page.Normalize()}
	if c, ok := byKey[q.Sort.Key]; ok && c.Sortable && q.Sort.Active() {
		out.Sort = q.Sort
	}
	for _, f := range q.Filters {
		c, ok := byKey[f.Key]
		if !ok || c.Filter == FilterNone {
			continue
		}
		f.Type = c.Filter
		if f.Active() {
			out.Filters = append(out.Filters, f)
		}
	}
	return out
}

// FilterRecords devuelve los registros que cumplen todos los filtros.
func FilterRecords(records []Record, filters []Filter) []Record {
	if len(filters) == 0 {
		return records
	}
	out := make([]Record, 0, len(records))
outer:
	for _, r := range records {
		for _, f := range filters {
			if !f.Match(r) {
				continue outer
			}
		}
		out = append(out, r)
	}
	return out
}

// SortRecords ordena de forma estable; sin orden activo conserva el orden de entrada.
// Los valores vacíos van al final en ambas direcciones.
func SortRecords(records []Record, s SortState) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	if !s.Active() {
		return out
	}
	// Collator no es seguro para uso concurrente: uno por llamada.
	col := collate.New(language.Spanish, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i][s.Key], out[j][s.Key]
		ea, eb := IsEmpty(a) && !isFalse(a), IsEmpty(b) && !isFalse(b)
		if ea || eb {
			return !ea && eb
		}
		c := compare(col, a, b)
		if s.Direction == SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func isFalse(v any) bool {
	b, ok := v.(bool)
	return ok && !b
}

// Paginate recorta la página solicitada.
func Paginate(records []Record, p PageRequest) ([]Record, PageInfo) {
	p = p.Normalize()
	info := NewPageInfo(p, len(records))
	start := p.Offset()
	if start >= len(records) {
		return []Record{}, info
	}
	end := start + p.Limit
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], info
}

// Apply ejecuta la consulta completa en memoria: filtrar, ordenar, paginar.
func Apply(records []Record, columns []Column, q TableQuery) ([]Record, PageInfo) {
	q = q.Sanitize(columns)
	filtered := FilterRecords(records, q.Filters)
	sorted := SortRecords(filtered, q.Sort)
	return Paginate(sorted, q.Page)
}

// compare ordena números numéricamente, fechas cronológicamente y el resto
// como texto según la colación española, sin distinguir mayúsculas ni tildes.
func compare(col *collate.Collator, a, b any) int {
	if isNumber(a) && isNumber(b) {
		da, _ := AsDecimal(a)
		db, _ := AsDecimal(b)
		return da.Cmp(db)
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	sa, sb := AsString(a), AsString(b)
	if da, errA := decimal.NewFromString(sa); errA == nil {
		if db, errB := decimal.NewFromString(sb); errB == nil {
			return da.Cmp(db)
		}
	}
	if ta, ok := AsTime(sa); ok {
		if tb, ok := AsTime(sb); ok {
			return ta.Compare(tb)
		}
	}
	return col.CompareString(sa, sb)
}

func isNumber(v any) bool {
	switch v.(type) {
	case decimal.Decimal, *decimal.Decimal, json.Number, float64, float32, int, int32, int64:
		return true
	}
	return false
}

// FormatCell texto de una celda según el formato de la columna: etiqueta de la
// opción, Sí/No, fecha, moneda con dos decimales o nombre de la referencia.
func FormatCell(c Column, v any) string {
	if IsEmpty(v) && !isFalse(v) {
		return ""
	}
	for _, o := range c.Options {
		if o.Value == AsString(v) {
			return o.Label
		}
	}
	switch c.Format {
	case "boolean":
		if AsBool(v) {
			return "Sí"
		}
		return "No"
	case "currency":
		if d, ok := AsDecimal(v); ok {
			return d.StringFixed(2)
		}
	case "date":
		if t, ok := AsTime(v); ok {
			return t.Format(DateLayout)
		}
	}
	return AsString(v)
}
