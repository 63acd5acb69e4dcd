package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

func projectColumns() []schema.Column {
	return []schema.Column{
		{Key: "name", Label: "Nombre", Sortable: true, Filter: schema.FilterText},
		{Key: "status", Label: "Estado", Sortable: true, Filter: schema.FilterExact},
		{Key: "budget", Label: "Presupuesto", Sortable: true, Filter: schema.FilterNumberRange},
		{Key: "startDate", Label: "Inicio", Sortable: true, Filter: schema.FilterDateRange},
		{Key: "notes", Label: "Notas"},
	}
}

func projectRecords() []schema.Record {
	return []schema.Record{
		{"id": "1", "name": "Álamo", "status": "active", "budget": "1500", "startDate": "2024-01-15"},
		{"id": "2", "name": "beta", "status": "paused", "budget": "200", "startDate": "2024-03-01"},
		{"id": "3", "name": "Cedro", "status": "active", "budget": "99.5", "startDate": "2023-12-31"},
		{"id": "4", "name": "delta", "status": "done", "budget": nil, "startDate": ""},
	}
}

func ids(records []schema.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r["id"].(string))
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de orden
// ──────────────────────────────────────────────────────────────────────────────

func TestSortState_Toggle(t *testing.T) {
	s := schema.SortState{}

	s = s.Toggle("name")
	assert.Equal(t, schema.SortState{Key: "name", Direction: schema.SortAsc}, s)
	s = s.Toggle("name")
	assert.Equal(t, schema.SortDesc, s.Direction)
	s = s.Toggle("name")
	assert.Equal(t, schema.SortNone, s.Direction)
	assert.False(t, s.Active())
	s = s.Toggle("name")
	assert.Equal(t, schema.SortAsc, s.Direction)

	// Otra columna reinicia en asc sin importar el estado previo.
	s = s.Toggle("name").Toggle("budget")
	assert.Equal(t, schema.SortState{Key: "budget", Direction: schema.SortAsc}, s)
}

func TestParseSortDirection(t *testing.T) {
	assert.Equal(t, schema.SortAsc, schema.ParseSortDirection("ASC"))
	assert.Equal(t, schema.SortDesc, schema.ParseSortDirection("desc"))
	assert.Equal(t, schema.SortNone, schema.ParseSortDirection("sideways"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden
// ──────────────────────────────────────────────────────────────────────────────

func TestSortRecords_TextoSinMayusculas(t *testing.T) {
	out := schema.SortRecords(projectRecords(), schema.SortState{Key: "name", Direction: schema.SortAsc})
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(out))

	out = schema.SortRecords(projectRecords(), schema.SortState{Key: "name", Direction: schema.SortDesc})
	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(out))
}

// Los números se comparan numéricamente y los vacíos van al final.
func TestSortRecords_NumericoYVacios(t *testing.T) {
	out := schema.SortRecords(projectRecords(), schema.SortState{Key: "budget", Direction: schema.SortAsc})
	assert.Equal(t, []string{"3", "2", "1", "4"}, ids(out))

	out = schema.SortRecords(projectRecords(), schema.SortState{Key: "budget", Direction: schema.SortDesc})
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(out))
}

func TestSortRecords_Fechas(t *testing.T) {
	out := schema.SortRecords(projectRecords(), schema.SortState{Key: "startDate", Direction: schema.SortAsc})
	assert.Equal(t, []string{"3", "1", "2", "4"}, ids(out))
}

// Sin orden activo se conserva el orden original y no se muta la entrada.
func TestSortRecords_SinOrden(t *testing.T) {
	in := projectRecords()
	out := schema.SortRecords(in, schema.SortState{Key: "name", Direction: schema.SortNone})
	assert.Equal(t, ids(in), ids(out))
}

func TestSortRecords_Estable(t *testing.T) {
	in := []schema.Record{
		{"id": "a", "status": "active"},
		{"id": "b", "status": "done"},
		{"id": "c", "status": "active"},
	}
	out := schema.SortRecords(in, schema.SortState{Key: "status", Direction: schema.SortAsc})
	assert.Equal(t, []string{"a", "c", "b"}, ids(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtros
// ──────────────────────────────────────────────────────────────────────────────

func TestFilter_Texto(t *testing.T) {
	f := schema.Filter{Key: "name", Type: schema.FilterText, Value: "ÁLA"}
	out := schema.FilterRecords(projectRecords(), []schema.Filter{f})
	assert.Equal(t, []string{"1"}, ids(out))
}

func TestFilter_Exacto(t *testing.T) {
	f := schema.Filter{Key: "status", Type: schema.FilterExact, Value: "active"}
	out := schema.FilterRecords(projectRecords(), []schema.Filter{f})
	assert.Equal(t, []string{"1", "3"}, ids(out))
}

func TestFilter_ExactoSobreReferenciaPoblada(t *testing.T) {
	rec := schema.Record{"id": "t1", "projectId": map[string]any{"id": "p9", "name": "Cedro"}}
	assert.True(t, schema.Filter{Key: "projectId", Type: schema.FilterExact, Value: "p9"}.Match(rec))
	assert.False(t, schema.Filter{Key: "projectId", Type: schema.FilterExact, Value: "p1"}.Match(rec))
}

// Los extremos del rango numérico son inclusivos.
func TestFilter_RangoNumericoInclusivo(t *testing.T) {
	f := schema.Filter{Key: "budget", Type: schema.FilterNumberRange, Min: "200", Max: "1500"}
	out := schema.FilterRecords(projectRecords(), []schema.Filter{f})
	assert.Equal(t, []string{"1", "2"}, ids(out))

	soloMin := schema.Filter{Key: "budget", Type: schema.FilterNumberRange, Min: "100"}
	assert.Equal(t, []string{"1", "2"}, ids(schema.FilterRecords(projectRecords(), []schema.Filter{soloMin})))
}

func TestFilter_RangoFechasInclusivo(t *testing.T) {
	f := schema.Filter{Key: "startDate", Type: schema.FilterDateRange, From: "2024-01-15", To: "2024-03-01"}
	out := schema.FilterRecords(projectRecords(), []schema.Filter{f})
	assert.Equal(t, []string{"1", "2"}, ids(out))
}

func TestFilter_Combinados(t *testing.T) {
	out := schema.FilterRecords(projectRecords(), []schema.Filter{
		{Key: "status", Type: schema.FilterExact, Value: "active"},
		{Key: "budget", Type: schema.FilterNumberRange, Max: "1000"},
	})
	assert.Equal(t, []string{"3"}, ids(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Paginación y consulta completa
// ──────────────────────────────────────────────────────────────────────────────

func TestPageRequest_Normalize(t *testing.T) {
	assert.Equal(t, schema.PageRequest{Page: 1, Limit: schema.DefaultPageLimit}, schema.PageRequest{}.Normalize())
	assert.Equal(t, schema.MaxPageLimit, schema.PageRequest{Page: 2, Limit: 5000}.Normalize().Limit)
	assert.Equal(t, 20, schema.PageRequest{Page: 3, Limit: 10}.Offset())
}

func TestPaginate(t *testing.T) {
	recs := projectRecords()

	page, info := schema.Paginate(recs, schema.PageRequest{Page: 2, Limit: 3})
	assert.Equal(t, []string{"4"}, ids(page))
	assert.Equal(t, schema.PageInfo{Page: 2, Limit: 3, Total: 4, TotalPages: 2}, info)

	page, info = schema.Paginate(recs, schema.PageRequest{Page: 9, Limit: 3})
	assert.Empty(t, page)
	assert.Equal(t, 4, info.Total)

	_, info = schema.Paginate(nil, schema.PageRequest{})
	assert.Equal(t, 0, info.TotalPages)
}

func TestApply_DescartaColumnasNoDeclaradas(t *testing.T) {
	q := schema.TableQuery{
		Sort: schema.SortState{Key: "notes", Direction: schema.SortAsc},
		Filters: []schema.Filter{
			{Key: "notes", Type: schema.FilterText, Value: "x"},
			{Key: "unknown", Type: schema.FilterText, Value: "x"},
			{Key: "status", Type: schema.FilterText, Value: "active"}, // el tipo lo fija la columna
		},
	}
	clean := q.Sanitize(projectColumns())
	assert.False(t, clean.Sort.Active())
	require.Len(t, clean.Filters, 1)
	assert.Equal(t, schema.FilterExact, clean.Filters[0].Type)
}

func TestApply_FiltraOrdenaYPagina(t *testing.T) {
	q := schema.TableQuery{
		Sort:    schema.SortState{Key: "budget", Direction: schema.SortDesc},
		Filters: []schema.Filter{{Key: "status", Value: "active"}},
		Page:    schema.PageRequest{Page: 1, Limit: 1},
	}
	page, info := schema.Apply(projectRecords(), projectColumns(), q)
	assert.Equal(t, []string{"1"}, ids(page))
	assert.Equal(t, 2, info.Total)
	assert.Equal(t, 2, info.TotalPages)
}

func TestFormatCell(t *testing.T) {
	status := schema.Column{Key: "status", Options: []schema.Option{{Value: "on_hold", Label: "En pausa"}}}
	assert.Equal(t, "En pausa", schema.FormatCell(status, "on_hold"))
	assert.Equal(t, "otro", schema.FormatCell(status, "otro"))

	assert.Equal(t, "No", schema.FormatCell(schema.Column{Format: "boolean"}, false))
	assert.Equal(t, "Sí", schema.FormatCell(schema.Column{Format: "boolean"}, true))
	assert.Equal(t, "1500.50", schema.FormatCell(schema.Column{Format: "currency"}, "1500.5"))
	assert.Equal(t, "2024-05-01", schema.FormatCell(schema.Column{Format: "date"}, "2024-05-01T10:00:00Z"))
	assert.Equal(t, "Acme", schema.FormatCell(schema.Column{Format: "reference"}, map[string]any{"id": "c1", "name": "Acme"}))
	assert.Equal(t, "", schema.FormatCell(schema.Column{}, nil))
}
