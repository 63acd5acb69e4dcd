package dto

import "github.com/jhoicas/Gestion-api/internal/domain/schema"

// ResourceSummary entrada del índice de pantallas.
type ResourceSummary struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Endpoint string `json:"endpoint"`
}

// SchemaResponse definición de una pantalla filtrada para el rol del usuario.
type SchemaResponse struct {
	Name         string                `json:"name"`
	Title        string                `json:"title"`
	Singular     string                `json:"singular"`
	Endpoint     string                `json:"endpoint"`
	Fields       []schema.Field        `json:"fields"`
	Columns      []schema.Column       `json:"columns"`
	Actions      []schema.Action       `json:"actions"`
	References   []schema.Reference    `json:"references,omitempty"`
	Pagination   schema.PaginationMode `json:"pagination"`
	DefaultSort  schema.SortState      `json:"defaultSort"`
	DisplayField string                `json:"displayField"`
}

// ValidateResponse resultado de la validación en seco.
type ValidateResponse struct {
	Valid  bool              `json:"valid"`
	Fields map[string]string `json:"fields,omitempty"`
}
