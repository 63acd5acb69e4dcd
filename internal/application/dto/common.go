package dto

import "github.com/jhoicas/Gestion-api/internal/domain/schema"

// ErrorResponse cuerpo de error HTTP. El cliente muestra el campo error.
type ErrorResponse struct {
	Code   string            `json:"code"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ListResponse página de registros de una tabla.
type ListResponse struct {
	Items []schema.Record `json:"items"`
	Page  schema.PageInfo `json:"page"`
}
