package client

import (
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

// Form formulario dinámico del cliente: el mismo estado que usa el motor de
// esquemas, con su guarda de un solo envío en curso.
type Form = schema.FormState

// NewForm crea el formulario con los defaults de los campos y, encima, los
// valores iniciales (p. ej. el registro a editar).
func NewForm(fields []schema.Field, initial schema.Values) *Form {
	return schema.NewForm(fields, schema.NewValidator(), initial)
}

