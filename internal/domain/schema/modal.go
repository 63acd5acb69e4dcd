package schema

import "net/http"

// Mode modo de un modal dinámico.
type Mode string

const (
	ModeView   Mode = "view"
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
	ModeDelete Mode = "delete"
)

// Valid indica si el modo es conocido.
func (m Mode) Valid() bool {
	switch m {
	case ModeView, ModeCreate, ModeEdit, ModeDelete:
		return true
	}
	return false
}

// NeedsRecord indica si el modal debe cargar un registro por id.
func (m Mode) NeedsRecord() bool { return m == ModeView || m == ModeEdit || m == ModeDelete }

// Method verbo HTTP por defecto del modo.
func (m Mode) Method() string {
	switch m {
	case ModeCreate:
		return http.MethodPost
	case ModeEdit:
		return http.MethodPut
	case ModeDelete:
		return http.MethodDelete
	}
	return http.MethodGet
}

// ModalConfig configuración de un modal dinámico.
type ModalConfig struct {
	Title        string  `json:"title"`
	Mode         Mode    `json:"mode"`
	Endpoint     string  `json:"endpoint"`
	Method       string  `json:"method"`
	Fields       []Field `json:"fields,omitempty"`
	RecordID     string  `json:"recordId,omitempty"`
	Confirmation string  `json:"confirmation,omitempty"`
}

// RenderFields campos a dibujar: ninguno en delete (solo la confirmación) y
// todos de solo lectura en view.
func (c ModalConfig) RenderFields() []Field {
	switch c.Mode {
	case ModeDelete:
		return nil
	case ModeView:
		out := make([]Field, len(c.Fields))
		for i, f := range c.Fields {
			f.ReadOnly = true
			out[i] = f
		}
		return out
	}
	return c.Fields
}

// Rendered devuelve la configuración lista para servir: con los campos ya
// resueltos según el modo.
func (c ModalConfig) Rendered() ModalConfig {
	c.Fields = c.RenderFields()
	return c
}

// NeedsRecord indica si el modal carga un registro antes de mostrarse.
func (c ModalConfig) NeedsRecord() bool { return c.Mode.NeedsRecord() }

// Editable indica si el modal envía valores del formulario.
func (c ModalConfig) Editable() bool { return c.Mode == ModeCreate || c.Mode == ModeEdit }
