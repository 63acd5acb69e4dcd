package schema

import "fmt"

// PaginationMode dónde se ordena, filtra y pagina una tabla.
type PaginationMode string

const (
	// PaginationServer delega orden/filtros/página al repositorio (SQL).
	PaginationServer PaginationMode = "server"
	// PaginationClient trae todos los registros y aplica la consulta en memoria.
	PaginationClient PaginationMode = "client"
)

// Reference campo que guarda el id de otro recurso y que en lectura se
// reemplaza por el objeto referenciado (referencia poblada).
type Reference struct {
	Field    string   `json:"field"`
	Resource string   `json:"resource"`
	Table    string   `json:"-"`
	Columns  []string `json:"columns"` // columnas del objeto poblado, además de id
}

// Resource definición declarativa de una pantalla de negocio: lo único que
// cada entidad aporta a los motores genéricos de formulario, tabla y modal.
type Resource struct {
	Name          string         `json:"name"`
	Title         string         `json:"title"`
	Singular      string         `json:"singular"`
	Endpoint      string         `json:"endpoint"`
	Table         string         `json:"-"`
	Fields        []Field        `json:"fields"`
	Columns       []Column       `json:"columns"`
	Actions       []Action       `json:"actions"`
	References    []Reference    `json:"references,omitempty"`
	CustomerField string         `json:"customerField,omitempty"`
	DisplayField  string         `json:"displayField"`
	Pagination    PaginationMode `json:"pagination"`
	DefaultSort   SortState      `json:"defaultSort"`
	Roles         []string       `json:"roles,omitempty"` // roles de usuario con acceso; vacío = todos
	PortalCreate  bool           `json:"portalCreate,omitempty"`
}

// Field busca un campo por nombre.
func (r *Resource) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FormFields campos que se muestran en formularios (excluye ocultos).
func (r *Resource) FormFields() []Field {
	out := make([]Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		if !f.Hidden {
			out = append(out, f)
		}
	}
	return out
}

// PortalFields campos del formulario del portal: sin los reservados al personal
// ni el campo de cliente, que se toma del token.
func (r *Resource) PortalFields() []Field {
	out := make([]Field, 0, len(r.Fields))
	for _, f := range r.FormFields() {
		if !f.StaffOnly && f.Name != r.CustomerField {
			out = append(out, f)
		}
	}
	return out
}

// Reference busca la referencia declarada para un campo.
func (r *Resource) Reference(field string) (Reference, bool) {
	for _, ref := range r.References {
		if ref.Field == field {
			return ref, true
		}
	}
	return Reference{}, false
}

// Action busca una acción por nombre.
func (r *Resource) Action(name string) (Action, bool) {
	for _, a := range r.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// AccessibleBy indica si un rol de usuario puede acceder al recurso.
func (r *Resource) AccessibleBy(role string) bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, x := range r.Roles {
		if x == role {
			return true
		}
	}
	return false
}

// Can indica si el rol puede ejecutar la acción. Acciones no declaradas se niegan.
func (r *Resource) Can(role, action string) bool {
	if !r.AccessibleBy(role) {
		return false
	}
	a, ok := r.Action(action)
	return ok && a.Allowed(role)
}

// ActionsFor acciones visibles para un rol.
func (r *Resource) ActionsFor(role string) []Action {
	out := make([]Action, 0, len(r.Actions))
	for _, a := range r.Actions {
		if a.Allowed(role) {
			out = append(out, a)
		}
	}
	return out
}

// Modal construye la configuración del modal para el modo e id indicados.
func (r *Resource) Modal(mode Mode, id string) (ModalConfig, error) {
	if !mode.Valid() {
		return ModalConfig{}, fmt.Errorf("schema: modo de modal inválido %q", mode)
	}
	if mode.NeedsRecord() && id == "" {
		return ModalConfig{}, fmt.Errorf("schema: el modo %s requiere id", mode)
	}
	cfg := ModalConfig{
		Title:    modalTitle(mode, r.Singular),
		Mode:     mode,
		Endpoint: r.Endpoint,
		Method:   mode.Method(),
		Fields:   r.FormFields(),
		RecordID: id,
	}
	if id != "" {
		cfg.Endpoint = r.Endpoint + "/" + id
	}
	if mode == ModeDelete {
		cfg.Confirmation = fmt.Sprintf("¿Está seguro de eliminar este %s? Esta acción no se puede deshacer.", r.Singular)
	}
	return cfg, nil
}

func modalTitle(mode Mode, singular string) string {
	switch mode {
	case ModeView:
		return "Detalle de " + singular
	case ModeCreate:
		return "Nuevo " + singular
	case ModeEdit:
		return "Editar " + singular
	case ModeDelete:
		return "Eliminar " + singular
	}
	return singular
}
