// Package schema contiene el motor genérico que interpreta las definiciones
// declarativas de cada recurso: campos de formulario (render + validación),
// columnas de tabla (orden, filtros, paginación) y configuración de modales.
//
// No conoce HTTP ni base de datos: recibe valores y registros como mapas y
// devuelve errores por campo, registros ordenados/filtrados o configuraciones.
package schema

import "strings"

// FieldType selecciona el control a renderizar y la coerción a aplicar.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldEmail       FieldType = "email"
	FieldPassword    FieldType = "password"
	FieldTel         FieldType = "tel"
	FieldNumber      FieldType = "number"
	FieldCurrency    FieldType = "currency"
	FieldDate        FieldType = "date"
	FieldTextarea    FieldType = "textarea"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multiselect"
	FieldCheckbox    FieldType = "checkbox"
	FieldFile        FieldType = "file"
	FieldReference   FieldType = "reference"
)

// IsNumeric indica si el tipo se almacena como decimal.
func (t FieldType) IsNumeric() bool { return t == FieldNumber || t == FieldCurrency }

// HasOptions indica si el campo se renderiza como lista de opciones.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldMultiSelect || t == FieldReference
}

// Option valor seleccionable de un select.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RuleKind tipos de regla de validación.
type RuleKind string

const (
	RuleRequired  RuleKind = "required"
	RuleMin       RuleKind = "min"
	RuleMax       RuleKind = "max"
	RuleMinLength RuleKind = "minLength"
	RuleMaxLength RuleKind = "maxLength"
	RulePattern   RuleKind = "pattern"
	RuleEmail     RuleKind = "email"
	RuleCustom    RuleKind = "custom"
)

// Rule regla de validación. Value depende del tipo: número para min/max/length,
// expresión regular para pattern, "nombre" o "nombre:param" para custom.
type Rule struct {
	Kind    RuleKind `json:"kind"`
	Value   string   `json:"value,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Condition predicado de dependencia: el campo solo es visible si se cumple.
// Con Equals y In vacíos y NotEmpty=false basta con que el campo exista.
type Condition struct {
	Field    string   `json:"field"`
	Equals   string   `json:"equals,omitempty"`
	In       []string `json:"in,omitempty"`
	NotEmpty bool     `json:"notEmpty,omitempty"`
}

// Field descriptor de un campo de formulario.
type Field struct {
	Name        string     `json:"name"`
	Label       string     `json:"label"`
	Type        FieldType  `json:"type"`
	Placeholder string     `json:"placeholder,omitempty"`
	Options     []Option   `json:"options,omitempty"`
	OptionsFrom string     `json:"optionsFrom,omitempty"` // recurso del que se cargan las opciones
	Rules       []Rule     `json:"rules,omitempty"`
	DependsOn   *Condition `json:"dependsOn,omitempty"`
	ReadOnly    bool       `json:"readOnly,omitempty"`
	Default     any        `json:"default,omitempty"`
	Hidden      bool       `json:"hidden,omitempty"` // persistido pero fuera de los formularios
	StaffOnly   bool       `json:"staffOnly,omitempty"` // solo lo edita el personal interno, nunca el portal
	Column      string     `json:"-"`                // columna SQL; por defecto snake_case(Name)
}

// ColumnName nombre de la columna SQL que respalda el campo.
func (f Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return SnakeCase(f.Name)
}

// Required indica si el campo declara la regla required.
func (f Field) Required() bool {
	for _, r := range f.Rules {
		if r.Kind == RuleRequired {
			return true
		}
	}
	return false
}

// HasOption indica si v es una de las opciones estáticas del campo.
func (f Field) HasOption(v string) bool {
	for _, o := range f.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Required regla required con mensaje opcional.
func Required(msg string) Rule { return Rule{Kind: RuleRequired, Message: msg} }

// MinLength, MaxLength, Min, Max, Pattern, Email, Custom: constructores de reglas.
func MinLength(n string) Rule { return Rule{Kind: RuleMinLength, Value: n} }
func MaxLength(n string) Rule { return Rule{Kind: RuleMaxLength, Value: n} }
func Min(n string) Rule { return Rule{Kind: RuleMin, Value: n} }
func Max(n string) Rule { return Rule{Kind: RuleMax, Value: n} }
func Pattern(re, msg string) Rule { return Rule{Kind: RulePattern, Value: re, Message: msg} }
func Email() Rule { return Rule{Kind: RuleEmail} }
func Custom(name, msg string) Rule { return Rule{Kind: RuleCustom, Value: name, Message: msg} }

// Options construye opciones cuyo label coincide con el valor.
func Options(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: v})
	}
	return out
}

// SnakeCase convierte camelCase a snake_case ("projectManagerId" -> "project_manager_id").
func SnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
