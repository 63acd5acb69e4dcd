package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Errors un mensaje por campo inválido.
type Errors map[string]string

// Any indica si hay al menos un error.
func (e Errors) Any() bool { return len(e) > 0 }

// Fields nombres de los campos con error, ordenados.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ValidationError error de validación con el detalle por campo.
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	return "validación fallida: " + strings.Join(e.Fields.Fields(), ", ")
}

// CustomFunc predicado de una regla custom. param es lo que sigue a ":" en Rule.Value.
type CustomFunc func(value any, param string, values Values) bool

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)
)

// Validator ejecuta las reglas declaradas por cada campo.
// Es seguro para uso concurrente una vez registrados los validadores custom.
type Validator struct {
	mu       sync.RWMutex
	custom   map[string]CustomFunc
	patterns sync.Map // string -> *regexp.Regexp
}

// NewValidator crea un validador con los predicados custom incorporados:
// phone, positive y afterField:<campo>.
func NewValidator() *Validator {
	v := &Validator{custom: make(map[string]CustomFunc)}
	v.Register("phone", func(value any, _ string, _ Values) bool {
		s := AsString(value)
		if !phoneRe.MatchString(s) {
			return false
		}
		digits := 0
		for _, r := range s {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		return digits >= 7 && digits <= 15
	})
	v.Register("positive", func(value any, _ string, _ Values) bool {
		d, ok := AsDecimal(value)
		return ok && d.IsPositive()
	})
	v.Register("afterField", func(value any, other string, values Values) bool {
		end, ok := AsTime(value)
		if !ok {
			return false
		}
		start, ok := AsTime(values[other])
		if !ok {
			return true // sin fecha de referencia no hay nada que comparar
		}
		return !end.Before(start)
	})
	return v
}

// Register agrega (o reemplaza) un predicado custom.
func (v *Validator) Register(name string, fn CustomFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.custom[name] = fn
}

// Visible evalúa el predicado de dependencia del campo.
func Visible(f Field, values Values) bool {
	c := f.DependsOn
	if c == nil {
		return true
	}
	other := values[c.Field]
	switch {
	case c.Equals != "":
		return AsString(other) == c.Equals
	case len(c.In) > 0:
		s := AsString(other)
		for _, candidate := range c.In {
			if candidate == s {
				return true
			}
		}
		return false
	default:
		return !IsEmpty(other)
	}
}

// Validate valida los campos visibles y editables del formulario. Las reglas de cada campo se
// evalúan en orden de declaración y se detiene en la primera que falla. Un valor
// vacío solo puede fallar la regla required.
func (v *Validator) Validate(fields []Field, values Values) Errors {
	errs := Errors{}
	for _, f := range fields {
		if f.ReadOnly || f.Hidden || !Visible(f, values) {
			continue
		}
		if msg, ok := v.validateField(f, values); !ok {
			errs[f.Name] = msg
		}
	}
	return errs
}

// ValidateField valida un único campo (validación al perder el foco).
func (v *Validator) ValidateField(f Field, values Values) (string, bool) {
	if f.ReadOnly || f.Hidden || !Visible(f, values) {
		return "", true
	}
	return v.validateField(f, values)
}

func (v *Validator) validateField(f Field, values Values) (string, bool) {
	value := values[f.Name]
	empty := IsEmpty(value)
	for _, r := range f.Rules {
		if r.Kind != RuleRequired && empty {
			continue
		}
		if ok, def := v.check(f, r, value, values); !ok {
			if r.Message != "" {
				return r.Message, false
			}
			return def, false
		}
	}
	return "", true
}

// check evalúa una regla; devuelve además el mensaje por defecto si falla.
func (v *Validator) check(f Field, r Rule, value any, values Values) (bool, string) {
	switch r.Kind {
	case RuleRequired:
		return !IsEmpty(value), fmt.Sprintf("%s es obligatorio", labelOf(f))

	case RuleMin, RuleMax:
		return v.checkBound(f, r, value)

	case RuleMinLength, RuleMaxLength:
		limit, err := decimal.NewFromString(r.Value)
		if err != nil {
			return false, "regla de longitud mal configurada"
		}
		n := int64(length(value))
		if r.Kind == RuleMinLength {
			return n >= limit.IntPart(), fmt.Sprintf("Debe tener al menos %s caracteres", r.Value)
		}
		return n <= limit.IntPart(), fmt.Sprintf("Debe tener como máximo %s caracteres", r.Value)

	case RulePattern:
		re, err := v.pattern(r.Value)
		if err != nil {
			return false, "patrón de validación inválido"
		}
		return re.MatchString(AsString(value)), "Formato inválido"

	case RuleEmail:
		return emailRe.MatchString(AsString(value)), "Email inválido"

	case RuleCustom:
		name, param, _ := strings.Cut(r.Value, ":")
		v.mu.RLock()
		fn, ok := v.custom[name]
		v.mu.RUnlock()
		if !ok {
			return false, fmt.Sprintf("validador desconocido: %s", name)
		}
		return fn(value, param, values), "Valor inválido"
	}
	return false, fmt.Sprintf("regla desconocida: %s", r.Kind)
}

func (v *Validator) checkBound(f Field, r Rule, value any) (bool, string) {
	if f.Type == FieldDate {
		got, ok1 := AsTime(value)
		limit, ok2 := AsTime(r.Value)
		if !ok1 || !ok2 {
			return false, "Fecha inválida"
		}
		if r.Kind == RuleMin {
			return !got.Before(limit), fmt.Sprintf("Debe ser posterior o igual a %s", r.Value)
		}
		return !got.After(limit), fmt.Sprintf("Debe ser anterior o igual a %s", r.Value)
	}
	got, ok := AsDecimal(value)
	if !ok {
		return false, "Debe ser un número"
	}
	limit, err := decimal.NewFromString(r.Value)
	if err != nil {
		return false, "regla numérica mal configurada"
	}
	if r.Kind == RuleMin {
		return got.GreaterThanOrEqual(limit), fmt.Sprintf("Debe ser mayor o igual a %s", r.Value)
	}
	return got.LessThanOrEqual(limit), fmt.Sprintf("Debe ser menor o igual a %s", r.Value)
}

func (v *Validator) pattern(expr string) (*regexp.Regexp, error) {
	if re, ok := v.patterns.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	v.patterns.Store(expr, re)
	return re, nil
}

func length(value any) int {
	switch t := value.(type) {
	case []string:
		return len(t)
	case []any:
		return len(t)
	}
	return utf8.RuneCountInString(AsString(value))
}

func labelOf(f Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}
