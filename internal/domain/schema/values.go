package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Values valores de un formulario indexados por nombre de campo.
type Values map[string]any

// Record fila de una tabla (registro tal como lo devuelve el servidor).
type Record = map[string]any

// FileValue archivo adjunto a un campo tipo file.
type FileValue struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Content     []byte `json:"-"`
}

// DateLayout formato de fecha de los campos date.
const DateLayout = "2006-01-02"

// Clone copia superficial de los valores.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// IsEmpty define "vacío" para la regla required: nil, cadena en blanco,
// lista vacía o checkbox sin marcar.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case bool:
		return !t
	case *FileValue:
		return t == nil || t.Size == 0 && len(t.Content) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// AsString representación textual de un valor, usada por filtros y exportes.
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case decimal.Decimal:
		return t.String()
	case *decimal.Decimal:
		if t == nil {
			return ""
		}
		return t.String()
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(DateLayout)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(DateLayout)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		return strings.Join(t, ", ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, AsString(p))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		// Referencia poblada: se muestra su nombre.
		if name, ok := t["name"]; ok {
			return AsString(name)
		}
		if id, ok := t["id"]; ok {
			return AsString(id)
		}
		return ""
	case *FileValue:
		if t == nil {
			return ""
		}
		return t.Filename
	}
	return fmt.Sprint(v)
}

// AsDecimal interpreta números en cualquiera de sus formas (JSON, texto, decimal).
func AsDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case *decimal.Decimal:
		if t == nil {
			return decimal.Zero, false
		}
		return *t, true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int32:
		return decimal.NewFromInt32(t), true
	case int64:
		return decimal.NewFromInt(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	}
	return decimal.Zero, false
}

// AsTime interpreta fechas "2006-01-02" o RFC3339.
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		if d, err := time.Parse(DateLayout, s); err == nil {
			return d, true
		}
		if d, err := time.Parse(time.RFC3339, s); err == nil {
			return d, true
		}
		if d, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// AsBool interpreta checkbox ("true", "on", "1", true).
func AsBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "on", "1", "yes", "si", "sí":
			return true
		}
	case json.Number:
		return t.String() != "0"
	case float64:
		return t != 0
	}
	return false
}

// AsStrings interpreta multiselect: lista JSON o texto separado por comas.
func AsStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, p := range t {
			if s := AsString(p); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{AsString(v)}
}

// ReferenceID devuelve el id de un valor que puede ser un id plano o una
// referencia poblada ({id, name, ...}).
func ReferenceID(v any) string {
	if m, ok := v.(map[string]any); ok {
		return AsString(m["id"])
	}
	return AsString(v)
}
