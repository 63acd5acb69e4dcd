package schema

import (
	"strings"
)

// Normalize convierte la entrada cruda (JSON o formulario) a los tipos del
// esquema. Descarta claves desconocidas, campos de solo lectura y ocultos (los
// fija el servidor). Las claves ausentes siguen ausentes para permitir updates
// parciales. Devuelve errores de tipo por campo.
func Normalize(fields []Field, in Values) (Values, Errors) {
	out := Values{}
	errs := Errors{}
	for _, f := range fields {
		raw, present := in[f.Name]
		if !present || f.ReadOnly || f.Hidden {
			continue
		}
		v, msg := coerce(f, raw)
		if msg != "" {
			errs[f.Name] = msg
			continue
		}
		out[f.Name] = v
	}
	return out, errs
}

// ApplyDefaults completa los campos ausentes que declaran valor por defecto.
func ApplyDefaults(fields []Field, values Values) Values {
	out := values.Clone()
	for _, f := range fields {
		if _, ok := out[f.Name]; ok || f.Default == nil {
			continue
		}
		if v, msg := coerce(f, f.Default); msg == "" {
			out[f.Name] = v
		}
	}
	return out
}

// Merge superpone patch sobre base (update parcial).
func Merge(base, patch Values) Values {
	out := base.Clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

func coerce(f Field, raw any) (any, string) {
	if IsEmpty(raw) && f.Type != FieldCheckbox {
		if f.Type == FieldMultiSelect {
			return []string{}, ""
		}
		return nil, ""
	}
	switch {
	case f.Type.IsNumeric():
		d, ok := AsDecimal(raw)
		if !ok {
			return nil, "Debe ser un número"
		}
		return d, ""

	case f.Type == FieldDate:
		t, ok := AsTime(raw)
		if !ok {
			return nil, "Fecha inválida"
		}
		return t, ""

	case f.Type == FieldCheckbox:
		return AsBool(raw), ""

	case f.Type == FieldMultiSelect:
		vals := AsStrings(raw)
		if len(f.Options) > 0 {
			for _, v := range vals {
				if !f.HasOption(v) {
					return nil, "Opción inválida: " + v
				}
			}
		}
		return vals, ""

	case f.Type == FieldSelect:
		s := strings.TrimSpace(AsString(raw))
		if len(f.Options) > 0 && !f.HasOption(s) {
			return nil, "Opción inválida"
		}
		return s, ""

	case f.Type == FieldReference:
		return ReferenceID(raw), ""

	case f.Type == FieldFile:
		if fv, ok := raw.(*FileValue); ok {
			return fv, ""
		}
		return AsString(raw), ""

	case f.Type == FieldPassword:
		return AsString(raw), ""
	}
	return strings.TrimSpace(AsString(raw)), ""
}

// FromForm arma Values a partir de un formulario multipart: los campos
// multiselect toman todos los valores, el resto el primero.
func FromForm(fields []Field, form map[string][]string, files map[string]*FileValue) Values {
	out := Values{}
	for _, f := range fields {
		if fv, ok := files[f.Name]; ok && f.Type == FieldFile {
			out[f.Name] = fv
			continue
		}
		vals, ok := form[f.Name]
		if !ok {
			continue
		}
		if f.Type == FieldMultiSelect {
			if len(vals) == 1 {
				out[f.Name] = AsStrings(vals[0])
			} else {
				out[f.Name] = vals
			}
			continue
		}
		if len(vals) > 0 {
			out[f.Name] = vals[0]
		}
	}
	return out
}
