package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"time"
)

// Encode serializa los valores de un formulario para enviarlos: JSON, o
// multipart/form-data cuando algún campo contiene un archivo.
func Encode(fields []Field, values Values) ([]byte, string, error) {
	if hasFile(values) {
		return encodeMultipart(fields, values)
	}
	payload := make(map[string]any, len(values))
	types := fieldTypes(fields)
	for k, v := range values {
		if types[k] == FieldDate {
			if t, ok := v.(time.Time); ok {
				payload[k] = t.Format(DateLayout)
				continue
			}
		}
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("schema: serializar JSON: %w", err)
	}
	return body, "application/json", nil
}

func hasFile(values Values) bool {
	for _, v := range values {
		if fv, ok := v.(*FileValue); ok && fv != nil {
			return true
		}
	}
	return false
}

func encodeMultipart(fields []Field, values Values) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, k := range orderedKeys(fields, values) {
		switch t := values[k].(type) {
		case *FileValue:
			if t == nil {
				continue
			}
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, k, t.Filename))
			ct := t.ContentType
			if ct == "" {
				ct = "application/octet-stream"
			}
			h.Set("Content-Type", ct)
			part, err := w.CreatePart(h)
			if err != nil {
				return nil, "", fmt.Errorf("schema: parte %s: %w", k, err)
			}
			if _, err := part.Write(t.Content); err != nil {
				return nil, "", fmt.Errorf("schema: escribir archivo %s: %w", k, err)
			}
		case []string:
			for _, s := range t {
				if err := w.WriteField(k, s); err != nil {
					return nil, "", err
				}
			}
		case []any:
			for _, s := range t {
				if err := w.WriteField(k, AsString(s)); err != nil {
					return nil, "", err
				}
			}
		case nil:
			continue
		default:
			if err := w.WriteField(k, AsString(t)); err != nil {
				return nil, "", err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("schema: cerrar multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// orderedKeys: primero los campos en orden de declaración, luego el resto ordenado.
func orderedKeys(fields []Field, values Values) []string {
	seen := make(map[string]bool, len(values))
	keys := make([]string, 0, len(values))
	for _, f := range fields {
		if _, ok := values[f.Name]; ok {
			keys = append(keys, f.Name)
			seen[f.Name] = true
		}
	}
	var rest []string
	for k := range values {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func fieldTypes(fields []Field) map[string]FieldType {
	out := make(map[string]FieldType, len(fields))
	for _, f := range fields {
		out[f.Name] = f.Type
	}
	return out
}
