package crud

import (
	"path"
	"strings"
	"unicode"
)

// fileKey clave de almacenamiento: <recurso>/<id>/<campo>/<nombre-saneado>.
func fileKey(resource, id, field, filename string) string {
	return path.Join(resource, id, field, safeFilename(filename))
}

// safeFilename conserva letras, dígitos, punto, guion y guion bajo; el resto
// se reemplaza por guion bajo.
func safeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "archivo"
	}
	return out
}
