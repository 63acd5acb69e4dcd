package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Gestion-api/internal/application/crud"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

// Charsets soportados para el CSV de entrada.
const (
	CharsetUTF8   = "utf-8"
	CharsetLatin1 = "iso-8859-1"
)

// multiSep separa los valores de una celda multiselect ("a|b|c").
const multiSep = "|"

// RowError fila rechazada; Line es la línea del CSV (la cabecera es la 1).
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }

// sheet CSV leído con las columnas ya resueltas a campos del recurso.
type sheet struct {
	fields []string // nombre de campo por columna; "" = columna ignorada
	rows   [][]string
}

// readSheet lee el CSV completo. Las columnas se emparejan con los campos
// del formulario por nombre o por etiqueta, sin distinguir mayúsculas.
func readSheet(r io.Reader, res *schema.Resource, charset string, comma rune) (*sheet, error) {
	switch strings.ToLower(charset) {
	case "", CharsetUTF8, "utf8":
	case CharsetLatin1, "latin1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("CSV vacío")
	}
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}

	fields, matched := matchHeader(res, header)
	if matched == 0 {
		return nil, fmt.Errorf("ninguna columna coincide con los campos de %s", res.Name)
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer filas: %w", err)
	}
	return &sheet{fields: fields, rows: rows}, nil
}

func matchHeader(res *schema.Resource, header []string) ([]string, int) {
	form := res.FormFields()
	out := make([]string, len(header))
	matched := 0
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for _, f := range form {
			if strings.EqualFold(h, f.Name) || strings.EqualFold(h, f.Label) {
				out[i] = f.Name
				matched++
				break
			}
		}
	}
	return out, matched
}

// values arma los Values de una fila como si llegaran de un formulario.
// Las celdas vacías se omiten para que apliquen los valores por defecto.
func (s *sheet) values(res *schema.Resource, row []string) schema.Values {
	form := map[string][]string{}
	for i, cell := range row {
		if i >= len(s.fields) || s.fields[i] == "" {
			continue
		}
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		name := s.fields[i]
		if f, ok := res.Field(name); ok && f.Type == schema.FieldMultiSelect {
			form[name] = strings.Split(cell, multiSep)
			continue
		}
		form[name] = []string{cell}
	}
	return schema.FromForm(res.FormFields(), form, nil)
}

// importSheet crea un registro por fila a través del caso de uso CRUD, con la
// misma normalización y validación que la API. Con skipInvalid las filas
// inválidas se reportan y se continúa; sin él la primera fila inválida corta.
func importSheet(ctx context.Context, records *crud.UseCase, actor crud.Actor, res *schema.Resource, s *sheet, skipInvalid bool) (int, []RowError, error) {
	created := 0
	var rejected []RowError
	for i, row := range s.rows {
		line := i + 2
		_, err := records.Create(ctx, actor, res.Name, s.values(res, row))
		if err == nil {
			created++
			continue
		}
		var verr *schema.ValidationError
		if !errors.As(err, &verr) {
			return created, rejected, RowError{Line: line, Err: err}
		}
		rejected = append(rejected, RowError{Line: line, Err: err})
		if !skipInvalid {
			return created, rejected, rejected[len(rejected)-1]
		}
	}
	return created, rejected, nil
}
