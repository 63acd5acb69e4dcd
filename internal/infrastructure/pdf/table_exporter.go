// Package pdf exporta tablas de recursos a PDF con Maroto v2.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TÍTULO del recurso           │  Generado: fecha + registros │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CABECERA: etiquetas de columna                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FILAS: valores formateados (estados, fechas, moneda)        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"unicode/utf8"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Maroto reparte el ancho en una grilla de 12.
const gridSize = 12

// TableExporter implementa ports.TableExporter usando Maroto v2.
type TableExporter struct{}

var _ ports.TableExporter = (*TableExporter)(nil)

// NewTableExporter construye el exportador.
func NewTableExporter() *TableExporter { return &TableExporter{} }

// ContentType tipo MIME del archivo.
func (e *TableExporter) ContentType() string { return "application/pdf" }

// Extension extensión del archivo.
func (e *TableExporter) Extension() string { return "pdf" }

// Export genera el PDF y devuelve sus bytes. Con más de 12 columnas se
// exportan las 12 primeras.
func (e *TableExporter) Export(doc ports.ExportDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(doc.Title, true).
		Build()

	m := maroto.New(cfg)

	columns := doc.Columns
	if len(columns) > gridSize {
		columns = columns[:gridSize]
	}
	sizes := columnSizes(len(columns))

	m.AddRows(titleRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(headerRow(columns, sizes))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, rec := range doc.Rows {
		m.AddRows(recordRow(columns, sizes, rec))
	}
	if len(doc.Rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(gridSize).Add(
			text.New("Sin registros para los filtros aplicados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// titleRow: título del recurso (izq) y fecha de generación (der).
func titleRow(doc ports.ExportDocument) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(doc.Title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+doc.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 2,
			}),
			text.New(fmt.Sprintf("%d registros", len(doc.Rows)), props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 7,
			}),
		),
	)
}

func headerRow(columns []schema.Column, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for i, c := range columns {
		cols = append(cols, col.New(sizes[i]).Add(text.New(c.Label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: cellAlign(c),
			Color: colorPrimary, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cols...)
}

func recordRow(columns []schema.Column, sizes []int, rec schema.Record) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for i, c := range columns {
		v := truncate(schema.FormatCell(c, rec[c.Key]), maxChars(sizes[i]))
		cols = append(cols, col.New(sizes[i]).Add(text.New(v, props.Text{
			Size: 7.5, Align: cellAlign(c), Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// columnSizes reparte la grilla; el sobrante va a las primeras columnas.
// Ej: 5 columnas -> [3 3 2 2 2].
func columnSizes(n int) []int {
	if n == 0 {
		return nil
	}
	sizes := make([]int, n)
	base, extra := gridSize/n, gridSize%n
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}
	return sizes
}

func cellAlign(c schema.Column) align.Type {
	if c.Format == "currency" {
		return align.Right
	}
	return align.Left
}

// maxChars caracteres que caben en una fila de altura fija según el ancho de la columna.
func maxChars(size int) int { return size * 11 }

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
