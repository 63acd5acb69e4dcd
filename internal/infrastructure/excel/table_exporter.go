// Package excel exporta tablas de recursos a XLSX con excelize.
package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

const headerRow = 1

// TableExporter implementa ports.TableExporter.
type TableExporter struct{}

var _ ports.TableExporter = (*TableExporter)(nil)

func NewTableExporter() *TableExporter {
	return &TableExporter{}
}

func (e *TableExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *TableExporter) Extension() string { return "xlsx" }

// Export escribe una hoja con cabecera fija y autofiltro. Los montos quedan
// como números para que se puedan sumar en la planilla.
func (e *TableExporter) Export(doc ports.ExportDocument) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := sheetName(doc.Title)
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := file.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	set := func(col, row int, value interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = file.SetCellValue(sheet, cell, value)
	}

	for i, c := range doc.Columns {
		set(i+1, headerRow, c.Label)
	}
	for r, rec := range doc.Rows {
		for i, c := range doc.Columns {
			set(i+1, headerRow+1+r, cellValue(c, rec[c.Key]))
		}
	}

	if n := len(doc.Columns); n > 0 {
		last, _ := excelize.ColumnNumberToName(n)
		_ = file.SetCellStyle(sheet, "A1", fmt.Sprintf("%s%d", last, headerRow), headerStyle)
		_ = file.SetColWidth(sheet, "A", last, 20)
		_ = file.AutoFilter(sheet, fmt.Sprintf("A%d:%s%d", headerRow, last, headerRow+len(doc.Rows)), nil)
		for i, c := range doc.Columns {
			if c.Format != "currency" || len(doc.Rows) == 0 {
				continue
			}
			colName, _ := excelize.ColumnNumberToName(i + 1)
			_ = file.SetCellStyle(sheet, fmt.Sprintf("%s%d", colName, headerRow+1),
				fmt.Sprintf("%s%d", colName, headerRow+len(doc.Rows)), moneyStyle)
		}
	}
	_ = file.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: headerRow, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(c schema.Column, v any) interface{} {
	if c.Format == "currency" {
		if d, ok := schema.AsDecimal(v); ok {
			return d.InexactFloat64()
		}
	}
	return schema.FormatCell(c, v)
}

// sheetName nombre válido de hoja: sin caracteres reservados y hasta 31 caracteres.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		return "Datos"
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
