package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Proyectos", sheetName(" Proyectos "))
	assert.Equal(t, "Ingresos-Egresos", sheetName("Ingresos/Egresos"))
	assert.Equal(t, "Datos", sheetName(""))
	assert.Len(t, []rune(sheetName("Solicitudes de servicio del portal de clientes")), 31)
}

func TestTableExporter_Export(t *testing.T) {
	doc := ports.ExportDocument{
		Title: "Transacciones",
		Columns: []schema.Column{
			{Key: "type", Label: "Tipo", Options: []schema.Option{{Value: "income", Label: "Ingreso"}}},
			{Key: "amount", Label: "Monto", Format: "currency"},
			{Key: "date", Label: "Fecha", Format: "date"},
			{Key: "customerId", Label: "Cliente", Format: "reference"},
		},
		Rows: []schema.Record{
			{"type": "income", "amount": "1500.50", "date": "2024-05-01",
				"customerId": map[string]any{"id": "c1", "name": "Acme"}},
		},
		GeneratedAt: time.Now(),
	}

	out, err := NewTableExporter().Export(doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Transacciones")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Tipo", "Monto", "Fecha", "Cliente"}, rows[0])
	assert.Equal(t, "Ingreso", rows[1][0])
	assert.Equal(t, "2024-05-01", rows[1][2])
	assert.Equal(t, "Acme", rows[1][3])

	raw, err := f.GetCellValue("Transacciones", "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1500.5", raw)
}
