package ports

import (
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

// ExportDocument tabla ya filtrada y ordenada lista para exportar.
type ExportDocument struct {
	Title       string
	Columns     []schema.Column
	Rows        []schema.Record
	GeneratedAt time.Time
}

// TableExporter genera un archivo a partir de una tabla.
type TableExporter interface {
	Export(doc ExportDocument) ([]byte, error)
	ContentType() string
	Extension() string
}
