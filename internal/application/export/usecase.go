// Package export genera archivos descargables (XLSX, PDF) a partir de las
// tablas, aplicando los mismos filtros y orden que la vista.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Gestion-api/internal/application/crud"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

// File archivo generado.
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UseCase exporta tablas en los formatos registrados.
type UseCase struct {
	records   *crud.UseCase
	exporters map[string]ports.TableExporter
	now       func() time.Time
}

// NewUseCase registra los exportadores por extensión (xlsx, pdf).
func NewUseCase(records *crud.UseCase, exporters ...ports.TableExporter) *UseCase {
	m := make(map[string]ports.TableExporter, len(exporters))
	for _, e := range exporters {
		m[e.Extension()] = e
	}
	return &UseCase{records: records, exporters: m, now: time.Now}
}

// Export genera el archivo de la tabla en el formato pedido.
func (uc *UseCase) Export(ctx context.Context, actor crud.Actor, name, format string, q schema.TableQuery) (*File, error) {
	exporter, ok := uc.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato de exportación %q", domain.ErrInvalidInput, format)
	}
	res, rows, err := uc.records.Rows(ctx, actor, name, q)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	content, err := exporter.Export(ports.ExportDocument{
		Title:       res.Title,
		Columns:     res.Columns,
		Rows:        rows,
		GeneratedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("exportar %s: %w", format, err)
	}
	return &File{
		Filename:    fmt.Sprintf("%s-%s.%s", res.Name, now.Format("20060102-150405"), exporter.Extension()),
		ContentType: exporter.ContentType(),
		Content:     content,
	}, nil
}
