package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/crud"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

// fixedRepo sirve siempre las mismas filas; solo ListAll interesa al exportar.
type fixedRepo struct {
	rows []schema.Record
}

func (r *fixedRepo) List(context.Context, *schema.Resource, schema.TableQuery) ([]schema.Record, int, error) {
	return r.rows, len(r.rows), nil
}

func (r *fixedRepo) ListAll(_ context.Context, _ *schema.Resource, filters []schema.Filter) ([]schema.Record, error) {
	return schema.FilterRecords(r.rows, filters), nil
}

func (r *fixedRepo) Get(context.Context, *schema.Resource, string) (schema.Record, error) {
	return nil, nil
}

func (r *fixedRepo) Insert(context.Context, *schema.Resource, string, schema.Values, time.Time) error {
	return nil
}

func (r *fixedRepo) Update(context.Context, *schema.Resource, string, schema.Values, time.Time) error {
	return nil
}

func (r *fixedRepo) Delete(context.Context, *schema.Resource, string) error { return nil }

func (r *fixedRepo) Options(context.Context, *schema.Resource) ([]schema.Option, error) {
	return nil, nil
}

// captureExporter guarda el documento recibido.
type captureExporter struct {
	doc ports.ExportDocument
	err error
}

func (e *captureExporter) Export(doc ports.ExportDocument) ([]byte, error) {
	e.doc = doc
	if e.err != nil {
		return nil, e.err
	}
	return []byte("ok"), nil
}

func (e *captureExporter) ContentType() string { return "text/csv" }
func (e *captureExporter) Extension() string   { return "csv" }

func newTestUseCase(exp *captureExporter) *UseCase {
	repo := &fixedRepo{rows: []schema.Record{
		{"id": "1", "name": "Soporte", "category": "support", "price": 100.0, "active": true},
		{"id": "2", "name": "Auditoría", "category": "consulting", "price": 300.0, "active": true},
		{"id": "3", "name": "Capacitación", "category": "training", "price": 50.0, "active": false},
	}}
	records := crud.NewUseCase(entity.NewRegistry(), repo, schema.NewValidator(), nil)
	uc := NewUseCase(records, exp)
	uc.now = func() time.Time { return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC) }
	return uc
}

var manager = crud.Actor{Kind: jwt.KindUser, ID: "u1", Role: entity.RoleManager}

func TestExport_OrdenPorDefectoYNombreDeArchivo(t *testing.T) {
	exp := &captureExporter{}
	uc := newTestUseCase(exp)

	f, err := uc.Export(context.Background(), manager, entity.ResourceServices, "csv", schema.TableQuery{})
	require.NoError(t, err)

	assert.Equal(t, "services-20240305-143000.csv", f.Filename)
	assert.Equal(t, "text/csv", f.ContentType)
	assert.Equal(t, []byte("ok"), f.Content)

	assert.Equal(t, entity.Services().Title, exp.doc.Title)
	require.Len(t, exp.doc.Rows, 3)
	// Sin orden explícito se usa el del recurso (nombre ascendente).
	assert.Equal(t, "Auditoría", exp.doc.Rows[0]["name"])
	assert.Equal(t, "Capacitación", exp.doc.Rows[1]["name"])
	assert.Equal(t, "Soporte", exp.doc.Rows[2]["name"])
}

func TestExport_AplicaFiltrosYOrden(t *testing.T) {
	exp := &captureExporter{}
	uc := newTestUseCase(exp)

	q := schema.TableQuery{
		Sort:    schema.SortState{Key: "price", Direction: schema.SortDesc},
		Filters: []schema.Filter{{Key: "active", Value: "true"}},
	}
	_, err := uc.Export(context.Background(), manager, entity.ResourceServices, "csv", q)
	require.NoError(t, err)

	require.Len(t, exp.doc.Rows, 2)
	assert.Equal(t, "2", exp.doc.Rows[0]["id"])
	assert.Equal(t, "1", exp.doc.Rows[1]["id"])
}

func TestExport_Errores(t *testing.T) {
	ctx := context.Background()

	t.Run("formato desconocido", func(t *testing.T) {
		uc := newTestUseCase(&captureExporter{})
		_, err := uc.Export(ctx, manager, entity.ResourceServices, "docx", schema.TableQuery{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rol sin permiso de exportar", func(t *testing.T) {
		uc := newTestUseCase(&captureExporter{})
		employee := crud.Actor{Kind: jwt.KindUser, ID: "u2", Role: entity.RoleEmployee}
		_, err := uc.Export(ctx, employee, entity.ResourceServices, "csv", schema.TableQuery{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("falla del exportador", func(t *testing.T) {
		boom := errors.New("boom")
		uc := newTestUseCase(&captureExporter{err: boom})
		_, err := uc.Export(ctx, manager, entity.ResourceServices, "csv", schema.TableQuery{})
		assert.ErrorIs(t, err, boom)
	})
}
