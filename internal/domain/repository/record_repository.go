package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

// RecordRepository persistencia genérica de registros descrita por un
// schema.Resource. Los registros se devuelven indexados por nombre de campo,
// con las referencias declaradas ya pobladas.
type RecordRepository interface {
	// List aplica filtros, orden y paginación en la base de datos y devuelve
	// la página pedida junto con el total de registros que cumplen los filtros.
	List(ctx context.Context, res *schema.Resource, q schema.TableQuery) ([]schema.Record, int, error)
	// ListAll devuelve todos los registros que cumplen los filtros (tablas
	// paginadas en memoria y exportes).
	ListAll(ctx context.Context, res *schema.Resource, filters []schema.Filter) ([]schema.Record, error)
	// Get devuelve nil, nil si el registro no existe.
	Get(ctx context.Context, res *schema.Resource, id string) (schema.Record, error)
	Insert(ctx context.Context, res *schema.Resource, id string, values schema.Values, now time.Time) error
	// Update solo modifica las claves presentes en values. domain.ErrNotFound si no existe.
	Update(ctx context.Context, res *schema.Resource, id string, values schema.Values, now time.Time) error
	// Delete devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, res *schema.Resource, id string) error
	// Options pares id/etiqueta para poblar selects que referencian el recurso.
	Options(ctx context.Context, res *schema.Resource) ([]schema.Option, error)
}
