// Package ports define los puertos de salida de la capa de aplicación. Los
// adaptadores concretos viven en internal/infrastructure.
package ports

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

// FileStorage almacena los archivos de los campos tipo file. En la base de
// datos solo se guarda la clave devuelta por Put.
type FileStorage interface {
	Put(ctx context.Context, key string, file *schema.FileValue) (string, error)
	// URL enlace de descarga (firmado o público) para la clave.
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
