package repository

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// CustomerAccountRepository credenciales de clientes para el portal.
type CustomerAccountRepository interface {
	// GetByID y GetByEmail devuelven nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.CustomerAccount, error)
	GetByEmail(ctx context.Context, email string) (*entity.CustomerAccount, error)
	// SetPassword devuelve domain.ErrNotFound si el cliente no existe.
	SetPassword(ctx context.Context, id, passwordHash string) error
}
