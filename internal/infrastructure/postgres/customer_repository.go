package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.CustomerAccountRepository = (*CustomerAccountRepo)(nil)

// CustomerAccountRepo credenciales del portal sobre la tabla customers. El resto
// de columnas del cliente se gestiona con RecordRepo.
type CustomerAccountRepo struct {
	q Querier
}

// NewCustomerAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerAccountRepository(q Querier) *CustomerAccountRepo {
	return &CustomerAccountRepo{q: q}
}

const customerAccountColumns = `id::text, name, email, COALESCE(password_hash, ''), status`

// GetByID obtiene la cuenta de un cliente por ID.
func (r *CustomerAccountRepo) GetByID(ctx context.Context, id string) (*entity.CustomerAccount, error) {
	c, err := r.scanOne(ctx, `SELECT `+customerAccountColumns+` FROM customers WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByEmail obtiene la cuenta por email (índice único sobre LOWER(email)).
func (r *CustomerAccountRepo) GetByEmail(ctx context.Context, email string) (*entity.CustomerAccount, error) {
	c, err := r.scanOne(ctx, `SELECT `+customerAccountColumns+` FROM customers WHERE LOWER(email) = LOWER($1)`, email)
	if err != nil {
		return nil, fmt.Errorf("get customer by email: %w", err)
	}
	return c, nil
}

// SetPassword guarda el hash del password del portal.
func (r *CustomerAccountRepo) SetPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE customers SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set customer password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CustomerAccountRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.CustomerAccount, error) {
	var c entity.CustomerAccount
	err := r.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
