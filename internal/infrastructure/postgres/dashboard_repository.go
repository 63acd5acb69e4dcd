package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// Tablas que el tablero puede agrupar por estado.
var dashboardTables = map[string]bool{
	"projects":         true,
	"tasks":            true,
	"service_requests": true,
}

// DashboardRepo consultas de solo lectura para el resumen del tablero.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador del tablero.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// CountByStatus cantidad de registros por estado. Con customerID solo cuenta los del cliente.
func (r *DashboardRepo) CountByStatus(ctx context.Context, table, customerID string) ([]repository.StatusCount, error) {
	if !dashboardTables[table] {
		return nil, fmt.Errorf("dashboard: tabla %q: %w", table, domain.ErrInvalidInput)
	}
	query := fmt.Sprintf(`SELECT status, COUNT(*) FROM %s`, ident(table))
	var args []any
	if customerID != "" {
		query += ` WHERE customer_id::text = $1`
		args = append(args, customerID)
	}
	query += ` GROUP BY status ORDER BY status`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dashboard.CountByStatus(%s): %w", table, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.StatusCount, error) {
		var sc repository.StatusCount
		err := row.Scan(&sc.Status, &sc.Count)
		return sc, err
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard.CountByStatus(%s): %w", table, err)
	}
	return out, nil
}

// TransactionTotals suma ingresos y egresos con fecha en [from, to].
// Usa COALESCE para devolver cero si no hay movimientos en el período.
func (r *DashboardRepo) TransactionTotals(ctx context.Context, from, to time.Time, customerID string) (income, expense decimal.Decimal, err error) {
	query := `
	SELECT
	    COALESCE(SUM(amount) FILTER (WHERE type = 'income'),  0) AS income,
	    COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) AS expense
	FROM transactions
	WHERE transaction_date BETWEEN $1::date AND $2::date`
	args := []any{from.Format(time.DateOnly), to.Format(time.DateOnly)}
	if customerID != "" {
		query += ` AND customer_id::text = $3`
		args = append(args, customerID)
	}
	if err := r.q.QueryRow(ctx, query, args...).Scan(&income, &expense); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("dashboard.TransactionTotals: %w", err)
	}
	return income, expense, nil
}
