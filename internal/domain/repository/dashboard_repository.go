package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusCount cantidad de registros en un estado.
type StatusCount struct {
	Status string
	Count  int
}

// DashboardRepository consultas de solo lectura para el resumen del tablero.
type DashboardRepository interface {
	// CountByStatus agrupa la tabla por su columna status. customerID vacío = todos.
	CountByStatus(ctx context.Context, table, customerID string) ([]StatusCount, error)
	// TransactionTotals suma ingresos y egresos con fecha en [from, to].
	TransactionTotals(ctx context.Context, from, to time.Time, customerID string) (income, expense decimal.Decimal, err error)
}
