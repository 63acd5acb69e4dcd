package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Registros por estado
	Projects        map[string]int `json:"projects"`
	Tasks           map[string]int `json:"tasks"`
	ServiceRequests map[string]int `json:"serviceRequests"`

	// Movimientos del mes en curso (día 1 – hoy)
	MonthlyIncome  decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpense decimal.Decimal `json:"monthlyExpense"`
	MonthlyBalance decimal.Decimal `json:"monthlyBalance"`

	DateLabel string `json:"dateLabel"` // ej: "Febrero 2026"
}
