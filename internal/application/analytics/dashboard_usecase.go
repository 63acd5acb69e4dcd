// Package analytics contiene los casos de uso del tablero de resumen.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen de estados y el flujo de caja del mes en curso.
//
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO. customerID vacío = toda la empresa;
// informado = solo los datos de ese cliente (portal).
//
// Cuatro consultas en paralelo:
//  1. CountByStatus(projects)
//  2. CountByStatus(tasks)
//  3. CountByStatus(service_requests)
//  4. TransactionTotals(mes)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, customerID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	type countResult struct {
		counts map[string]int
		err    error
	}
	type totalsResult struct {
		income, expense decimal.Decimal
		err             error
	}

	count := func(table string) <-chan countResult {
		ch := make(chan countResult, 1)
		go func() {
			rows, err := uc.repo.CountByStatus(ctx, table, customerID)
			m := make(map[string]int, len(rows))
			for _, r := range rows {
				m[r.Status] = r.Count
			}
			ch <- countResult{m, err}
		}()
		return ch
	}

	projectsCh := count("projects")
	requestsCh := count("service_requests")
	// Las tareas no tienen cliente: en el portal no se muestran.
	var tasksCh <-chan countResult
	if customerID == "" {
		tasksCh = count("tasks")
	} else {
		empty := make(chan countResult, 1)
		empty <- countResult{}
		tasksCh = empty
	}
	totalsCh := make(chan totalsResult, 1)
	go func() {
		in, out, err := uc.repo.TransactionTotals(ctx, monthStart, monthEnd, customerID)
		totalsCh <- totalsResult{in, out, err}
	}()

	projects, tasks, requests, totals := <-projectsCh, <-tasksCh, <-requestsCh, <-totalsCh
	if projects.err != nil {
		return nil, fmt.Errorf("dashboard: proyectos: %w", projects.err)
	}
	if tasks.err != nil {
		return nil, fmt.Errorf("dashboard: tareas: %w", tasks.err)
	}
	if requests.err != nil {
		return nil, fmt.Errorf("dashboard: solicitudes: %w", requests.err)
	}
	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: transacciones: %w", totals.err)
	}

	summary := &dto.DashboardSummaryDTO{
		Projects:        projects.counts,
		Tasks:           tasks.counts,
		ServiceRequests: requests.counts,
		MonthlyIncome:   totals.income.Round(2),
		MonthlyExpense:  totals.expense.Round(2),
		MonthlyBalance:  totals.income.Sub(totals.expense).Round(2),
		DateLabel:       monthLabel(now),
	}
	return summary, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
