package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

type fakeDashboardRepo struct {
	mu       sync.Mutex
	tables   []string
	scopes   []string
	from, to time.Time
	err      error
}

func (f *fakeDashboardRepo) CountByStatus(_ context.Context, table, customerID string) ([]repository.StatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables = append(f.tables, table)
	f.scopes = append(f.scopes, customerID)
	return []repository.StatusCount{{Status: "active", Count: 2}, {Status: "done", Count: 1}}, nil
}

func (f *fakeDashboardRepo) TransactionTotals(_ context.Context, from, to time.Time, _ string) (decimal.Decimal, decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.from, f.to = from, to
	return decimal.RequireFromString("1500.455"), decimal.RequireFromString("400"), f.err
}

func TestGetSummary(t *testing.T) {
	repo := &fakeDashboardRepo{}
	uc := NewDashboardUseCase(repo)
	uc.now = func() time.Time { return time.Date(2026, time.February, 17, 15, 4, 0, 0, time.UTC) }

	s, err := uc.GetSummary(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"active": 2, "done": 1}, s.Projects)
	assert.Equal(t, 3, len(repo.tables))
	assert.NotNil(t, s.Tasks)
	assert.Equal(t, "1500.46", s.MonthlyIncome.StringFixed(2))
	assert.Equal(t, "1100.46", s.MonthlyBalance.StringFixed(2))
	assert.Equal(t, "Febrero 2026", s.DateLabel)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), repo.from)
	assert.Equal(t, 17, repo.to.Day())
}

// En el portal no se consultan tareas y todo va filtrado por cliente.
func TestGetSummary_Portal(t *testing.T) {
	repo := &fakeDashboardRepo{}
	uc := NewDashboardUseCase(repo)

	s, err := uc.GetSummary(context.Background(), "c1")
	require.NoError(t, err)
	assert.Nil(t, s.Tasks)
	assert.ElementsMatch(t, []string{"projects", "service_requests"}, repo.tables)
	assert.Equal(t, []string{"c1", "c1"}, repo.scopes)
}

func TestGetSummary_ErrorDeRepositorio(t *testing.T) {
	repo := &fakeDashboardRepo{err: errors.New("db caída")}
	_, err := NewDashboardUseCase(repo).GetSummary(context.Background(), "")
	assert.ErrorContains(t, err, "transacciones")
}
