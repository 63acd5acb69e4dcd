package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

func TestRegistry_TodosLosRecursos(t *testing.T) {
	reg := entity.NewRegistry()
	names := make([]string, 0)
	for _, r := range reg.All() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"customers", "projects", "contracts", "services", "service-requests",
		"tasks", "teams", "transactions", "users",
	}, names)
}

// Cada definición debe ser coherente: columnas sobre campos conocidos,
// referencias declaradas para los campos reference y tabla SQL definida.
func TestResources_DefinicionesCoherentes(t *testing.T) {
	meta := map[string]bool{"id": true, "createdAt": true, "updatedAt": true}

	for _, r := range entity.NewRegistry().All() {
		t.Run(r.Name, func(t *testing.T) {
			require.NotEmpty(t, r.Table)
			assert.Equal(t, "/api/"+r.Name, r.Endpoint)

			for _, c := range r.Columns {
				_, ok := r.Field(c.Key)
				assert.True(t, ok || meta[c.Key], "columna %s sin campo", c.Key)
			}
			for _, f := range r.Fields {
				if f.Type == schema.FieldReference {
					if _, ok := r.Reference(f.Name); !ok {
						assert.NotEmpty(t, f.OptionsFrom, "referencia %s sin origen", f.Name)
					}
				}
				if f.Type == schema.FieldSelect {
					assert.NotEmpty(t, f.Options, "select %s sin opciones", f.Name)
				}
			}
			if r.CustomerField != "" {
				_, ok := r.Field(r.CustomerField)
				assert.True(t, ok)
			}
			_, ok := r.Field(r.DisplayField)
			assert.True(t, ok, "displayField %s", r.DisplayField)
		})
	}
}

func TestResources_EliminarSoloAdminYGerente(t *testing.T) {
	p := entity.Projects()
	assert.True(t, p.Can(entity.RoleManager, entity.ActionDelete))
	assert.False(t, p.Can(entity.RoleEmployee, entity.ActionDelete))
	assert.True(t, p.Can(entity.RoleEmployee, entity.ActionEdit))

	u := entity.Users()
	assert.False(t, u.AccessibleBy(entity.RoleManager))
	assert.True(t, u.Can(entity.RoleAdmin, entity.ActionDelete))
	assert.False(t, u.Can(entity.RoleAdmin, entity.ActionCreate), "los usuarios se crean por registro")
}

func TestProjects_FechaFinPosterior(t *testing.T) {
	v := schema.NewValidator()
	p := entity.Projects()
	errs := v.Validate(p.Fields, schema.Values{
		"name": "Portal", "customerId": "c1", "status": "active",
		"startDate": "2024-06-01", "endDate": "2024-05-01",
	})
	assert.Equal(t, []string{"endDate"}, errs.Fields())
}

func TestTransactions_ReferenciaSoloConTransferencia(t *testing.T) {
	v := schema.NewValidator()
	tx := entity.Transactions()
	base := schema.Values{"type": "income", "amount": "100", "date": "2024-01-01"}

	cash := base.Clone()
	cash["method"] = "cash"
	assert.False(t, v.Validate(tx.Fields, cash).Any())

	transfer := base.Clone()
	transfer["method"] = "transfer"
	assert.Equal(t, "Indique el número de referencia", v.Validate(tx.Fields, transfer)["reference"])
}

func TestResources_LongitudMinimaDelNombre(t *testing.T) {
	v := schema.NewValidator()
	cases := []struct {
		res      *schema.Resource
		short    string
		shortest string
	}{
		{entity.Customers(), "A", "Ab"},
		{entity.Projects(), "PA", "Pro"},
	}
	for _, tc := range cases {
		t.Run(tc.res.Name, func(t *testing.T) {
			f, ok := tc.res.Field("name")
			require.True(t, ok)

			msg, ok := v.ValidateField(f, schema.Values{"name": tc.short})
			assert.False(t, ok, "%q es demasiado corto", tc.short)
			assert.Contains(t, msg, "al menos")

			_, ok = v.ValidateField(f, schema.Values{"name": tc.shortest})
			assert.True(t, ok, "%q cumple el mínimo", tc.shortest)
		})
	}
}

func TestServiceRequests_EstadoReservadoAlPersonal(t *testing.T) {
	r := entity.ServiceRequests()
	f, ok := r.Field("status")
	require.True(t, ok)
	assert.True(t, f.StaffOnly)

	names := make([]string, 0)
	for _, pf := range r.PortalFields() {
		names = append(names, pf.Name)
	}
	assert.Equal(t, []string{"serviceId", "description", "priority", "requestedDate"}, names)
}
