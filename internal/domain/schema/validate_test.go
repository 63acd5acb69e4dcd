package schema_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func customerFields() []schema.Field {
	return []schema.Field{
		{Name: "name", Label: "Nombre", Type: schema.FieldText, Rules: []schema.Rule{
			schema.Required(""), schema.MinLength("3"), schema.MaxLength("10"),
		}},
		{Name: "email", Label: "Email", Type: schema.FieldEmail, Rules: []schema.Rule{
			schema.Required(""), schema.Email(),
		}},
		{Name: "code", Label: "Código", Type: schema.FieldText, Rules: []schema.Rule{
			schema.Pattern(`^[A-Z]{3}-\d{3}$`, "Formato AAA-000"),
		}},
		{Name: "notes", Label: "Notas", Type: schema.FieldTextarea},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// required
// ──────────────────────────────────────────────────────────────────────────────

// Solo los campos obligatorios vacíos reportan error, y exactamente esos.
func TestValidate_RequeridosVacios(t *testing.T) {
	v := schema.NewValidator()
	errs := v.Validate(customerFields(), schema.Values{"name": "  ", "notes": ""})

	assert.Equal(t, []string{"email", "name"}, errs.Fields())
	assert.Equal(t, "Nombre es obligatorio", errs["name"])
}

func TestValidate_TodoValido(t *testing.T) {
	v := schema.NewValidator()
	errs := v.Validate(customerFields(), schema.Values{
		"name": "Acme", "email": "ventas@acme.co", "code": "ABC-123",
	})
	assert.False(t, errs.Any(), "no debe haber errores: %v", errs)
}

// ──────────────────────────────────────────────────────────────────────────────
// longitud y patrón
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_Longitudes(t *testing.T) {
	v := schema.NewValidator()
	fields := customerFields()

	cases := []struct {
		name  string
		value string
		ok    bool
	}{
		{"bajo el mínimo", "ab", false},
		{"justo el mínimo", "abc", true},
		{"justo el máximo", "abcdefghij", true},
		{"sobre el máximo", "abcdefghijk", false},
		{"runas multibyte cuentan como una", "ñañ", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := v.Validate(fields, schema.Values{"name": tc.value, "email": "a@b.co"})
			_, failed := errs["name"]
			assert.Equal(t, !tc.ok, failed)
		})
	}
}

func TestValidate_Patron(t *testing.T) {
	v := schema.NewValidator()
	fields := customerFields()

	errs := v.Validate(fields, schema.Values{"name": "Acme", "email": "a@b.co", "code": "abc-12"})
	assert.Equal(t, "Formato AAA-000", errs["code"], "se usa el mensaje declarado en la regla")

	errs = v.Validate(fields, schema.Values{"name": "Acme", "email": "a@b.co", "code": "XYZ-999"})
	assert.NotContains(t, errs, "code")
}

// Un campo opcional vacío no evalúa sus demás reglas.
func TestValidate_OpcionalVacioNoSeValida(t *testing.T) {
	v := schema.NewValidator()
	errs := v.Validate(customerFields(), schema.Values{"name": "Acme", "email": "a@b.co", "code": ""})
	assert.NotContains(t, errs, "code")
}

// Las reglas se evalúan en orden y se detiene en la primera que falla.
func TestValidate_PrimeraReglaQueFalla(t *testing.T) {
	v := schema.NewValidator()
	fields := []schema.Field{{Name: "sku", Type: schema.FieldText, Rules: []schema.Rule{
		{Kind: schema.RuleMinLength, Value: "5", Message: "corto"},
		{Kind: schema.RulePattern, Value: `^\d+$`, Message: "solo dígitos"},
	}}}

	errs := v.Validate(fields, schema.Values{"sku": "ab"})
	assert.Equal(t, "corto", errs["sku"])

	errs = v.Validate(fields, schema.Values{"sku": "abcdef"})
	assert.Equal(t, "solo dígitos", errs["sku"])
}

// ──────────────────────────────────────────────────────────────────────────────
// numéricos, fechas y custom
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_MinMaxNumerico(t *testing.T) {
	v := schema.NewValidator()
	fields := []schema.Field{{Name: "hours", Type: schema.FieldNumber, Rules: []schema.Rule{
		schema.Min("0"), schema.Max("40"),
	}}}

	assert.Contains(t, v.Validate(fields, schema.Values{"hours": "-1"}), "hours")
	assert.NotContains(t, v.Validate(fields, schema.Values{"hours": "0"}), "hours")
	assert.NotContains(t, v.Validate(fields, schema.Values{"hours": 40.0}), "hours")
	assert.Contains(t, v.Validate(fields, schema.Values{"hours": "40.5"}), "hours")
	assert.Equal(t, "Debe ser un número", v.Validate(fields, schema.Values{"hours": "diez"})["hours"])
}

func TestValidate_AfterField(t *testing.T) {
	v := schema.NewValidator()
	fields := []schema.Field{
		{Name: "startDate", Type: schema.FieldDate},
		{Name: "endDate", Type: schema.FieldDate, Rules: []schema.Rule{
			schema.Custom("afterField:startDate", "La fecha fin debe ser posterior al inicio"),
		}},
	}

	errs := v.Validate(fields, schema.Values{"startDate": "2024-05-10", "endDate": "2024-05-01"})
	assert.Equal(t, "La fecha fin debe ser posterior al inicio", errs["endDate"])

	errs = v.Validate(fields, schema.Values{"startDate": "2024-05-10", "endDate": "2024-05-10"})
	assert.False(t, errs.Any())
}

func TestValidate_CustomRegistrado(t *testing.T) {
	v := schema.NewValidator()
	v.Register("even", func(value any, _ string, _ schema.Values) bool {
		d, ok := schema.AsDecimal(value)
		return ok && d.Mod(decimal.NewFromInt(2)).IsZero()
	})
	fields := []schema.Field{{Name: "n", Type: schema.FieldNumber, Rules: []schema.Rule{schema.Custom("even", "")}}}

	assert.Equal(t, "Valor inválido", v.Validate(fields, schema.Values{"n": "3"})["n"])
	assert.False(t, v.Validate(fields, schema.Values{"n": "4"}).Any())
}

func TestValidate_CustomDesconocidoFalla(t *testing.T) {
	v := schema.NewValidator()
	fields := []schema.Field{{Name: "x", Type: schema.FieldText, Rules: []schema.Rule{schema.Custom("nope", "")}}}
	assert.Contains(t, v.Validate(fields, schema.Values{"x": "algo"})["x"], "desconocido")
}

func TestValidate_Telefono(t *testing.T) {
	v := schema.NewValidator()
	fields := []schema.Field{{Name: "phone", Type: schema.FieldTel, Rules: []schema.Rule{schema.Custom("phone", "")}}}

	assert.False(t, v.Validate(fields, schema.Values{"phone": "+57 (601) 555-1234"}).Any())
	assert.True(t, v.Validate(fields, schema.Values{"phone": "12-34"}).Any())
}

// ──────────────────────────────────────────────────────────────────────────────
// visibilidad condicional
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_CampoOcultoNoReportaError(t *testing.T) {
	v := schema.NewValidator()
	fields := []schema.Field{
		{Name: "method", Type: schema.FieldSelect, Options: schema.Options("cash", "transfer")},
		{Name: "reference", Type: schema.FieldText, Rules: []schema.Rule{schema.Required("")},
			DependsOn: &schema.Condition{Field: "method", Equals: "transfer"}},
	}

	assert.False(t, v.Validate(fields, schema.Values{"method": "cash"}).Any())
	assert.Contains(t, v.Validate(fields, schema.Values{"method": "transfer"}), "reference")
}

func TestVisible_Variantes(t *testing.T) {
	in := schema.Field{Name: "x", DependsOn: &schema.Condition{Field: "status", In: []string{"a", "b"}}}
	assert.True(t, schema.Visible(in, schema.Values{"status": "b"}))
	assert.False(t, schema.Visible(in, schema.Values{"status": "c"}))

	notEmpty := schema.Field{Name: "y", DependsOn: &schema.Condition{Field: "projectId", NotEmpty: true}}
	assert.False(t, schema.Visible(notEmpty, schema.Values{}))
	assert.True(t, schema.Visible(notEmpty, schema.Values{"projectId": "p1"}))
}

func TestValidationError_Mensaje(t *testing.T) {
	err := &schema.ValidationError{Fields: schema.Errors{"b": "x", "a": "y"}}
	require.Error(t, err)
	assert.Equal(t, "validación fallida: a, b", err.Error())
}

func TestValidate_OcultosYSoloLecturaNoSeValidan(t *testing.T) {
	v := schema.NewValidator()
	fields := []schema.Field{
		{Name: "name", Type: schema.FieldText, Rules: []schema.Rule{schema.Required("")}},
		{Name: "token", Type: schema.FieldText, Hidden: true, Rules: []schema.Rule{schema.Required("")}},
		{Name: "code", Type: schema.FieldText, ReadOnly: true, Rules: []schema.Rule{schema.Required("")}},
	}

	errs := v.Validate(fields, schema.Values{"name": "Acme"})
	assert.False(t, errs.Any())

	_, ok := v.ValidateField(fields[1], schema.Values{})
	assert.True(t, ok)
}
