package crud_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/crud"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memRepo struct {
	mu   sync.Mutex
	data map[string]map[string]schema.Record // recurso -> id -> registro
	ids  map[string][]string                 // orden de inserción
}

func newMemRepo() *memRepo {
	return &memRepo{data: map[string]map[string]schema.Record{}, ids: map[string][]string{}}
}

func (m *memRepo) all(res *schema.Resource, filters []schema.Filter) []schema.Record {
	out := make([]schema.Record, 0)
	for _, id := range m.ids[res.Name] {
		if rec, ok := m.data[res.Name][id]; ok {
			cp := schema.Record{}
			for k, v := range rec {
				cp[k] = v
			}
			out = append(out, cp)
		}
	}
	return schema.FilterRecords(out, filters)
}

func (m *memRepo) List(_ context.Context, res *schema.Resource, q schema.TableQuery) ([]schema.Record, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	filtered := m.all(res, q.Filters)
	page, info := schema.Paginate(schema.SortRecords(filtered, q.Sort), q.Page)
	return page, info.Total, nil
}

func (m *memRepo) ListAll(_ context.Context, res *schema.Resource, filters []schema.Filter) ([]schema.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.all(res, filters), nil
}

func (m *memRepo) Get(_ context.Context, res *schema.Resource, id string) (schema.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.data[res.Name][id]
	if !ok {
		return nil, nil
	}
	cp := schema.Record{}
	for k, v := range rec {
		cp[k] = v
	}
	return cp, nil
}

func (m *memRepo) Insert(_ context.Context, res *schema.Resource, id string, values schema.Values, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[res.Name] == nil {
		m.data[res.Name] = map[string]schema.Record{}
	}
	rec := schema.Record{"id": id, "createdAt": now, "updatedAt": now}
	for k, v := range values {
		rec[k] = v
	}
	m.data[res.Name][id] = rec
	m.ids[res.Name] = append(m.ids[res.Name], id)
	return nil
}

func (m *memRepo) Update(_ context.Context, res *schema.Resource, id string, values schema.Values, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.data[res.Name][id]
	if !ok {
		return domain.ErrNotFound
	}
	for k, v := range values {
		rec[k] = v
	}
	rec["updatedAt"] = now
	return nil
}

func (m *memRepo) Delete(_ context.Context, res *schema.Resource, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[res.Name][id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.data[res.Name], id)
	return nil
}

func (m *memRepo) Options(_ context.Context, res *schema.Resource) ([]schema.Option, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]schema.Option, 0)
	for _, rec := range m.all(res, nil) {
		out = append(out, schema.Option{Value: rec["id"].(string), Label: schema.AsString(rec[res.DisplayField])})
	}
	return out, nil
}

type memStorage struct {
	files   map[string]*schema.FileValue
	deleted []string
}

func (s *memStorage) Put(_ context.Context, key string, f *schema.FileValue) (string, error) {
	s.files[key] = f
	return key, nil
}

func (s *memStorage) URL(_ context.Context, key string) (string, error) {
	return "https://files.test/" + key, nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.files, key)
	return nil
}

var (
	admin    = crud.Actor{Kind: jwt.KindUser, ID: "u-admin", Role: entity.RoleAdmin}
	employee = crud.Actor{Kind: jwt.KindUser, ID: "u-emp", Role: entity.RoleEmployee}
)

func newUseCase(t *testing.T) (*crud.UseCase, *memRepo, *memStorage) {
	t.Helper()
	repo := newMemRepo()
	store := &memStorage{files: map[string]*schema.FileValue{}}
	return crud.NewUseCase(entity.NewRegistry(), repo, schema.NewValidator(), store), repo, store
}

func mustCreate(t *testing.T, uc *crud.UseCase, actor crud.Actor, name string, in schema.Values) schema.Record {
	t.Helper()
	rec, err := uc.Create(context.Background(), actor, name, in)
	require.NoError(t, err)
	return rec
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Get
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignaIDYDefaults(t *testing.T) {
	uc, _, _ := newUseCase(t)

	rec := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{
		"name": " Acme ", "email": "ventas@acme.co",
	})

	assert.NotEmpty(t, rec["id"])
	assert.Equal(t, "Acme", rec["name"])
	assert.Equal(t, entity.StatusActive, rec["status"])
	assert.NotNil(t, rec["createdAt"])
}

func TestCreate_ErrorDeValidacion(t *testing.T) {
	uc, repo, _ := newUseCase(t)

	_, err := uc.Create(context.Background(), employee, entity.ResourceCustomers, schema.Values{"email": "no-es-email"})

	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"email", "name"}, verr.Fields.Fields())
	assert.Empty(t, repo.ids[entity.ResourceCustomers], "no se persiste nada")
}

func TestCreate_ErrorDeTipo(t *testing.T) {
	uc, _, _ := newUseCase(t)
	_, err := uc.Create(context.Background(), employee, entity.ResourceServices, schema.Values{
		"name": "Soporte", "price": "caro", "category": "support",
	})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Debe ser un número", verr.Fields["price"])
}

func TestCreate_SubeArchivo(t *testing.T) {
	uc, _, store := newUseCase(t)
	c := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@acme.co"})

	rec := mustCreate(t, uc, employee, entity.ResourceContracts, schema.Values{
		"title": "Soporte anual", "customerId": c["id"], "value": "1200",
		"startDate": "2024-01-01", "status": "active",
		"document": &schema.FileValue{Filename: "../contrato firmado.pdf", Size: 4, Content: []byte("%PDF")},
	})

	doc, ok := rec["document"].(map[string]any)
	require.True(t, ok, "el archivo se devuelve como {key, url}")
	key := doc["key"].(string)
	assert.Contains(t, key, "contracts/")
	assert.Contains(t, key, "contrato_firmado.pdf")
	assert.Equal(t, "https://files.test/"+key, doc["url"])
	assert.Contains(t, store.files, key)
}

func TestGet_NoExiste(t *testing.T) {
	uc, _, _ := newUseCase(t)
	_, err := uc.Get(context.Background(), employee, entity.ResourceCustomers, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecursoDesconocido(t *testing.T) {
	uc, _, _ := newUseCase(t)
	_, err := uc.List(context.Background(), employee, "planets", schema.TableQuery{})
	assert.ErrorIs(t, err, domain.ErrUnknownResource)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_ParcialSobreRegistroGuardado(t *testing.T) {
	uc, _, _ := newUseCase(t)
	c := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@acme.co"})

	rec, err := uc.Update(context.Background(), employee, entity.ResourceCustomers, c["id"].(string), schema.Values{"phone": "+57 300 123 4567"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec["name"])
	assert.Equal(t, "+57 300 123 4567", rec["phone"])
}

func TestUpdate_ValidaElResultadoCompleto(t *testing.T) {
	uc, _, _ := newUseCase(t)
	c := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@acme.co"})
	p := mustCreate(t, uc, employee, entity.ResourceProjects, schema.Values{
		"name": "Portal", "customerId": c["id"], "startDate": "2024-03-01",
	})

	_, err := uc.Update(context.Background(), employee, entity.ResourceProjects, p["id"].(string), schema.Values{"endDate": "2024-02-01"})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "endDate")
}

// Al cambiar el medio de pago la referencia deja de ser visible y se limpia.
func TestUpdate_LimpiaCamposOcultos(t *testing.T) {
	uc, _, _ := newUseCase(t)
	tx := mustCreate(t, uc, employee, entity.ResourceTransactions, schema.Values{
		"type": "income", "amount": "100", "date": "2024-01-10", "method": "transfer", "reference": "TRX-1",
	})
	assert.Equal(t, "TRX-1", tx["reference"])

	rec, err := uc.Update(context.Background(), employee, entity.ResourceTransactions, tx["id"].(string), schema.Values{"method": "cash"})
	require.NoError(t, err)
	assert.Nil(t, rec["reference"])
}

func TestDelete_SoloAdminYGerente(t *testing.T) {
	uc, _, store := newUseCase(t)
	c := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@acme.co"})
	ct := mustCreate(t, uc, employee, entity.ResourceContracts, schema.Values{
		"title": "Soporte", "customerId": c["id"], "value": "10", "startDate": "2024-01-01",
		"document": &schema.FileValue{Filename: "c.pdf", Size: 1, Content: []byte("x")},
	})
	id := ct["id"].(string)

	err := uc.Delete(context.Background(), employee, entity.ResourceContracts, id)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Delete(context.Background(), admin, entity.ResourceContracts, id))
	assert.Len(t, store.deleted, 1, "se borra el documento adjunto")

	err = uc.Delete(context.Background(), admin, entity.ResourceContracts, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_ReemplazaArchivoYBorraElAnterior(t *testing.T) {
	uc, _, store := newUseCase(t)
	c := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@acme.co"})
	ct := mustCreate(t, uc, employee, entity.ResourceContracts, schema.Values{
		"title": "Soporte", "customerId": c["id"], "value": "10", "startDate": "2024-01-01",
		"document": &schema.FileValue{Filename: "v1.pdf", Size: 1, Content: []byte("1")},
	})
	id := ct["id"].(string)
	first := ct["document"].(map[string]any)["key"].(string)

	rec, err := uc.Update(context.Background(), employee, entity.ResourceContracts, id, schema.Values{
		"document": &schema.FileValue{Filename: "v2.pdf", Size: 1, Content: []byte("2")},
	})
	require.NoError(t, err)
	second := rec["document"].(map[string]any)["key"].(string)
	assert.NotEqual(t, first, second)
	assert.Equal(t, []string{first}, store.deleted)
	assert.NotContains(t, store.files, first)
	assert.Contains(t, store.files, second)

	// Un update que no toca el archivo no borra nada.
	_, err = uc.Update(context.Background(), employee, entity.ResourceContracts, id, schema.Values{"title": "Soporte anual"})
	require.NoError(t, err)
	assert.Len(t, store.deleted, 1)

	// null quita el archivo y lo borra del almacenamiento.
	rec, err = uc.Update(context.Background(), employee, entity.ResourceContracts, id, schema.Values{"document": nil})
	require.NoError(t, err)
	assert.Nil(t, rec["document"])
	assert.Equal(t, []string{first, second}, store.deleted)
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestList_PaginacionServidor(t *testing.T) {
	uc, _, _ := newUseCase(t)
	for _, n := range []string{"Cedro", "alamo", "Balsa"} {
		mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": n, "email": "x@y.co"})
	}

	out, err := uc.List(context.Background(), employee, entity.ResourceCustomers, schema.TableQuery{
		Sort: schema.SortState{Key: "name", Direction: schema.SortAsc},
		Page: schema.PageRequest{Page: 1, Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "alamo", out.Items[0]["name"])
	assert.Equal(t, "Balsa", out.Items[1]["name"])
	assert.Equal(t, schema.PageInfo{Page: 1, Limit: 2, Total: 3, TotalPages: 2}, out.Page)
}

func TestList_PaginacionCliente(t *testing.T) {
	uc, _, _ := newUseCase(t)
	for _, p := range []string{"300", "100", "200"} {
		mustCreate(t, uc, employee, entity.ResourceServices, schema.Values{"name": "S" + p, "price": p, "category": "support"})
	}

	out, err := uc.List(context.Background(), employee, entity.ResourceServices, schema.TableQuery{
		Sort:    schema.SortState{Key: "price", Direction: schema.SortDesc},
		Filters: []schema.Filter{{Key: "price", Max: "250"}},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "S200", out.Items[0]["name"])
	assert.Equal(t, 2, out.Page.Total)
}

func TestListByCustomer(t *testing.T) {
	uc, _, _ := newUseCase(t)
	a := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@a.co"})
	b := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Bosque", "email": "b@b.co"})
	mustCreate(t, uc, employee, entity.ResourceProjects, schema.Values{"name": "PA1", "customerId": a["id"], "startDate": "2024-01-01"})
	mustCreate(t, uc, employee, entity.ResourceProjects, schema.Values{"name": "PB1", "customerId": b["id"], "startDate": "2024-01-01"})

	out, err := uc.ListByCustomer(context.Background(), employee, entity.ResourceProjects, a["id"].(string), schema.TableQuery{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "PA1", out.Items[0]["name"])

	_, err = uc.ListByCustomer(context.Background(), employee, entity.ResourceTasks, a["id"].(string), schema.TableQuery{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Portal de clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestPortal_ClienteSoloVeLoSuyo(t *testing.T) {
	uc, _, _ := newUseCase(t)
	a := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@a.co"})
	b := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Bosque", "email": "b@b.co"})
	mustCreate(t, uc, employee, entity.ResourceProjects, schema.Values{"name": "Proyecto A", "customerId": a["id"], "startDate": "2024-01-01"})
	pb := mustCreate(t, uc, employee, entity.ResourceProjects, schema.Values{"name": "Proyecto B", "customerId": b["id"], "startDate": "2024-01-01"})

	customer := crud.Actor{Kind: jwt.KindCustomer, ID: a["id"].(string)}

	out, err := uc.List(context.Background(), customer, entity.ResourceProjects, schema.TableQuery{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Proyecto A", out.Items[0]["name"])

	_, err = uc.Get(context.Background(), customer, entity.ResourceProjects, pb["id"].(string))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.List(context.Background(), customer, entity.ResourceTasks, schema.TableQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(context.Background(), customer, entity.ResourceProjects, schema.Values{"name": "X"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPortal_ClienteCreaSolicitud(t *testing.T) {
	uc, _, _ := newUseCase(t)
	a := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@a.co"})
	b := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Bosque", "email": "b@b.co"})
	s := mustCreate(t, uc, employee, entity.ResourceServices, schema.Values{"name": "Soporte", "price": "10", "category": "support"})
	customer := crud.Actor{Kind: jwt.KindCustomer, ID: a["id"].(string)}

	rec, err := uc.Create(context.Background(), customer, entity.ResourceServiceRequests, schema.Values{
		"customerId":    b["id"], // se ignora: el cliente del token manda
		"serviceId":     s["id"],
		"description":   "Necesitamos soporte para la migración",
		"requestedDate": "2024-07-01",
	})
	require.NoError(t, err)
	assert.Equal(t, a["id"], rec["customerId"])
	assert.Equal(t, "pending", rec["status"])
	assert.Equal(t, "medium", rec["priority"])
}

func TestPortal_ClienteNoFijaCamposInternos(t *testing.T) {
	uc, _, _ := newUseCase(t)
	a := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@a.co"})
	s := mustCreate(t, uc, employee, entity.ResourceServices, schema.Values{"name": "Soporte", "price": "10", "category": "support"})
	customer := crud.Actor{Kind: jwt.KindCustomer, ID: a["id"].(string)}
	in := schema.Values{
		"serviceId":     s["id"],
		"description":   "Necesitamos soporte para la migración",
		"requestedDate": "2024-07-01",
		"status":        "completed",
	}

	rec, err := uc.Create(context.Background(), customer, entity.ResourceServiceRequests, in)
	require.NoError(t, err)
	assert.Equal(t, "pending", rec["status"])
	assert.Equal(t, "completed", in["status"], "la entrada del llamador no se modifica")

	// El personal sí decide el estado.
	in["customerId"] = a["id"]
	rec, err = uc.Create(context.Background(), employee, entity.ResourceServiceRequests, in)
	require.NoError(t, err)
	assert.Equal(t, "completed", rec["status"])

	sc, err := uc.Schema(customer, entity.ResourceServiceRequests)
	require.NoError(t, err)
	for _, f := range sc.Fields {
		assert.NotEqual(t, "status", f.Name)
		assert.NotEqual(t, "customerId", f.Name)
	}
	cfg, err := uc.Modal(customer, entity.ResourceServiceRequests, schema.ModeCreate, "")
	require.NoError(t, err)
	for _, f := range cfg.Fields {
		assert.NotEqual(t, "status", f.Name)
	}
}

func TestPortal_ValidacionEnSecoUsaElClienteDelToken(t *testing.T) {
	uc, _, _ := newUseCase(t)
	a := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@a.co"})
	s := mustCreate(t, uc, employee, entity.ResourceServices, schema.Values{"name": "Soporte", "price": "10", "category": "support"})
	customer := crud.Actor{Kind: jwt.KindCustomer, ID: a["id"].(string)}
	in := schema.Values{
		"serviceId":     s["id"],
		"description":   "Necesitamos soporte para la migración",
		"requestedDate": "2024-07-01",
		"status":        "no-existe",
	}

	errs, err := uc.Validate(context.Background(), customer, entity.ResourceServiceRequests, in)
	require.NoError(t, err)
	assert.Empty(t, errs.Fields())

	// Un usuario interno sí debe elegir el cliente.
	delete(in, "status")
	errs, err = uc.Validate(context.Background(), employee, entity.ResourceServiceRequests, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"customerId"}, errs.Fields())
}

// ──────────────────────────────────────────────────────────────────────────────
// Schema, modal, opciones, validación en seco
// ──────────────────────────────────────────────────────────────────────────────

func TestSchema_AccionesSegunRol(t *testing.T) {
	uc, _, _ := newUseCase(t)

	s, err := uc.Schema(employee, entity.ResourceProjects)
	require.NoError(t, err)
	names := make([]string, 0)
	for _, a := range s.Actions {
		names = append(names, a.Name)
	}
	assert.NotContains(t, names, entity.ActionDelete)

	_, err = uc.Schema(employee, entity.ResourceUsers)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Len(t, uc.Resources(admin), 9)
	assert.Len(t, uc.Resources(employee), 8)
}

func TestModal(t *testing.T) {
	uc, _, _ := newUseCase(t)

	cfg, err := uc.Modal(admin, entity.ResourceTasks, schema.ModeDelete, "t1")
	require.NoError(t, err)
	assert.Empty(t, cfg.Fields)
	assert.NotEmpty(t, cfg.Confirmation)

	_, err = uc.Modal(employee, entity.ResourceTasks, schema.ModeDelete, "t1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Modal(admin, entity.ResourceTasks, schema.ModeEdit, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOptions(t *testing.T) {
	uc, _, _ := newUseCase(t)
	c := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@acme.co"})

	opts, err := uc.Options(context.Background(), employee, entity.ResourceProjects, "customerId")
	require.NoError(t, err)
	assert.Equal(t, []schema.Option{{Value: c["id"].(string), Label: "Acme"}}, opts)

	opts, err = uc.Options(context.Background(), employee, entity.ResourceProjects, "status")
	require.NoError(t, err)
	assert.Len(t, opts, 5)

	_, err = uc.Options(context.Background(), employee, entity.ResourceProjects, "name")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidate_EnSeco(t *testing.T) {
	uc, repo, _ := newUseCase(t)
	errs, err := uc.Validate(context.Background(), employee, entity.ResourceCustomers, schema.Values{"name": "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "name"}, errs.Fields())
	assert.Empty(t, repo.ids)
}

func TestRows_ExportOrdenado(t *testing.T) {
	uc, _, _ := newUseCase(t)
	for _, n := range []string{"beta", "alfa"} {
		mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": n, "email": "x@y.co"})
	}
	_, rows, err := uc.Rows(context.Background(), admin, entity.ResourceCustomers, schema.TableQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alfa", rows[0]["name"])

	_, _, err = uc.Rows(context.Background(), employee, entity.ResourceCustomers, schema.TableQuery{})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestRows_SinOrdenConservaElDelRepositorio(t *testing.T) {
	uc, _, _ := newUseCase(t)
	for _, n := range []string{"beta", "alfa", "gama"} {
		mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": n, "email": "x@y.co"})
	}
	_, rows, err := uc.Rows(context.Background(), admin, entity.ResourceCustomers, schema.TableQuery{
		Sort: schema.SortState{Key: "name", Direction: schema.SortNone},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "beta", rows[0]["name"])
	assert.Equal(t, "alfa", rows[1]["name"])
	assert.Equal(t, "gama", rows[2]["name"])
}

func TestOptions_PortalNoExponeOtrosClientes(t *testing.T) {
	uc, _, _ := newUseCase(t)
	a := mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Acme", "email": "a@a.co"})
	mustCreate(t, uc, employee, entity.ResourceCustomers, schema.Values{"name": "Bosque", "email": "b@b.co"})
	s := mustCreate(t, uc, employee, entity.ResourceServices, schema.Values{"name": "Soporte", "price": "10", "category": "support"})
	customer := crud.Actor{Kind: jwt.KindCustomer, ID: a["id"].(string)}

	_, err := uc.Options(context.Background(), customer, entity.ResourceServiceRequests, "customerId")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	opts, err := uc.Options(context.Background(), customer, entity.ResourceServiceRequests, "serviceId")
	require.NoError(t, err)
	assert.Equal(t, []schema.Option{{Value: s["id"].(string), Label: "Soporte"}}, opts)
}
