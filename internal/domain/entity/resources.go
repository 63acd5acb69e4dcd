package entity

import "github.com/jhoicas/Gestion-api/internal/domain/schema"

// Nombres de recurso (segmento de URL y clave del registro).
const (
	ResourceCustomers       = "customers"
	ResourceProjects        = "projects"
	ResourceContracts       = "contracts"
	ResourceServices        = "services"
	ResourceServiceRequests = "service-requests"
	ResourceTasks           = "tasks"
	ResourceTeams           = "teams"
	ResourceTransactions    = "transactions"
	ResourceUsers           = "users"
)

// Acciones estándar por fila.
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionExport = "export"
)

// NewRegistry registra todas las pantallas de negocio.
func NewRegistry() *schema.Registry {
	return schema.NewRegistry(
		Customers(),
		Projects(),
		Contracts(),
		Services(),
		ServiceRequests(),
		Tasks(),
		Teams(),
		Transactions(),
		Users(),
	)
}

func opt(value, label string) schema.Option { return schema.Option{Value: value, Label: label} }

func standardActions() []schema.Action {
	return []schema.Action{
		{Name: ActionView, Label: "Ver"},
		{Name: ActionCreate, Label: "Nuevo"},
		{Name: ActionEdit, Label: "Editar"},
		{Name: ActionDelete, Label: "Eliminar", Roles: []string{RoleAdmin, RoleManager}},
		{Name: ActionExport, Label: "Exportar", Roles: []string{RoleAdmin, RoleManager}},
	}
}

func createdAtColumn() schema.Column {
	return schema.Column{Key: "createdAt", Label: "Creado", Sortable: true, Filter: schema.FilterDateRange, Format: "date"}
}

var (
	priorityOptions = []schema.Option{
		opt("low", "Baja"), opt("medium", "Media"), opt("high", "Alta"), opt("urgent", "Urgente"),
	}
	activeOptions = []schema.Option{opt(StatusActive, "Activo"), opt(StatusInactive, "Inactivo")}
)

// Customers clientes de la empresa.
func Customers() *schema.Resource {
	return &schema.Resource{
		Name:     ResourceCustomers,
		Title:    "Clientes",
		Singular: "cliente",
		Endpoint: "/api/customers",
		Table:    "customers",
		Fields: []schema.Field{
			{Name: "name", Label: "Nombre", Type: schema.FieldText, Placeholder: "Razón social o nombre",
				Rules: []schema.Rule{schema.Required(""), schema.MinLength("2"), schema.MaxLength("120")}},
			{Name: "email", Label: "Email", Type: schema.FieldEmail,
				Rules: []schema.Rule{schema.Required(""), schema.Email()}},
			{Name: "phone", Label: "Teléfono", Type: schema.FieldTel,
				Rules: []schema.Rule{schema.Custom("phone", "Teléfono inválido")}},
			{Name: "company", Label: "Empresa", Type: schema.FieldText, Rules: []schema.Rule{schema.MaxLength("120")}},
			{Name: "address", Label: "Dirección", Type: schema.FieldTextarea, Rules: []schema.Rule{schema.MaxLength("300")}},
			{Name: "status", Label: "Estado", Type: schema.FieldSelect, Options: activeOptions, Default: StatusActive,
				Rules: []schema.Rule{schema.Required("")}},
		},
		Columns: []schema.Column{
			{Key: "name", Label: "Nombre", Sortable: true, Filter: schema.FilterText},
			{Key: "email", Label: "Email", Sortable: true, Filter: schema.FilterText},
			{Key: "company", Label: "Empresa", Sortable: true, Filter: schema.FilterText},
			{Key: "status", Label: "Estado", Filter: schema.FilterExact, Format: "status", Options: activeOptions},
			createdAtColumn(),
		},
		Actions:      standardActions(),
		DisplayField: "name",
		DefaultSort:  schema.SortState{Key: "name", Direction: schema.SortAsc},
	}
}

var projectStatus = []schema.Option{
	opt("planning", "Planeación"), opt("active", "Activo"), opt("on_hold", "En pausa"),
	opt("completed", "Completado"), opt("cancelled", "Cancelado"),
}

// Projects proyectos por cliente.
func Projects() *schema.Resource {
	return &schema.Resource{
		Name:     ResourceProjects,
		Title:    "Proyectos",
		Singular: "proyecto",
		Endpoint: "/api/projects",
		Table:    "projects",
		Fields: []schema.Field{
			{Name: "name", Label: "Nombre", Type: schema.FieldText,
				Rules: []schema.Rule{schema.Required(""), schema.MinLength("3"), schema.MaxLength("150")}},
			{Name: "description", Label: "Descripción", Type: schema.FieldTextarea, Rules: []schema.Rule{schema.MaxLength("2000")}},
			{Name: "customerId", Label: "Cliente", Type: schema.FieldReference, OptionsFrom: ResourceCustomers,
				Rules: []schema.Rule{schema.Required("Seleccione un cliente")}},
			{Name: "projectManagerId", Label: "Gerente de proyecto", Type: schema.FieldReference, OptionsFrom: ResourceUsers},
			{Name: "status", Label: "Estado", Type: schema.FieldSelect, Options: projectStatus, Default: "planning",
				Rules: []schema.Rule{schema.Required("")}},
			{Name: "startDate", Label: "Fecha de inicio", Type: schema.FieldDate, Rules: []schema.Rule{schema.Required("")}},
			{Name: "endDate", Label: "Fecha de fin", Type: schema.FieldDate,
				Rules: []schema.Rule{schema.Custom("afterField:startDate", "La fecha de fin debe ser posterior a la de inicio")}},
			{Name: "budget", Label: "Presupuesto", Type: schema.FieldCurrency, Rules: []schema.Rule{schema.Min("0")}},
		},
		Columns: []schema.Column{
			{Key: "name", Label: "Proyecto", Sortable: true, Filter: schema.FilterText},
			{Key: "customerId", Label: "Cliente", Filter: schema.FilterExact, Format: "reference"},
			{Key: "projectManagerId", Label: "Gerente", Filter: schema.FilterExact, Format: "reference"},
			{Key: "status", Label: "Estado", Sortable: true, Filter: schema.FilterExact, Format: "status", Options: projectStatus},
			{Key: "startDate", Label: "Inicio", Sortable: true, Filter: schema.FilterDateRange, Format: "date"},
			{Key: "endDate", Label: "Fin", Sortable: true, Format: "date"},
			{Key: "budget", Label: "Presupuesto", Sortable: true, Filter: schema.FilterNumberRange, Format: "currency"},
		},
		Actions: standardActions(),
		References: []schema.Reference{
			{Field: "customerId", Resource: ResourceCustomers, Table: "customers", Columns: []string{"name"}},
			{Field: "projectManagerId", Resource: ResourceUsers, Table: "users", Columns: []string{"name", "email"}},
		},
		CustomerField: "customerId",
		DisplayField:  "name",
		DefaultSort:   schema.SortState{Key: "startDate", Direction: schema.SortDesc},
	}
}

var contractStatus = []schema.Option{
	opt("draft", "Borrador"), opt("active", "Vigente"), opt("expired", "Vencido"), opt("terminated", "Terminado"),
}

// Contracts contratos firmados con clientes, con documento adjunto.
func Contracts() *schema.Resource {
	return &schema.Resource{
		Name:     ResourceContracts,
		Title:    "Contratos",
		Singular: "contrato",
		Endpoint: "/api/contracts",
		Table:    "contracts",
		Fields: []schema.Field{
			{Name: "title", Label: "Título", Type: schema.FieldText,
				Rules: []schema.Rule{schema.Required(""), schema.MaxLength("200")}},
			{Name: "customerId", Label: "Cliente", Type: schema.FieldReference, OptionsFrom: ResourceCustomers,
				Rules: []schema.Rule{schema.Required("Seleccione un cliente")}},
			{Name: "projectId", Label: "Proyecto", Type: schema.FieldReference, OptionsFrom: ResourceProjects,
				DependsOn: &schema.Condition{Field: "customerId", NotEmpty: true}},
			{Name: "value", Label: "Valor", Type: schema.FieldCurrency,
				Rules: []schema.Rule{schema.Required(""), schema.Min("0")}},
			{Name: "startDate", Label: "Fecha de inicio", Type: schema.FieldDate, Rules: []schema.Rule{schema.Required("")}},
			{Name: "endDate", Label: "Fecha de fin", Type: schema.FieldDate,
				Rules: []schema.Rule{schema.Custom("afterField:startDate", "La fecha de fin debe ser posterior a la de inicio")}},
			{Name: "status", Label: "Estado", Type: schema.FieldSelect, Options: contractStatus, Default: "draft",
				Rules: []schema.Rule{schema.Required("")}},
			{Name: "document", Label: "Documento", Type: schema.FieldFile},
		},
		Columns: []schema.Column{
			{Key: "title", Label: "Título", Sortable: true, Filter: schema.FilterText},
			{Key: "customerId", Label: "Cliente", Filter: schema.FilterExact, Format: "reference"},
			{Key: "value", Label: "Valor", Sortable: true, Filter: schema.FilterNumberRange, Format: "currency"},
			{Key: "startDate", Label: "Inicio", Sortable: true, Filter: schema.FilterDateRange, Format: "date"},
			{Key: "endDate", Label: "Fin", Sortable: true, Format: "date"},
			{Key: "status", Label: "Estado", Sortable: true, Filter: schema.FilterExact, Format: "status", Options: contractStatus},
		},
		Actions: standardActions(),
		References: []schema.Reference{
			{Field: "customerId", Resource: ResourceCustomers, Table: "customers", Columns: []string{"name"}},
			{Field: "projectId", Resource: ResourceProjects, Table: "projects", Columns: []string{"name"}},
		},
		CustomerField: "customerId",
		DisplayField:  "title",
		DefaultSort:   schema.SortState{Key: "startDate", Direction: schema.SortDesc},
	}
}

var serviceCategories = []schema.Option{
	opt("consulting", "Consultoría"), opt("development", "Desarrollo"),
	opt("support", "Soporte"), opt("training", "Capacitación"),
}

// Services catálogo de servicios. Es corto: se pagina en memoria.
func Services() *schema.Resource {
	return &schema.Resource{
		Name:     ResourceServices,
		Title:    "Servicios",
		Singular: "servicio",
		Endpoint: "/api/services",
		Table:    "services",
		Fields: []schema.Field{
			{Name: "name", Label: "Nombre", Type: schema.FieldText,
				Rules: []schema.Rule{schema.Required(""), schema.MaxLength("120")}},
			{Name: "description", Label: "Descripción", Type: schema.FieldTextarea},
			{Name: "price", Label: "Precio", Type: schema.FieldCurrency,
				Rules: []schema.Rule{schema.Required(""), schema.Custom("positive", "El precio debe ser mayor a cero")}},
			{Name: "category", Label: "Categoría", Type: schema.FieldSelect, Options: serviceCategories,
				Rules: []schema.Rule{schema.Required("")}},
			{Name: "active", Label: "Activo", Type: schema.FieldCheckbox, Default: true},
		},
		Columns: []schema.Column{
			{Key: "name", Label: "Servicio", Sortable: true, Filter: schema.FilterText},
			{Key: "category", Label: "Categoría", Sortable: true, Filter: schema.FilterExact, Options: serviceCategories},
			{Key: "price", Label: "Precio", Sortable: true, Filter: schema.FilterNumberRange, Format: "currency"},
			{Key: "active", Label: "Activo", Sortable: true, Filter: schema.FilterExact, Format: "boolean"},
		},
		Actions:      standardActions(),
		DisplayField: "name",
		Pagination:   schema.PaginationClient,
		DefaultSort:  schema.SortState{Key: "name", Direction: schema.SortAsc},
	}
}

var requestStatus = []schema.Option{
	opt("pending", "Pendiente"), opt("in_progress", "En curso"),
	opt("completed", "Completada"), opt("cancelled", "Cancelada"),
}

// ServiceRequests solicitudes de servicio; los clientes las crean desde el portal.
func ServiceRequests() *schema.Resource {
	return &schema.Resource{
		Name:     ResourceServiceRequests,
		Title:    "Solicitudes de servicio",
		Singular: "solicitud",
		Endpoint: "/api/service-requests",
		Table:    "service_requests",
		Fields: []schema.Field{
			{Name: "customerId", Label: "Cliente", Type: schema.FieldReference, OptionsFrom: ResourceCustomers,
				Rules: []schema.Rule{schema.Required("Seleccione un cliente")}},
			{Name: "serviceId", Label: "Servicio", Type: schema.FieldReference, OptionsFrom: ResourceServices,
				Rules: []schema.Rule{schema.Required("Seleccione un servicio")}},
			{Name: "description", Label: "Descripción", Type: schema.FieldTextarea,
				Rules: []schema.Rule{schema.Required(""), schema.MinLength("10"), schema.MaxLength("2000")}},
			{Name: "priority", Label: "Prioridad", Type: schema.FieldSelect, Options: priorityOptions, Default: "medium",
				Rules: []schema.Rule{schema.Required("")}},
			{Name: "status", Label: "Estado", Type: schema.FieldSelect, Options: requestStatus, Default: "pending",
				StaffOnly: true},
			{Name: "requestedDate", Label: "Fecha solicitada", Type: schema.FieldDate, Rules: []schema.Rule{schema.Required("")}},
		},
		Columns: []schema.Column{
			{Key: "customerId", Label: "Cliente", Filter: schema.FilterExact, Format: "reference"},
			{Key: "serviceId", Label: "Servicio", Filter: schema.FilterExact, Format: "reference"},
			{Key: "priority", Label: "Prioridad", Sortable: true, Filter: schema.FilterExact, Options: priorityOptions},
			{Key: "status", Label: "Estado", Sortable: true, Filter: schema.FilterExact, Format: "status", Options: requestStatus},
			{Key: "requestedDate", Label: "Fecha", Sortable: true, Filter: schema.FilterDateRange, Format: "date"},
			{Key: "description", Label: "Descripción", Filter: schema.FilterText},
		},
		Actions: standardActions(),
		References: []schema.Reference{
			{Field: "customerId", Resource: ResourceCustomers, Table: "customers", Columns: []string{"name"}},
			{Field: "serviceId", Resource: ResourceServices, Table: "services", Columns: []string{"name", "price"}},
		},
		CustomerField: "customerId",
		DisplayField:  "description",
		DefaultSort:   schema.SortState{Key: "requestedDate", Direction: schema.SortDesc},
		PortalCreate:  true,
	}
}

var taskStatus = []schema.Option{
	opt("todo", "Por hacer"), opt("in_progress", "En curso"), opt("review", "En revisión"), opt("done", "Hecha"),
}

// Tasks tareas de proyecto asignadas a usuarios.
func Tasks() *schema.Resource {
	return &schema.Resource{
		Name:     ResourceTasks,
		Title:    "Tareas",
		Singular: "tarea",
		Endpoint: "/api/tasks",
		Table:    "tasks",
		Fields: []schema.Field{
			{Name: "title", Label: "Título", Type: schema.FieldText,
				Rules: []schema.Rule{schema.Required(""), schema.MaxLength("200")}},
			{Name: "description", Label: "Descripción", Type: schema.FieldTextarea},
			{Name: "projectId", Label: "Proyecto", Type: schema.FieldReference, OptionsFrom: ResourceProjects,
				Rules: []schema.Rule{schema.Required("Seleccione un proyecto")}},
			{Name: "assignedTo", Label: "Asignada a", Type: schema.FieldReference, OptionsFrom: ResourceUsers},
			{Name: "priority", Label: "Prioridad", Type: schema.FieldSelect, Options: priorityOptions, Default: "medium",
				Rules: []schema.Rule{schema.Required("")}},
			{Name: "status", Label: "Estado", Type: schema.FieldSelect, Options: taskStatus, Default: "todo",
				Rules: []schema.Rule{schema.Required("")}},
			{Name: "dueDate", Label: "Fecha límite", Type: schema.FieldDate},
			{Name: "estimatedHours", Label: "Horas estimadas", Type: schema.FieldNumber,
				Rules: []schema.Rule{schema.Min("0"), schema.Max("1000")}},
		},
		Columns: []schema.Column{
			{Key: "title", Label: "Tarea", Sortable: true, Filter: schema.FilterText},
			{Key: "projectId", Label: "Proyecto", Filter: schema.FilterExact, Format: "reference"},
			{Key: "assignedTo", Label: "Responsable", Filter: schema.FilterExact, Format: "reference"},
			{Key: "priority", Label: "Prioridad", Sortable: true, Filter: schema.FilterExact, Options: priorityOptions},
			{Key: "status", Label: "Estado", Sortable: true, Filter: schema.FilterExact, Format: "status", Options: taskStatus},
			{Key: "dueDate", Label: "Vence", Sortable: true, Filter: schema.FilterDateRange, Format: "date"},
			{Key: "estimatedHours", Label: "Horas", Sortable: true, Filter: schema.FilterNumberRange},
		},
		Actions: standardActions(),
		References: []schema.Reference{
			{Field: "projectId", Resource: ResourceProjects, Table: "projects", Columns: []string{"name"}},
			{Field: "assignedTo", Resource: ResourceUsers, Table: "users", Columns: []string{"name", "email"}},
		},
		DisplayField: "title",
		DefaultSort:  schema.SortState{Key: "dueDate", Direction: schema.SortAsc},
	}
}

// Teams equipos de trabajo. Se paginan en memoria.
func Teams() *schema.Resource {
	return &schema.Resource{
		Name:     ResourceTeams,
		Title:    "Equipos",
		Singular: "equipo",
		Endpoint: "/api/teams",
		Table:    "teams",
		Fields: []schema.Field{
			{Name: "name", Label: "Nombre", Type: schema.FieldText,
				Rules: []schema.Rule{schema.Required(""), schema.MaxLength("100")}},
			{Name: "description", Label: "Descripción", Type: schema.FieldTextarea},
			{Name: "leaderId", Label: "Líder", Type: schema.FieldReference, OptionsFrom: ResourceUsers},
			{Name: "members", Label: "Miembros", Type: schema.FieldMultiSelect, OptionsFrom: ResourceUsers},
		},
		Columns: []schema.Column{
			{Key: "name", Label: "Equipo", Sortable: true, Filter: schema.FilterText},
			{Key: "leaderId", Label: "Líder", Filter: schema.FilterExact, Format: "reference"},
			{Key: "members", Label: "Miembros", Filter: schema.FilterExact},
			createdAtColumn(),
		},
		Actions: standardActions(),
		References: []schema.Reference{
			{Field: "leaderId", Resource: ResourceUsers, Table: "users", Columns: []string{"name", "email"}},
		},
		DisplayField: "name",
		Pagination:   schema.PaginationClient,
		DefaultSort:  schema.SortState{Key: "name", Direction: schema.SortAsc},
	}
}

var (
	transactionTypes = []schema.Option{opt("income", "Ingreso"), opt("expense", "Egreso")}
	paymentMethods   = []schema.Option{
		opt("cash", "Efectivo"), opt("transfer", "Transferencia"), opt("card", "Tarjeta"), opt("check", "Cheque"),
	}
)

// Transactions movimientos de dinero asociados a clientes y proyectos.
func Transactions() *schema.Resource {
	return &schema.Resource{
		Name:     ResourceTransactions,
		Title:    "Transacciones",
		Singular: "transacción",
		Endpoint: "/api/transactions",
		Table:    "transactions",
		Fields: []schema.Field{
			{Name: "customerId", Label: "Cliente", Type: schema.FieldReference, OptionsFrom: ResourceCustomers},
			{Name: "projectId", Label: "Proyecto", Type: schema.FieldReference, OptionsFrom: ResourceProjects},
			{Name: "type", Label: "Tipo", Type: schema.FieldSelect, Options: transactionTypes,
				Rules: []schema.Rule{schema.Required("")}},
			{Name: "amount", Label: "Monto", Type: schema.FieldCurrency,
				Rules: []schema.Rule{schema.Required(""), schema.Custom("positive", "El monto debe ser mayor a cero")}},
			{Name: "date", Label: "Fecha", Type: schema.FieldDate, Rules: []schema.Rule{schema.Required("")},
				Column: "transaction_date"},
			{Name: "method", Label: "Medio de pago", Type: schema.FieldSelect, Options: paymentMethods,
				Rules: []schema.Rule{schema.Required("")}},
			{Name: "reference", Label: "Referencia", Type: schema.FieldText,
				DependsOn: &schema.Condition{Field: "method", In: []string{"transfer", "check"}},
				Rules:     []schema.Rule{schema.Required("Indique el número de referencia")}},
			{Name: "notes", Label: "Notas", Type: schema.FieldTextarea},
		},
		Columns: []schema.Column{
			{Key: "date", Label: "Fecha", Sortable: true, Filter: schema.FilterDateRange, Format: "date"},
			{Key: "type", Label: "Tipo", Sortable: true, Filter: schema.FilterExact, Options: transactionTypes},
			{Key: "amount", Label: "Monto", Sortable: true, Filter: schema.FilterNumberRange, Format: "currency"},
			{Key: "customerId", Label: "Cliente", Filter: schema.FilterExact, Format: "reference"},
			{Key: "projectId", Label: "Proyecto", Filter: schema.FilterExact, Format: "reference"},
			{Key: "method", Label: "Medio", Filter: schema.FilterExact, Options: paymentMethods},
			{Key: "reference", Label: "Referencia", Filter: schema.FilterText},
		},
		Actions: standardActions(),
		References: []schema.Reference{
			{Field: "customerId", Resource: ResourceCustomers, Table: "customers", Columns: []string{"name"}},
			{Field: "projectId", Resource: ResourceProjects, Table: "projects", Columns: []string{"name"}},
		},
		CustomerField: "customerId",
		DisplayField:  "reference",
		DefaultSort:   schema.SortState{Key: "date", Direction: schema.SortDesc},
	}
}

var userRoles = []schema.Option{opt(RoleAdmin, "Administrador"), opt(RoleManager, "Gerente"), opt(RoleEmployee, "Empleado")}

// Users administración de usuarios internos. La contraseña la gestiona auth.
func Users() *schema.Resource {
	return &schema.Resource{
		Name:     ResourceUsers,
		Title:    "Usuarios",
		Singular: "usuario",
		Endpoint: "/api/users",
		Table:    "users",
		Fields: []schema.Field{
			{Name: "name", Label: "Nombre", Type: schema.FieldText,
				Rules: []schema.Rule{schema.Required(""), schema.MaxLength("200")}},
			{Name: "email", Label: "Email", Type: schema.FieldEmail,
				Rules: []schema.Rule{schema.Required(""), schema.Email()}},
			{Name: "role", Label: "Rol", Type: schema.FieldSelect, Options: userRoles, Default: RoleEmployee,
				Rules: []schema.Rule{schema.Required("")}},
			{Name: "status", Label: "Estado", Type: schema.FieldSelect, Options: activeOptions, Default: StatusActive,
				Rules: []schema.Rule{schema.Required("")}},
		},
		Columns: []schema.Column{
			{Key: "name", Label: "Nombre", Sortable: true, Filter: schema.FilterText},
			{Key: "email", Label: "Email", Sortable: true, Filter: schema.FilterText},
			{Key: "role", Label: "Rol", Sortable: true, Filter: schema.FilterExact, Options: userRoles},
			{Key: "status", Label: "Estado", Filter: schema.FilterExact, Format: "status", Options: activeOptions},
			createdAtColumn(),
		},
		Actions: []schema.Action{
			{Name: ActionView, Label: "Ver"},
			{Name: ActionEdit, Label: "Editar"},
			{Name: ActionDelete, Label: "Eliminar"},
			{Name: ActionExport, Label: "Exportar"},
		},
		DisplayField: "name",
		Roles:        []string{RoleAdmin},
		DefaultSort:  schema.SortState{Key: "name", Direction: schema.SortAsc},
	}
}
