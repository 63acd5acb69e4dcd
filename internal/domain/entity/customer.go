package entity

// CustomerAccount credenciales de un cliente para el portal. Los datos de
// negocio del cliente viven en el recurso customers.
type CustomerAccount struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // vacío si el cliente aún no tiene acceso al portal
	Status       string
}

// CanLogin indica si la cuenta tiene acceso al portal.
func (c *CustomerAccount) CanLogin() bool {
	return c.PasswordHash != "" && c.Status == StatusActive
}
