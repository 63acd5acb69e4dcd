package dto

import "time"

// RegisterRequest entrada para registro de usuarios internos.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"omitempty,max=200"`
}

// LoginRequest entrada para login (usuarios y clientes del portal).
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SetPasswordRequest habilita o cambia el acceso al portal de un cliente.
type SetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomerResponse salida de la cuenta de portal de un cliente.
type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResponse salida con token JWT. Solo uno de User o Customer viene informado.
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      *UserResponse     `json:"user,omitempty"`
	Customer  *CustomerResponse `json:"customer,omitempty"`
}

// MeResponse identidad del portador del token.
type MeResponse struct {
	Kind     string            `json:"kind"`
	User     *UserResponse     `json:"user,omitempty"`
	Customer *CustomerResponse `json:"customer,omitempty"`
}
