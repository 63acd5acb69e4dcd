package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación de usuarios internos y clientes del portal.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerAccountRepository
	blacklist    ports.TokenBlacklist
	limiter      ports.LoginLimiter
	jwtCfg       JWTConfig
	now          func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	customerRepo repository.CustomerAccountRepository,
	blacklist ports.TokenBlacklist,
	limiter ports.LoginLimiter,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		blacklist:    blacklist,
		limiter:      limiter,
		jwtCfg:       jwtCfg,
		now:          time.Now,
	}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste. El primer
// usuario del sistema queda como admin; los siguientes como employee (el admin
// cambia roles desde la pantalla de usuarios). Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	count, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	role := entity.RoleEmployee
	if count == 0 {
		role = entity.RoleAdmin
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password de un usuario interno y emite un token de usuario.
// clientKey (IP del cliente) se combina con el email para limitar intentos.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, clientKey string) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	key := "user:" + email + "|" + clientKey
	if err := uc.allow(ctx, key); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// Mismo error para email desconocido y password incorrecto.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active() {
		return nil, domain.ErrForbidden
	}
	_ = uc.limiter.Reset(ctx, key)

	token, expires, err := uc.issue(user.ID, jwt.KindUser, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: expires, User: toUserResponse(user)}, nil
}

// CustomerLogin login del portal: emite un token de cliente sin rol.
func (uc *AuthUseCase) CustomerLogin(ctx context.Context, in dto.LoginRequest, clientKey string) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	key := "customer:" + email + "|" + clientKey
	if err := uc.allow(ctx, key); err != nil {
		return nil, err
	}
	acc, err := uc.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if !acc.CanLogin() {
		return nil, domain.ErrForbidden
	}
	_ = uc.limiter.Reset(ctx, key)

	token, expires, err := uc.issue(acc.ID, jwt.KindCustomer, "")
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: expires, Customer: toCustomerResponse(acc)}, nil
}

// SetCustomerPassword habilita (o cambia) el acceso al portal de un cliente.
func (uc *AuthUseCase) SetCustomerPassword(ctx context.Context, customerID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return uc.customerRepo.SetPassword(ctx, customerID, string(hash))
}

// Logout revoca el token hasta su expiración natural.
func (uc *AuthUseCase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.ID == "" {
		return domain.ErrUnauthorized
	}
	ttl := claims.Remaining(uc.now())
	if ttl <= 0 {
		return nil
	}
	return uc.blacklist.Revoke(ctx, claims.ID, ttl)
}

// CheckToken devuelve ErrTokenRevoked si el token fue cerrado con logout.
func (uc *AuthUseCase) CheckToken(ctx context.Context, claims *jwt.Claims) error {
	if claims.ID == "" {
		return nil
	}
	revoked, err := uc.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("consultar revocación: %w", err)
	}
	if revoked {
		return domain.ErrTokenRevoked
	}
	return nil
}

// Me identidad del portador del token.
func (uc *AuthUseCase) Me(ctx context.Context, claims *jwt.Claims) (*dto.MeResponse, error) {
	switch claims.Kind {
	case jwt.KindCustomer:
		acc, err := uc.customerRepo.GetByID(ctx, claims.Subject)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			return nil, domain.ErrNotFound
		}
		return &dto.MeResponse{Kind: jwt.KindCustomer, Customer: toCustomerResponse(acc)}, nil
	default:
		user, err := uc.userRepo.GetByID(ctx, claims.Subject)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domain.ErrUserNotFound
		}
		return &dto.MeResponse{Kind: jwt.KindUser, User: toUserResponse(user)}, nil
	}
}

func (uc *AuthUseCase) allow(ctx context.Context, key string) error {
	ok, err := uc.limiter.Allow(ctx, key)
	if err != nil {
		return fmt.Errorf("limitador de login: %w", err)
	}
	if !ok {
		return domain.ErrRateLimited
	}
	return nil
}

func (uc *AuthUseCase) issue(subject, kind, role string) (string, time.Time, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, subject, kind, role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, uc.now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toCustomerResponse(c *entity.CustomerAccount) *dto.CustomerResponse {
	return &dto.CustomerResponse{ID: c.ID, Name: c.Name, Email: c.Email}
}
