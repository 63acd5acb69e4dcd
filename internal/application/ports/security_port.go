package ports

import (
	"context"
	"time"
)

// TokenBlacklist registro de tokens revocados (logout) hasta su expiración.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// LoginLimiter limita los intentos de login por clave (email + IP).
type LoginLimiter interface {
	// Allow consume un intento; false si se superó el límite de la ventana.
	Allow(ctx context.Context, key string) (bool, error)
	// Reset olvida los intentos tras un login exitoso.
	Reset(ctx context.Context, key string) error
}
