// Package cache adaptadores de los puertos de seguridad (revocación de tokens
// y límite de intentos de login) sobre Redis o en memoria.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
)

var (
	_ ports.TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ ports.LoginLimiter   = (*RedisLoginLimiter)(nil)
)

// NewRedisClient abre la conexión desde una URL redis:// y verifica con PING.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: url inválida: %w", err)
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

// RedisTokenBlacklist guarda el jti revocado con TTL igual a la vida restante del token.
type RedisTokenBlacklist struct {
	client    redis.Cmdable
	keyPrefix string
}

// NewRedisTokenBlacklist construye la lista negra sobre un cliente existente.
func NewRedisTokenBlacklist(client redis.Cmdable) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client, keyPrefix: "gestion:token:revoked:"}
}

// Revoke marca el jti como revocado durante ttl.
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	return nil
}

// IsRevoked indica si el jti está en la lista.
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("consultar token revocado: %w", err)
	}
	return n > 0, nil
}

// RedisLoginLimiter ventana fija: INCR del contador y EXPIRE al primer intento.
type RedisLoginLimiter struct {
	client    redis.Cmdable
	keyPrefix string
	max       int
	window    time.Duration
}

// NewRedisLoginLimiter permite max intentos por clave dentro de window.
func NewRedisLoginLimiter(client redis.Cmdable, max int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{client: client, keyPrefix: "gestion:login:", max: max, window: window}
}

// Allow consume un intento.
func (l *RedisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.keyPrefix + key
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("limitar login: %w", err)
	}
	return incr.Val() <= int64(l.max), nil
}

// Reset borra el contador de la clave.
func (l *RedisLoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reiniciar límite de login: %w", err)
	}
	return nil
}
