package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
)

var (
	_ ports.TokenBlacklist = (*MemoryTokenBlacklist)(nil)
	_ ports.LoginLimiter   = (*MemoryLoginLimiter)(nil)
)

// MemoryTokenBlacklist lista negra en proceso (una sola instancia de la API).
type MemoryTokenBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryTokenBlacklist construye la lista vacía.
func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke marca el jti hasta now+ttl y purga los vencidos.
func (b *MemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	for k, exp := range b.entries {
		if !now.Before(exp) {
			delete(b.entries, k)
		}
	}
	b.entries[jti] = now.Add(ttl)
	return nil
}

// IsRevoked true mientras no venza el TTL.
func (b *MemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.entries[jti]
	return ok && b.now().Before(exp), nil
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// MemoryLoginLimiter token bucket por clave: max intentos de ráfaga que se
// recuperan a razón de max por window.
type MemoryLoginLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	max     int
	window  time.Duration
	now     func() time.Time
}

// NewMemoryLoginLimiter permite max intentos por clave dentro de window.
func NewMemoryLoginLimiter(max int, window time.Duration) *MemoryLoginLimiter {
	if max <= 0 {
		max = 1
	}
	return &MemoryLoginLimiter{
		entries: make(map[string]*limiterEntry),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

// Allow consume un intento.
func (l *MemoryLoginLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.prune(now)
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1), nil
}

// Reset olvida la clave.
func (l *MemoryLoginLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}

// prune descarta claves sin actividad durante una ventana completa: su bucket ya está lleno.
func (l *MemoryLoginLimiter) prune(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > l.window {
			delete(l.entries, k)
		}
	}
}
