package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdjvazquez/finmks-v/internal/application/ports"
	"github.com/mdjvazquez/finmks-v/pkg/config"
)

// Stores caché de saldos y descartes listos para inyectar.
type Stores struct {
	Balances   ports.BalanceCache
	Dismissals ports.DismissalStore
	Backend    string // "redis" | "memory"
	close      func() error
}

// Close libera la conexión a Redis si existe.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// New usa Redis si REDIS_ADDR está definido y responde; si no, cae a memoria (un solo proceso).
func New(ctx context.Context, cfg config.RedisConfig, dismissTTL time.Duration, log zerolog.Logger) *Stores {
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if cfg.Addr != "" {
		client, err := NewRedisClient(ctx, cfg)
		if err == nil {
			log.Info().Str("addr", cfg.Addr).Msg("caché en redis")
			return &Stores{
				Balances:   NewRedisBalanceCache(client, ttl),
				Dismissals: NewRedisDismissalStore(client, dismissTTL),
				Backend:    "redis",
				close:      client.Close,
			}
		}
		log.Warn().Err(err).Msg("redis no disponible, se usa caché en memoria")
	}
	return &Stores{
		Balances:   NewMemoryBalanceCache(ttl),
		Dismissals: NewMemoryDismissalStore(dismissTTL),
		Backend:    "memory",
	}
}
