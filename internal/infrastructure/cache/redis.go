package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/application/ports"
	"github.com/mdjvazquez/finmks-v/pkg/config"
)

var (
	_ ports.BalanceCache   = (*RedisBalanceCache)(nil)
	_ ports.DismissalStore = (*RedisDismissalStore)(nil)
)

const keyPrefix = "finmks:"

// NewRedisClient crea el cliente y verifica la conexión con un Ping acotado a 5 s.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func balanceKey(companyID string) string { return keyPrefix + "balances:" + companyID }

// versionKey no expira: si volviera a cero, una versión leída antes podría coincidir de nuevo.
func versionKey(companyID string) string { return keyPrefix + "balances:ver:" + companyID }

func dismissedKey(userID string) string { return keyPrefix + "dismissed:" + userID }

// RedisBalanceCache guarda los saldos por caja en un hash por empresa (campo = caja, valor = decimal).
type RedisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBalanceCache construye la caché de saldos.
func NewRedisBalanceCache(client *redis.Client, ttl time.Duration) *RedisBalanceCache {
	return &RedisBalanceCache{client: client, ttl: ttl}
}

// Get devuelve ok=false si no hay entrada vigente.
func (c *RedisBalanceCache) Get(ctx context.Context, companyID string) (map[string]decimal.Decimal, bool, error) {
	raw, err := c.client.HGetAll(ctx, balanceKey(companyID)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis get balances: %w", err)
	}
	if len(raw) == 0 {
		return nil, false, nil
	}
	out := make(map[string]decimal.Decimal, len(raw))
	for id, v := range raw {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, false, fmt.Errorf("redis balance %s: %w", id, err)
		}
		out[id] = d
	}
	return out, true, nil
}

// Version devuelve el contador de invalidaciones de la empresa; 0 si nunca se invalidó.
func (c *RedisBalanceCache) Version(ctx context.Context, companyID string) (int64, error) {
	return readVersion(ctx, c.client, companyID)
}

func readVersion(ctx context.Context, r redis.Cmdable, companyID string) (int64, error) {
	v, err := r.Get(ctx, versionKey(companyID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis balances version: %w", err)
	}
	return v, nil
}

// Set reemplaza la entrada completa de la empresa bajo WATCH de la versión: si otra
// invalidación la movió, la transacción se aborta y la entrada no se escribe.
func (c *RedisBalanceCache) Set(ctx context.Context, companyID string, version int64, balances map[string]decimal.Decimal) (bool, error) {
	if len(balances) == 0 {
		return false, nil
	}
	fields := make(map[string]any, len(balances))
	for id, d := range balances {
		fields[id] = d.String()
	}
	key := balanceKey(companyID)
	stored := false
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, companyID)
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, key)
			p.HSet(ctx, key, fields)
			p.Expire(ctx, key, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, versionKey(companyID))
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis set balances: %w", err)
	}
	return stored, nil
}

// Invalidate elimina la entrada de la empresa y avanza su versión.
func (c *RedisBalanceCache) Invalidate(ctx context.Context, companyID string) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, balanceKey(companyID))
		p.Incr(ctx, versionKey(companyID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate balances: %w", err)
	}
	return nil
}

// RedisDismissalStore conjunto de notificaciones descartadas por usuario; expira con la sesión.
type RedisDismissalStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDismissalStore construye el almacén. ttl suele ser la vigencia del JWT.
func NewRedisDismissalStore(client *redis.Client, ttl time.Duration) *RedisDismissalStore {
	return &RedisDismissalStore{client: client, ttl: ttl}
}

func (s *RedisDismissalStore) Dismiss(ctx context.Context, userID, notificationID string) error {
	key := dismissedKey(userID)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, key, notificationID)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis dismiss: %w", err)
	}
	return nil
}

func (s *RedisDismissalStore) Dismissed(ctx context.Context, userID string) (map[string]bool, error) {
	ids, err := s.client.SMembers(ctx, dismissedKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis dismissed: %w", err)
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
