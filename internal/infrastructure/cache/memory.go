package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/application/ports"
)

var (
	_ ports.BalanceCache   = (*MemoryBalanceCache)(nil)
	_ ports.DismissalStore = (*MemoryDismissalStore)(nil)
)

// MemoryBalanceCache caché de saldos en proceso; se usa cuando REDIS_ADDR está vacío.
type MemoryBalanceCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries  map[string]balanceEntry
	versions map[string]int64
}

type balanceEntry struct {
	balances  map[string]decimal.Decimal
	expiresAt time.Time
}

// NewMemoryBalanceCache construye la caché con la vigencia indicada.
func NewMemoryBalanceCache(ttl time.Duration) *MemoryBalanceCache {
	return &MemoryBalanceCache{ttl: ttl, now: time.Now, entries: make(map[string]balanceEntry), versions: make(map[string]int64)}
}

func (c *MemoryBalanceCache) Get(_ context.Context, companyID string) (map[string]decimal.Decimal, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[companyID]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return copyBalances(e.balances), true, nil
}

func (c *MemoryBalanceCache) Version(_ context.Context, companyID string) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.versions[companyID], nil
}

func (c *MemoryBalanceCache) Set(_ context.Context, companyID string, version int64, balances map[string]decimal.Decimal) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[companyID] != version {
		return false, nil
	}
	c.entries[companyID] = balanceEntry{balances: copyBalances(balances), expiresAt: c.now().Add(c.ttl)}
	return true, nil
}

func (c *MemoryBalanceCache) Invalidate(_ context.Context, companyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, companyID)
	c.versions[companyID]++
	return nil
}

func copyBalances(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// MemoryDismissalStore descartes en proceso con vigencia por usuario.
type MemoryDismissalStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	users map[string]dismissalEntry
}

type dismissalEntry struct {
	ids       map[string]bool
	expiresAt time.Time
}

// NewMemoryDismissalStore construye el almacén.
func NewMemoryDismissalStore(ttl time.Duration) *MemoryDismissalStore {
	return &MemoryDismissalStore{ttl: ttl, now: time.Now, users: make(map[string]dismissalEntry)}
}

// Dismiss agrega el id y renueva la vigencia del conjunto.
func (s *MemoryDismissalStore) Dismiss(_ context.Context, userID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[userID]
	if !ok || !s.now().Before(e.expiresAt) {
		e = dismissalEntry{ids: make(map[string]bool)}
	}
	e.ids[notificationID] = true
	e.expiresAt = s.now().Add(s.ttl)
	s.users[userID] = e
	return nil
}

func (s *MemoryDismissalStore) Dismissed(_ context.Context, userID string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[userID]
	if !ok {
		return map[string]bool{}, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.users, userID)
		return map[string]bool{}, nil
	}
	out := make(map[string]bool, len(e.ids))
	for id := range e.ids {
		out[id] = true
	}
	return out, nil
}
