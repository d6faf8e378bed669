package cache

import (
	"sync"
	"time"
)

// TTL é um cache em memória com expiração fixa, usado para as respostas de
// dashboard/resumo (JSON pronto). Chaves são strings, valores []byte.
type TTL struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// New cria o cache com o TTL dado e dispara a limpeza periódica.
func New(ttl time.Duration) *TTL {
	c := &TTL{items: make(map[string]entry), ttl: ttl}
	go c.cleanup()
	return c
}

func (c *TTL) cleanup() {
	tick := time.NewTicker(c.ttl)
	defer tick.Stop()
	for range tick.C {
		now := time.Now()
		c.mu.Lock()
		for k, e := range c.items {
			if e.expiresAt.Before(now) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}

// Get devolve o valor se presente e não expirado; senão nil.
func (c *TTL) Get(key string) []byte {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || e.expiresAt.Before(time.Now()) {
		return nil
	}
	return e.data
}

// Set grava o valor com o TTL do cache.
func (c *TTL) Set(key string, value []byte) {
	c.mu.Lock()
	c.items[key] = entry{data: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Delete remove a chave.
func (c *TTL) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// DeletePrefix remove todas as chaves com o prefixo (ex.: "dashboard:" após
// qualquer escrita na agenda).
func (c *TTL) DeletePrefix(prefix string) {
	c.mu.Lock()
	for k := range c.items {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}
