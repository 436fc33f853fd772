package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/farmavita/inventario-api/pkg/cache"
)

func TestCache_ExpiraConElReloj(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c := cache.New[string, int](30*time.Minute, clock)
	c.Set("a", 42)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	// Justo antes de expirar sigue disponible.
	now = now.Add(29 * time.Minute)
	_, ok = c.Get("a")
	assert.True(t, ok)

	// Pasado el TTL desaparece.
	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	c := cache.New[string, string](time.Hour, nil)
	c.Set("k", "v")
	c.Invalidate()
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_MissDevuelveZero(t *testing.T) {
	c := cache.New[string, []int](time.Hour, nil)
	v, ok := c.Get("nada")
	assert.False(t, ok)
	assert.Nil(t, v)
}
