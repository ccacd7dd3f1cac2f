package services

import (
	"sync"
	"time"

	"github.com/fieldline/coachlab-backend/internal/lesson"
)

// DefaultCacheTTL bounds how long a model-generated plan is reused for an
// identical prompt.
const DefaultCacheTTL = 6 * time.Hour

// Cache stores model-generated plans keyed by prompt fingerprint. It is
// injected explicitly; the service never reaches for ambient global state.
type Cache interface {
	Get(key string) (*lesson.LessonPlan, bool)
	Set(key string, plan *lesson.LessonPlan)
}

type memoryCacheEntry struct {
	plan      *lesson.LessonPlan
	expiresAt time.Time
}

// MemoryCache is a TTL-bounded in-process Cache.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryCacheEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryCacheEntry),
	}
}

func (c *MemoryCache) Get(key string) (*lesson.LessonPlan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.plan, true
}

func (c *MemoryCache) Set(key string, plan *lesson.LessonPlan) {
	if plan == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryCacheEntry{plan: plan, expiresAt: time.Now().Add(c.ttl)}
}
