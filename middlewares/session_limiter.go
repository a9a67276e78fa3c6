package middlewares

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IzzulGod/dynamenu-ai/utils"
)

// CounterStore menghitung request per kunci dalam satu jendela tetap.
// Jendela di-reset di batas wall-clock, bukan jendela geser.
type CounterStore interface {
	Incr(key string, window time.Duration) (count int, resetAt time.Time, err error)
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// MemoryCounterStore adalah implementasi in-memory CounterStore.
type MemoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]windowEntry
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{entries: make(map[string]windowEntry)}
}

func (s *MemoryCounterStore) Incr(key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e, ok := s.entries[key]
	if !ok || now.After(e.resetAt) {
		e = windowEntry{count: 0, resetAt: now.Add(window)}
	}
	e.count++
	s.entries[key] = e
	return e.count, e.resetAt, nil
}

// SessionLimiter membatasi request per sesi dengan counter jendela tetap.
// Best-effort, bukan batas keamanan: kalau store counter error, request
// dibiarkan lewat (fail open) supaya customer sah tidak terblokir.
type SessionLimiter struct {
	store  CounterStore
	scope  string
	limit  int
	window time.Duration
}

func NewSessionLimiter(store CounterStore, scope string, limit int, window time.Duration) *SessionLimiter {
	return &SessionLimiter{store: store, scope: scope, limit: limit, window: window}
}

func (l *SessionLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		if sessionID == "" {
			sessionID = c.ClientIP()
		}

		count, resetAt, err := l.store.Incr(l.scope+":"+sessionID, l.window)
		if err != nil {
			utils.ErrorLogger.Printf("counter rate limit %s gagal, request diloloskan: %v", l.scope, err)
			c.Next()
			return
		}

		if count > l.limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			utils.RespondJSON(c, http.StatusTooManyRequests,
				"Tunggu sebentar ya, terlalu banyak permintaan. Coba lagi sebentar lagi 😊", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
