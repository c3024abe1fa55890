package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleTTL = 10 * time.Minute

// visitor represents a single client with its token bucket
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter is a thread-safe registry of per-client token buckets
type IPLimiter struct {
	visitors map[string]*visitor
	mutex    sync.Mutex
	limit    rate.Limit
	burst    int

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewIPLimiter creates a registry allowing perMinute requests per client.
// A perMinute of zero disables limiting.
func NewIPLimiter(perMinute int) *IPLimiter {
	l := &IPLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
		done:     make(chan struct{}),
	}

	if perMinute > 0 {
		// Start cleanup goroutine to forget idle clients every 10 minutes
		l.wg.Add(1)
		go l.cleanupIdle()
	}

	return l
}

// Allow reports whether a request from key may proceed now
func (l *IPLimiter) Allow(key string) bool {
	if l.burst <= 0 {
		return true
	}

	l.mutex.Lock()
	v, exists := l.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = time.Now()
	l.mutex.Unlock()

	return v.limiter.Allow()
}

// cleanupIdle removes clients that have not been seen recently
func (l *IPLimiter) cleanupIdle() {
	defer l.wg.Done()

	ticker := time.NewTicker(idleTTL)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			l.evictIdle(now)
		case <-l.done:
			return
		}
	}
}

// Close stops the cleanup goroutine and waits for it to exit. It is safe to
// call more than once.
func (l *IPLimiter) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
	l.wg.Wait()
}

func (l *IPLimiter) evictIdle(now time.Time) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(l.visitors, key)
		}
	}
}

// Size returns the number of tracked clients
func (l *IPLimiter) Size() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.visitors)
}
