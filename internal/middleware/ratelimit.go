package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter enforces a fixed-window request budget per client address on
// the command surface. Windows that have fully elapsed are swept so addresses
// that stop sending commands do not accumulate.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration

	stopOnce sync.Once
	stopChan chan struct{}
}

type clientWindow struct {
	count   int
	started time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*clientWindow),
		limit:    limit,
		window:   window,
		stopChan: make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for addr, cw := range rl.clients {
				if time.Since(cw.started) > rl.window {
					delete(rl.clients, addr)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := r.RemoteAddr

		rl.mu.Lock()
		cw, ok := rl.clients[addr]
		if !ok || time.Since(cw.started) > rl.window {
			rl.clients[addr] = &clientWindow{count: 1, started: time.Now()}
			rl.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}
		cw.count++
		count := cw.count
		rl.mu.Unlock()

		if count > rl.limit {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
