package middleware

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Defaults when RATE_LIMIT_RPS / RATE_LIMIT_BURST are unset. The analytics
// endpoints are read-only and cheap, but each fans out into several queries,
// so the burst stays modest.
const (
	defaultRatePerSecond = 5
	defaultBurst         = 30
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*visitor)
	mu       sync.Mutex

	limitOnce  sync.Once
	limitRPS   rate.Limit
	limitBurst int
)

func limiterSettings() (rate.Limit, int) {
	limitOnce.Do(func() {
		limitRPS = defaultRatePerSecond
		limitBurst = defaultBurst
		if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_RPS")); err == nil && v > 0 {
			limitRPS = rate.Limit(v)
		}
		if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST")); err == nil && v > 0 {
			limitBurst = v
		}
	})
	return limitRPS, limitBurst
}

func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			ip, _, _ = net.SplitHostPort(r.RemoteAddr)
		}

		if !getLimiter(ip).Allow() {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getLimiter(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		rps, burst := limiterSettings()
		v = &visitor{rate.NewLimiter(rps, burst), time.Now()}
		visitors[ip] = v
		return v.limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func CleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		mu.Lock()
		for ip, v := range visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(visitors, ip)
			}
		}
		mu.Unlock()
	}
}
