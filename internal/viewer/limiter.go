package viewer

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter implements per-client rate limiting.
//
// The limiter of a client is dropped once it has been idle for long enough to
// have refilled its burst, at which point a new limiter is indistinguishable from it.
type Limiter struct {
	limiters *gocache.Cache // client => *rate.Limiter
	mu       sync.Mutex

	limit rate.Limit
	burst int
}

// minIdle is the minimal time a client limiter is kept.
const minIdle = time.Second

// NewLimiter creates a new limiter allowing requestsPerSecond requests per client with the given burst.
// A non-positive requestsPerSecond disables limiting and returns nil.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}

	idle := max(minIdle, time.Duration(float64(burst)/requestsPerSecond*float64(time.Second)))
	return &Limiter{
		limiters: gocache.New(idle, idle),
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Allow checks if a request from the given client is allowed without waiting.
// A nil limiter allows every request.
func (l *Limiter) Allow(client string) bool {
	if l == nil {
		return true
	}
	return l.get(client).Allow()
}

// Clients returns the number of clients currently tracked.
func (l *Limiter) Clients() int {
	if l == nil {
		return 0
	}
	return l.limiters.ItemCount()
}

// get returns the rate limiter for a client, and marks it as used.
func (l *Limiter) get(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if value, ok := l.limiters.Get(client); ok {
		limiter = value.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}

	// refresh the expiration
	l.limiters.SetDefault(client, limiter)
	return limiter
}

// Middleware rejects requests exceeding the limit with 429 Too Many Requests.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	retry := strconv.Itoa(int(max(time.Second, time.Duration(float64(time.Second)/float64(l.limit))).Seconds()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientOf(r)) {
			w.Header().Set("Retry-After", retry)
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientOf returns the host that sent r.
func clientOf(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
