// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts hits per key in fixed windows. It is safe for concurrent
// use.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit hits per key every period.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.period)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// sweep drops expired windows once the map grows past a small bound, so
// memory stays proportional to recent distinct keys. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	if len(l.windows) < 1024 {
		return
	}
	for k, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, k)
		}
	}
}

// RemoteIP returns the host part of the connection's RemoteAddr.
// Forwarding headers are client-controlled and are not consulted.
func RemoteIP(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}

// Login messages shown when an attempt is refused.
const (
	MsgTooManyFromAddress = "Too many login attempts. Please wait a minute before trying again."
	MsgTooManyForAccount  = "Too many login attempts for this account. Please wait a few minutes."
)

// LoginLimiter throttles sign-in attempts per connection address and per
// login id.
type LoginLimiter struct {
	byIP      *Limiter
	byLoginID *Limiter
}

// NewLoginLimiter allows 10 attempts per address per minute and 5 per
// login id per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWithConfig(10, time.Minute, 5, 5*time.Minute)
}

// NewLoginLimiterWithConfig creates a LoginLimiter with explicit limits.
func NewLoginLimiterWithConfig(ipLimit int, ipPeriod time.Duration, idLimit int, idPeriod time.Duration) *LoginLimiter {
	return &LoginLimiter{
		byIP:      New(ipLimit, ipPeriod),
		byLoginID: New(idLimit, idPeriod),
	}
}

// Check records an attempt and returns false with a user-facing message
// when it should be refused.
func (ll *LoginLimiter) Check(r *http.Request, loginID string) (bool, string) {
	if !ll.byIP.Allow(RemoteIP(r)) {
		return false, MsgTooManyFromAddress
	}
	if key := loginKey(loginID); key != "" && !ll.byLoginID.Allow(key) {
		return false, MsgTooManyForAccount
	}
	return true, ""
}

// Succeeded clears the per-account counter after a successful sign-in.
func (ll *LoginLimiter) Succeeded(loginID string) {
	if key := loginKey(loginID); key != "" {
		ll.byLoginID.Reset(key)
	}
}

func loginKey(loginID string) string {
	return strings.ToLower(strings.TrimSpace(loginID))
}
