package httpclient

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// RateLimiter 在请求发出前阻塞限流。
type RateLimiter interface {
	Wait(ctx context.Context, req *http.Request) error
}

// HostLimiter 按目标 host 维护独立的令牌桶。
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	qps     float64
	burst   int
}

type bucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewHostLimiter 创建按 host 区分的限流器，qps <= 0 表示不限流。
func NewHostLimiter(qps float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		buckets: make(map[string]*bucket),
		qps:     qps,
		burst:   burst,
	}
}

// Wait 阻塞直到当前 host 拿到令牌或上下文取消。
func (l *HostLimiter) Wait(ctx context.Context, req *http.Request) error {
	if l == nil || l.qps <= 0 {
		return nil
	}
	b := l.bucket(hostKey(req))
	for {
		wait := b.reserve(time.Now(), l.qps, l.burst)
		if wait <= 0 {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func hostKey(req *http.Request) string {
	if req != nil && req.URL != nil && req.URL.Host != "" {
		return req.URL.Host
	}
	return "default"
}

func (l *HostLimiter) bucket(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[key]; ok {
		return b
	}
	b := &bucket{tokens: float64(l.burst), last: time.Now()}
	l.buckets[key] = b
	return b
}

func (b *bucket) reserve(now time.Time, qps float64, burst int) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	elapsed := now.Sub(b.last).Seconds()
	b.tokens += elapsed * qps
	if b.tokens > float64(burst) {
		b.tokens = float64(burst)
	}
	b.last = now
	if b.tokens >= 1 {
		b.tokens--
		return 0
	}
	need := 1 - b.tokens
	return time.Duration(need / qps * float64(time.Second))
}
