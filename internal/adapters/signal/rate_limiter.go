package signal

import (
	"sync"
	"time"
)

// MessageRateLimiter is a sliding-window limiter for one connection's inbound
// signaling messages. A limit of zero or less disables limiting.
type MessageRateLimiter struct {
	mu       sync.Mutex
	history  []time.Time
	limit    int
	interval time.Duration
}

func NewMessageRateLimiter(limit int, interval time.Duration) *MessageRateLimiter {
	return &MessageRateLimiter{
		limit:    limit,
		interval: interval,
	}
}

func (rl *MessageRateLimiter) Allow() bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	fresh := rl.history[:0]
	for _, t := range rl.history {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history = fresh
		return false
	}

	rl.history = append(fresh, now)
	return true
}
