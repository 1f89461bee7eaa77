// Package ratelimit throttles chat users per action class.
package ratelimit

import (
	"sync"
	"time"

	"rsvpbot/internal/domain"
)

type key struct {
	userID int64
	class  domain.ActionClass
}

// Limiter enforces a minimum delay between two allowed actions of the same class by the
// same user. The map of last-seen times grows with the number of distinct users; for a
// single community bot that is bounded in practice.
type Limiter struct {
	mu         sync.Mutex
	thresholds map[domain.ActionClass]time.Duration
	last       map[key]time.Time
	now        func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New returns a Limiter with the given per-class thresholds.
func New(command, callback time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		thresholds: map[domain.ActionClass]time.Duration{
			domain.ActionCommand:  command,
			domain.ActionCallback: callback,
		},
		last: make(map[key]time.Time),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndRecord allows the action and stamps the time, or denies it and leaves the
// previous stamp in place.
func (l *Limiter) CheckAndRecord(userID int64, class domain.ActionClass) domain.RateDecision {
	now := l.now()
	k := key{userID: userID, class: class}

	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.last[k]; ok {
		if elapsed := now.Sub(prev); elapsed < l.thresholds[class] {
			return domain.RateDecision{Allowed: false, Remaining: l.thresholds[class] - elapsed}
		}
	}
	l.last[k] = now
	return domain.RateDecision{Allowed: true}
}

var _ domain.RateLimiter = (*Limiter)(nil)
