package domain

import (
	"math"
	"time"
)

// ActionClass groups actions that share a rate-limit threshold.
type ActionClass int

const (
	ActionCommand ActionClass = iota
	ActionCallback
)

func (c ActionClass) String() string {
	if c == ActionCallback {
		return "callback"
	}
	return "command"
}

// RateDecision is the outcome of a rate-limit check.
type RateDecision struct {
	Allowed   bool
	Remaining time.Duration
}

// RemainingSeconds rounds the wait up to whole seconds.
func (d RateDecision) RemainingSeconds() int {
	return int(math.Ceil(d.Remaining.Seconds()))
}

// RateLimiter throttles users per action class.
type RateLimiter interface {
	// CheckAndRecord allows the action and records it, or denies it without recording.
	CheckAndRecord(userID int64, class ActionClass) RateDecision
}
