// Package status implements the single process-wide operation status slot.
//
// The slot is a timed state machine: Idle, then Pending while an operation
// runs, then Success or Error which fall back to Idle after their display
// interval. Any new status replaces the current one and cancels its timer.
package status

import (
	"sync"
	"time"
)

const (
	DefaultSuccessDisplay = 2 * time.Second
	DefaultErrorDisplay   = 3 * time.Second
)

type State int

const (
	Idle State = iota
	Pending
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

type Status struct {
	State   State
	Message string
}

func (s Status) String() string {
	if s.Message == "" {
		return s.State.String()
	}
	return s.State.String() + ": " + s.Message
}

// Tracker owns the status slot. It is safe for concurrent use; the most
// recent writer wins.
type Tracker struct {
	successTTL time.Duration
	errorTTL   time.Duration

	mu      sync.Mutex
	current Status
	gen     uint64
	timer   *time.Timer
	subs    []func(Status)
}

// NewTracker returns an idle tracker. Non-positive intervals fall back to
// the defaults.
func NewTracker(successTTL, errorTTL time.Duration) *Tracker {
	if successTTL <= 0 {
		successTTL = DefaultSuccessDisplay
	}
	if errorTTL <= 0 {
		errorTTL = DefaultErrorDisplay
	}
	return &Tracker{successTTL: successTTL, errorTTL: errorTTL}
}

// Subscribe registers fn to be called after every transition, including the
// automatic return to Idle.
func (t *Tracker) Subscribe(fn func(Status)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = append(t.subs, fn)
}

func (t *Tracker) Current() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *Tracker) Pending(msg string) { t.set(Pending, msg, 0) }

func (t *Tracker) Success(msg string) { t.set(Success, msg, t.successTTL) }

func (t *Tracker) Error(msg string) { t.set(Error, msg, t.errorTTL) }

// Reset clears the slot immediately.
func (t *Tracker) Reset() { t.set(Idle, "", 0) }

// Stop cancels a pending auto-revert.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Tracker) set(state State, msg string, ttl time.Duration) {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.current = Status{State: state, Message: msg}
	if ttl > 0 {
		t.timer = time.AfterFunc(ttl, func() { t.expire(gen) })
	}
	st, subs := t.current, t.subscribers()
	t.mu.Unlock()

	notify(subs, st)
}

func (t *Tracker) expire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.current = Status{}
	t.timer = nil
	st, subs := t.current, t.subscribers()
	t.mu.Unlock()

	notify(subs, st)
}

func (t *Tracker) subscribers() []func(Status) {
	out := make([]func(Status), len(t.subs))
	copy(out, t.subs)
	return out
}

func notify(subs []func(Status), st Status) {
	for _, fn := range subs {
		fn(st)
	}
}
