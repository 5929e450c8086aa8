package test

import (
	"strings"
	"sync"
	"time"

	pkgAuth "github.com/polkiloo/usercreds/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn        func(string) (string, error)
	CompareFn     func(string, string) error
	NeedsRehashFn func(string) bool
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash. Hashes without the
// "hash:" prefix are reported as malformed.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if !strings.HasPrefix(hash, "hash:") {
		return pkgAuth.ErrMalformedHash
	}
	if hash != "hash:"+password {
		return pkgAuth.ErrPasswordMismatch
	}
	return nil
}

// NeedsRehash never asks for a rehash unless overridden.
func (h HasherStub) NeedsRehash(hash string) bool {
	if h.NeedsRehashFn != nil {
		return h.NeedsRehashFn(hash)
	}
	return false
}

// StepClock returns a strictly increasing time on every call.
type StepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewStepClock starts at start and advances by step after each reading.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

// Now returns the current reading and advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

var _ pkgAuth.PasswordHasher = HasherStub{}
