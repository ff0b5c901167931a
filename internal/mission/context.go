package mission

import (
	"sync"
	"time"
)

// Context holds the current session name and simulated time.
// Simulated time never moves backwards.
type Context struct {
	mu      sync.RWMutex
	session string
	epoch   time.Time
	now     time.Time
}

// NewContext creates a Context whose clock starts at epoch.
func NewContext(session string, epoch time.Time) *Context {
	return &Context{
		session: session,
		epoch:   epoch,
		now:     epoch,
	}
}

// Session returns the session name
func (mc *Context) Session() string {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.session
}

// Epoch returns the time event offsets are measured from
func (mc *Context) Epoch() time.Time {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.epoch
}

// Now returns the current simulated time
func (mc *Context) Now() time.Time {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.now
}

// Advance moves the clock to t. Earlier times are ignored.
// Returns the resulting current time.
func (mc *Context) Advance(t time.Time) time.Time {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if t.After(mc.now) {
		mc.now = t
	}
	return mc.now
}

// Reset starts a new session
func (mc *Context) Reset(session string, epoch time.Time) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.session = session
	mc.epoch = epoch
	mc.now = epoch
}
