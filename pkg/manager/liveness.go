package manager

import (
	"sync"
	"time"
)

// Liveness is the process-wide liveness registry: a map from session
// name to the UTC instant of its last observed activity.
type Liveness struct {
	mu      sync.RWMutex
	pingers map[string]time.Time
}

// NewLiveness creates an empty liveness registry.
func NewLiveness() *Liveness {
	return &Liveness{pingers: make(map[string]time.Time)}
}

// Ping records now as session's last activity, creating the entry if
// it does not exist.
func (l *Liveness) Ping(session string) {
	l.mu.Lock()
	l.pingers[session] = time.Now().UTC()
	l.mu.Unlock()
}

// PingAt records t as session's last activity. Used by the
// maintenance sweep to backfill an entry for a running container that
// has none.
func (l *Liveness) PingAt(session string, t time.Time) {
	l.mu.Lock()
	l.pingers[session] = t
	l.mu.Unlock()
}

// LastPing returns session's last recorded activity and whether an
// entry exists at all.
func (l *Liveness) LastPing(session string) (time.Time, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.pingers[session]
	return t, ok
}

// Count returns the number of sessions currently tracked.
func (l *Liveness) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pingers)
}

// Forget removes session's entry, if any.
func (l *Liveness) Forget(session string) {
	l.mu.Lock()
	delete(l.pingers, session)
	l.mu.Unlock()
}

// Reconcile removes every entry whose session is not in observed: the
// registry holds no key without a corresponding container.
func (l *Liveness) Reconcile(observed map[string]struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for session := range l.pingers {
		if _, ok := observed[session]; !ok {
			delete(l.pingers, session)
		}
	}
}
