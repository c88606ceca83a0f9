package tracker

import "sync"

// KeyedGuard admits at most one holder per key. A second caller for a key
// that is already held is turned away instead of waiting.
type KeyedGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewKeyedGuard creates an empty guard.
func NewKeyedGuard() *KeyedGuard {
	return &KeyedGuard{held: make(map[string]struct{})}
}

// TryAcquire claims key. It returns ok=false if key is already held; on
// success the returned release function frees the key and is safe to call
// more than once.
func (g *KeyedGuard) TryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.held[key]; busy {
		return nil, false
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, true
}

// Held reports whether key is currently claimed.
func (g *KeyedGuard) Held(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.held[key]
	return busy
}

// Len returns the number of keys currently held.
func (g *KeyedGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.held)
}
