package resilience

import "sync"

// SingleFlight collapses concurrent loads of the same key into one call.
type SingleFlight[V any] struct {
	mu       sync.Mutex
	inFlight map[string]*flight[V]
}

type flight[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// Do runs fn once per key at a time. shared reports whether the result came
// from another caller's run.
func (g *SingleFlight[V]) Do(key string, fn func() (V, error)) (value V, err error, shared bool) {
	g.mu.Lock()
	if g.inFlight == nil {
		g.inFlight = make(map[string]*flight[V])
	}
	if f, ok := g.inFlight[key]; ok {
		g.mu.Unlock()
		<-f.done
		return f.value, f.err, true
	}

	f := &flight[V]{done: make(chan struct{})}
	g.inFlight[key] = f
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inFlight, key)
		g.mu.Unlock()
		close(f.done)
	}()

	f.value, f.err = fn()
	return f.value, f.err, false
}
