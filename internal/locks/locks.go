// Package locks serializa el acceso a cada recurso persistido: un único
// escritor por clave dentro del proceso.
package locks

import (
	"sync"
	"time"
)

type entry struct {
	mu       sync.Mutex
	refs     int
	lastUsed int64
}

// Registry mantiene un mutex por clave. Las claves sin uso durante más de
// idle se eliminan periódicamente para que los carritos no crezcan sin límite.
type Registry struct {
	items map[string]*entry
	mu    sync.Mutex
	idle  time.Duration
	done  chan struct{}
	once  sync.Once
}

// New crea el registro y arranca la limpieza periódica
func New(idle time.Duration) *Registry {
	r := &Registry{
		items: make(map[string]*entry),
		idle:  idle,
		done:  make(chan struct{}),
	}
	go r.cleanupIdle()
	return r
}

// Lock bloquea la clave y devuelve la función que la libera
func (r *Registry) Lock(key string) (unlock func()) {
	r.mu.Lock()
	e, found := r.items[key]
	if !found {
		e = &entry{}
		r.items[key] = e
	}
	e.refs++
	r.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		r.mu.Lock()
		e.refs--
		e.lastUsed = time.Now().UnixNano()
		r.mu.Unlock()
	}
}

// Size retorna el número de claves registradas
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Close detiene la limpieza periódica
func (r *Registry) Close() {
	r.once.Do(func() { close(r.done) })
}

// Sweep elimina las claves sin uso desde antes de cutoff
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	limit := cutoff.UnixNano()
	for key, e := range r.items {
		if e.refs == 0 && e.lastUsed < limit {
			delete(r.items, key)
			removed++
		}
	}
	return removed
}

func (r *Registry) cleanupIdle() {
	interval := r.idle
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case now := <-ticker.C:
			r.Sweep(now.Add(-r.idle))
		}
	}
}
