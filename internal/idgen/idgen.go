// Package idgen genera ids de producto basados en milisegundos que nunca se
// repiten dentro del proceso, aunque lleguen varias altas en el mismo instante.
package idgen

import (
	"sync/atomic"
	"time"
)

type Generator interface {
	Next() int64
}

// Monotonic devuelve max(ahora en ms, último+1)
type Monotonic struct {
	last atomic.Int64
	now  func() time.Time
}

func NewMonotonic(now func() time.Time) *Monotonic {
	if now == nil {
		now = time.Now
	}
	return &Monotonic{now: now}
}

func (g *Monotonic) Next() int64 {
	for {
		last := g.last.Load()
		next := g.now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if g.last.CompareAndSwap(last, next) {
			return next
		}
	}
}

// Observe adelanta el generador para que no devuelva ids <= id
func (g *Monotonic) Observe(id int64) {
	for {
		last := g.last.Load()
		if id <= last || g.last.CompareAndSwap(last, id) {
			return
		}
	}
}
