package locks

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	r := New(time.Minute)
	defer r.Close()

	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := r.Lock("products")
			defer unlock()

			// lectura-modificación-escritura sin atomics
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
	assert.Equal(t, 1, r.Size())
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	r := New(time.Minute)
	defer r.Close()

	unlockA := r.Lock("carts/a")
	defer unlockA()

	acquired := make(chan struct{})
	go func() {
		unlock := r.Lock("carts/b")
		unlock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestSweepKeepsHeldKeys(t *testing.T) {
	r := New(time.Minute)
	defer r.Close()

	unlock := r.Lock("bookings")
	r.Lock("carts/a")()

	removed := r.Sweep(time.Now().Add(time.Second))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Size())

	unlock()
	assert.Equal(t, 1, r.Sweep(time.Now().Add(time.Second)))
	assert.Equal(t, 0, r.Size())
}
