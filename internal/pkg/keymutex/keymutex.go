// Package keymutex provides per-key mutual exclusion with strict FIFO
// ordering. All state-mutating interaction operations issued by the same
// actor run one at a time in arrival order, while operations for different
// actors proceed concurrently.
package keymutex

import "sync"

// KeyedMutex serializes callers per string key. The zero value is not usable;
// construct with New.
type KeyedMutex struct {
	mu     sync.Mutex
	queues map[string]*keyQueue
}

// keyQueue tracks the holder and the FIFO waiters for one key.
type keyQueue struct {
	// waiters holds one channel per blocked caller, in arrival order.
	// The slot is removed when the waiter is released.
	waiters []chan struct{}
	locked  bool
}

// New creates an empty KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{
		queues: make(map[string]*keyQueue),
	}
}

// Lock acquires the mutex for key, blocking behind earlier callers of the
// same key. Callers of different keys never block each other.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	q, ok := k.queues[key]
	if !ok {
		q = &keyQueue{}
		k.queues[key] = q
	}
	if !q.locked {
		q.locked = true
		k.mu.Unlock()
		return
	}
	ready := make(chan struct{})
	q.waiters = append(q.waiters, ready)
	k.mu.Unlock()
	<-ready
}

// Unlock releases the mutex for key, handing it to the oldest waiter if any.
// Unlocking a key that is not held panics, same as sync.Mutex.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	q, ok := k.queues[key]
	if !ok || !q.locked {
		panic("keymutex: unlock of unlocked key " + key)
	}
	if len(q.waiters) == 0 {
		delete(k.queues, key)
		return
	}
	ready := q.waiters[0]
	q.waiters = q.waiters[1:]
	close(ready)
}

// RunExclusive runs fn while holding the mutex for key. The lock is released
// unconditionally on exit, so a failing fn cannot corrupt the queue or
// starve later callers.
func (k *KeyedMutex) RunExclusive(key string, fn func() error) error {
	k.Lock(key)
	defer k.Unlock(key)
	return fn()
}
