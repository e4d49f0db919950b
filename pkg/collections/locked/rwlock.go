package locked

import "sync"

// rwlock is a reader/writer lock whose read side is reentrant.
//
// A reader is admitted whenever no writer holds the lock, even if writers
// are queued. A goroutine that already holds a read lock (inside Range, or
// with an enumerator open) can therefore read the same container again
// without waiting on the queued writer it is itself blocking. Writers get
// the lock once the reader count drops to zero.
//
// The write side is not reentrant. Taking the write lock while holding
// either lock on the same goroutine deadlocks.
//
// The zero value is an unlocked rwlock.
type rwlock struct {
	mu      sync.Mutex
	cond    sync.Cond
	readers int
	writer  bool
}

func (l *rwlock) wait() {
	if l.cond.L == nil {
		l.cond.L = &l.mu
	}
	l.cond.Wait()
}

func (l *rwlock) RLock() {
	l.mu.Lock()
	for l.writer {
		l.wait()
	}
	l.readers++
	l.mu.Unlock()
}

func (l *rwlock) RUnlock() {
	l.mu.Lock()
	if l.readers == 0 {
		l.mu.Unlock()
		panic("locked: RUnlock of unlocked rwlock")
	}
	l.readers--
	if l.readers == 0 {
		l.cond.Broadcast()
	}
	l.mu.Unlock()
}

func (l *rwlock) Lock() {
	l.mu.Lock()
	for l.writer || l.readers > 0 {
		l.wait()
	}
	l.writer = true
	l.mu.Unlock()
}

func (l *rwlock) Unlock() {
	l.mu.Lock()
	if !l.writer {
		l.mu.Unlock()
		panic("locked: Unlock of unlocked rwlock")
	}
	l.writer = false
	l.cond.Broadcast()
	l.mu.Unlock()
}
