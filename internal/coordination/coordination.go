// Package coordination arbitrates per-url file access between callers that
// would otherwise race: the I/O orchestrator and the conflict resolver both
// copy, move, and replace files that the local file system, the cloud
// daemon, and the application's bookmark loader may touch concurrently.
// Stands in for the platform file-coordination primitive spec.md §4.4/§5
// delegates to ("coordinated read"/"coordinated write").
package coordination

import "sync"

// lessURL orders two urls deterministically so WithReadWrite always
// acquires locks in the same global order regardless of argument order,
// preventing A-then-B / B-then-A deadlocks between concurrent calls.
func lessURL(a, b string) bool { return a < b }

// Coordinator arbitrates per-url access so that concurrent readers and a
// single writer on the same file never interleave. Locks are created lazily
// and kept for the engine's lifetime; a fixed, small working set of urls
// makes that acceptable.
type Coordinator struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewCoordinator creates an empty Coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{locks: make(map[string]*sync.RWMutex)}
}

func (c *Coordinator) lockFor(url string) *sync.RWMutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[url]
	if !ok {
		l = &sync.RWMutex{}
		c.locks[url] = l
	}

	return l
}

// ReadLock acquires a reader lock on url and returns a function that
// releases it.
func (c *Coordinator) ReadLock(url string) func() {
	l := c.lockFor(url)
	l.RLock()

	return l.RUnlock
}

// WriteLock acquires a writer lock on url and returns a function that
// releases it.
func (c *Coordinator) WriteLock(url string) func() {
	l := c.lockFor(url)
	l.Lock()

	return l.Unlock
}

// WithReadWrite acquires a reader lock on src and a writer lock on dst and
// runs fn while both are held. When src == dst, only the writer lock is
// taken. Locks are always acquired in url-sorted order so a concurrent call
// with src/dst reversed cannot deadlock against this one.
func (c *Coordinator) WithReadWrite(src, dst string, fn func() error) error {
	if src == dst {
		unlock := c.WriteLock(dst)
		defer unlock()

		return fn()
	}

	first, second := src, dst
	if !lessURL(first, second) {
		first, second = second, first
	}

	unlockFirst := c.lockBoth(first, first == src)
	defer unlockFirst()

	unlockSecond := c.lockBoth(second, second == src)
	defer unlockSecond()

	return fn()
}

// lockBoth acquires a reader lock if asRead is true, else a writer lock.
func (c *Coordinator) lockBoth(url string, asRead bool) func() {
	if asRead {
		return c.ReadLock(url)
	}

	return c.WriteLock(url)
}
