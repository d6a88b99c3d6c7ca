package coordination_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ravensync/kmlsync/internal/coordination"
)

func TestWriteLockExcludesReaders(t *testing.T) {
	c := coordination.NewCoordinator()

	unlock := c.WriteLock("a")

	var readerRan atomic.Bool
	done := make(chan struct{})

	go func() {
		unread := c.ReadLock("a")
		readerRan.Store(true)
		unread()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, readerRan.Load())

	unlock()
	<-done
	assert.True(t, readerRan.Load())
}

func TestWithReadWriteSameURLTakesSingleLock(t *testing.T) {
	c := coordination.NewCoordinator()

	ran := false
	err := c.WithReadWrite("x", "x", func() error {
		ran = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, ran)
}

func TestWithReadWriteNoDeadlockOnReversedOrder(t *testing.T) {
	c := coordination.NewCoordinator()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_ = c.WithReadWrite("a", "b", func() error {
			time.Sleep(10 * time.Millisecond)
			return nil
		})
	}()

	go func() {
		defer wg.Done()
		_ = c.WithReadWrite("b", "a", func() error {
			time.Sleep(10 * time.Millisecond)
			return nil
		})
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("deadlock: reversed-order WithReadWrite calls did not complete")
	}
}
