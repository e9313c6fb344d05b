package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimedLockImmediateAcquireRelease(t *testing.T) {
	l := newTimedLock()

	outcome, _ := l.acquire(0)
	assert.Equal(t, acquired, outcome)

	l.release()

	outcome, _ = l.acquire(0)
	assert.Equal(t, acquired, outcome, "lock should be free again after release")
	l.release()
}

func TestTimedLockTryOnceFailsWhenHeld(t *testing.T) {
	l := newTimedLock()

	outcome, _ := l.acquire(-1)
	assert.Equal(t, acquired, outcome)

	outcome, _ = l.acquire(0)
	assert.Equal(t, timedOut, outcome, "try-once acquire should not block on a held lock")
}

func TestTimedLockBoundedTimeout(t *testing.T) {
	l := newTimedLock()
	outcome, _ := l.acquire(-1)
	assert.Equal(t, acquired, outcome)

	start := time.Now()
	outcome, waited := l.acquire(50 * time.Millisecond)
	assert.Equal(t, timedOut, outcome)
	assert.GreaterOrEqual(t, waited, 50*time.Millisecond)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTimedLockIndefiniteBlockUnblocksOnRelease(t *testing.T) {
	l := newTimedLock()
	outcome, _ := l.acquire(-1)
	assert.Equal(t, acquired, outcome)

	done := make(chan acquireResult, 1)
	go func() {
		o, _ := l.acquire(-1)
		done <- o
	}()

	select {
	case <-done:
		t.Fatal("second acquire returned before the first was released")
	case <-time.After(30 * time.Millisecond):
	}

	l.release()

	select {
	case o := <-done:
		assert.Equal(t, acquired, o)
	case <-time.After(time.Second):
		t.Fatal("acquire did not unblock after release")
	}
}

func TestTimedLockCloseWakesBlockedAcquirer(t *testing.T) {
	l := newTimedLock()
	outcome, _ := l.acquire(-1)
	assert.Equal(t, acquired, outcome)

	done := make(chan acquireResult, 1)
	go func() {
		o, _ := l.acquire(-1)
		done <- o
	}()

	time.Sleep(20 * time.Millisecond)
	l.close()

	select {
	case o := <-done:
		assert.Equal(t, lockClosed, o)
	case <-time.After(time.Second):
		t.Fatal("close did not wake the blocked acquirer")
	}
}

func TestTimedLockAcquireAfterCloseIsImmediatelyClosed(t *testing.T) {
	l := newTimedLock()
	l.close()

	outcome, waited := l.acquire(time.Second)
	assert.Equal(t, lockClosed, outcome)
	assert.Less(t, waited, 100*time.Millisecond)
}

func TestTimedLockCloseIsIdempotent(t *testing.T) {
	l := newTimedLock()
	l.close()
	assert.NotPanics(t, func() { l.close() })
}
