package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionLocksSerializeSameID(t *testing.T) {
	locks := newSessionLocks()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("s1")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, locks.size())
}

func TestSessionLocksIndependentIDs(t *testing.T) {
	locks := newSessionLocks()

	unlockA := locks.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different session blocked")
	}
}
