package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAtomicEvent(t *testing.T) {
	ae := NewAtomicEvent[[]int]()
	assert.NotNil(t, ae, "NewAtomicEvent should not return nil")
	assert.NotNil(t, ae.notify, "notify channel should be initialized")
	assert.False(t, ae.HasPending())
}

func TestAtomicEvent_SendAndLatest(t *testing.T) {
	ae := NewAtomicEvent[string]()
	ae.Send("frame1")
	ae.Send("frame2")

	value, seq := ae.Latest()
	assert.Equal(t, "frame2", value)
	assert.Equal(t, uint64(2), seq)
	assert.Equal(t, "frame2", ae.Value())
}

func TestAtomicEvent_SingleNotification(t *testing.T) {
	ae := NewAtomicEvent[int]()

	ae.Send(1)
	ae.Send(2)
	ae.Send(3)
	assert.True(t, ae.HasPending())

	select {
	case <-ae.Channel():
	default:
		t.Fatal("should have received a notification")
	}

	select {
	case <-ae.Channel():
		t.Fatal("three sends must collapse into one notification")
	default:
	}
	assert.Equal(t, 3, ae.Value())
}

func TestAtomicEvent_Concurrency(t *testing.T) {
	ae := NewAtomicEvent[int]()
	done := make(chan struct{})

	go func() {
		for i := 0; i < 1000; i++ {
			ae.Send(i)
		}
		close(done)
	}()

	lastSeq := uint64(0)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ae.Channel():
				_, seq := ae.Latest()
				if seq < lastSeq {
					t.Errorf("sequence went backwards: got %d, last was %d", seq, lastSeq)
				}
				lastSeq = seq
			case <-done:
				return
			}
		}
	}()
	wg.Wait()

	value, seq := ae.Latest()
	assert.Equal(t, 999, value)
	assert.Equal(t, uint64(1000), seq)
}
