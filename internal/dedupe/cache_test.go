// ABOUTME: Tests for the delivered-id dedupe cache
// ABOUTME: Covers check/mark semantics, TTL expiry, capacity eviction, and cleanup

package dedupe

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_CheckUnmarked(t *testing.T) {
	c := New(time.Minute, 100)
	defer c.Close()

	assert.False(t, c.Check("msg-1"))
	// Check never marks.
	assert.False(t, c.Check("msg-1"))
}

func TestCache_MarkThenCheck(t *testing.T) {
	c := New(time.Minute, 100)
	defer c.Close()

	c.Mark("msg-1")
	assert.True(t, c.Check("msg-1"))
	assert.False(t, c.Check("msg-2"))
}

func TestCache_CheckAndMark(t *testing.T) {
	c := New(time.Minute, 100)
	defer c.Close()

	assert.False(t, c.CheckAndMark("msg-1"), "first sighting is not a duplicate")
	assert.True(t, c.CheckAndMark("msg-1"), "second sighting is a duplicate")
	assert.False(t, c.CheckAndMark("msg-2"))
}

func TestCache_Expiry(t *testing.T) {
	c := New(10*time.Millisecond, 100)
	defer c.Close()

	c.Mark("msg-1")
	require.True(t, c.Check("msg-1"))

	time.Sleep(20 * time.Millisecond)
	assert.False(t, c.Check("msg-1"), "expired entry reads as unseen")
	assert.False(t, c.CheckAndMark("msg-1"), "expired entry can be re-marked")
}

func TestCache_EvictsOldestAtCapacity(t *testing.T) {
	c := New(time.Minute, 3)
	defer c.Close()

	c.Mark("a")
	c.Mark("b")
	c.Mark("c")
	c.Mark("d") // evicts a

	assert.False(t, c.Check("a"))
	assert.True(t, c.Check("b"))
	assert.True(t, c.Check("c"))
	assert.True(t, c.Check("d"))
	assert.Equal(t, 3, c.Len())
}

func TestCache_ReMarkRefreshesOrder(t *testing.T) {
	c := New(time.Minute, 3)
	defer c.Close()

	c.Mark("a")
	c.Mark("b")
	c.Mark("c")
	c.Mark("a") // moves a to the back
	c.Mark("d") // evicts b, not a

	assert.True(t, c.Check("a"))
	assert.False(t, c.Check("b"))
}

func TestCache_Cleanup(t *testing.T) {
	c := New(10*time.Millisecond, 100)
	defer c.Close()

	c.Mark("a")
	c.Mark("b")
	require.Equal(t, 2, c.Len())

	time.Sleep(20 * time.Millisecond)
	c.runCleanup()
	assert.Equal(t, 0, c.Len())
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New(time.Minute, 100)
	c.Close()
	c.Close()
}

func TestCache_ConcurrentCheckAndMark(t *testing.T) {
	c := New(time.Minute, 10_000)
	defer c.Close()

	const goroutines = 8
	const ids = 500

	var mu sync.Mutex
	firsts := 0

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < ids; i++ {
				if !c.CheckAndMark(fmt.Sprintf("msg-%d", i)) {
					mu.Lock()
					firsts++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	// Every id is new exactly once across all goroutines.
	assert.Equal(t, ids, firsts)
}
