package tt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// P8: round-trip after Set, an immediate Get returns the stored value.
func TestSetGetRoundTrip(t *testing.T) {
	table := NewSized(1024)
	table.Set(42, 7)
	assert.EqualValues(t, 7, table.Get(42))
}

func TestGetOnEmptySlotIsZero(t *testing.T) {
	table := NewSized(1024)
	assert.EqualValues(t, 0, table.Get(123))
}

func TestGetDetectsCollisionAsAbsent(t *testing.T) {
	table := NewSized(16)
	table.Set(1, 9)
	// 17 collides with 1 modulo 16 but is a different position.
	assert.EqualValues(t, 0, table.Get(17))
}

func TestSetOverwritesOnCollision(t *testing.T) {
	table := NewSized(16)
	table.Set(1, 9)
	table.Set(17, 5)
	assert.EqualValues(t, 5, table.Get(17))
	assert.EqualValues(t, 0, table.Get(1))
}

func TestDefaultCapacity(t *testing.T) {
	table := New()
	assert.Equal(t, Capacity, table.Len())
}

func TestAtomicTableRoundTrip(t *testing.T) {
	table := NewAtomicSized(1024)
	table.Set(42, 7)
	assert.EqualValues(t, 7, table.Get(42))
}

func TestAtomicTableConcurrentUse(t *testing.T) {
	table := NewAtomicSized(4096)
	var wg sync.WaitGroup
	for i := uint64(0); i < 256; i++ {
		wg.Add(1)
		go func(key uint64) {
			defer wg.Done()
			table.Set(key, uint8(key%200+1))
		}(i)
	}
	wg.Wait()
	for i := uint64(0); i < 256; i++ {
		v := table.Get(i)
		// either our own write (exact match) or clobbered by a later
		// collision on the same slot - both are valid outcomes of a
		// lossy table, so just check it never panics and stays in range.
		assert.LessOrEqual(t, v, uint8(200))
		_ = v
	}
}
