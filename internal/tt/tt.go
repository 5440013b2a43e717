/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package tt implements the solver's transposition table: a fixed
// capacity, direct-mapped, lossy cache from a 64-bit position key to an
// 8-bit bound tag. Unlike a chess engine's depth-preferred table, this
// one never probes or chains - a collision silently overwrites the
// previous occupant, and the reader detects it via a 32-bit key
// comparison. A stale or colliding entry merely costs a re-search, never
// a wrong answer.
package tt

import (
	"sync/atomic"
	"unsafe"

	"github.com/frankkopp/connect4solver/internal/logging"
)

var log = logging.Get("tt")

// Capacity is the table's fixed entry count: a prime near 2^23 so that
// modulo-addressing spreads keys evenly instead of aliasing on the
// power-of-two structure most position keys already have.
const Capacity = 1<<23 + 9

// entry holds the low 32 bits of the full key plus the bound tag: 5 bytes
// of data, which Go pads to 8 bytes per slot.
// A zero value means "unused slot" - value 0 is never stored by the
// solver (it offsets real values by one) so it doubles as the sentinel.
type entry struct {
	key32 uint32
	value uint8
}

// Table is the single-threaded transposition table used by Solve. It is
// not safe for concurrent use; SolveParallel uses AtomicTable instead.
type Table struct {
	data []entry

	puts   uint64
	hits   uint64
	misses uint64
}

// New returns a table with the default Capacity.
func New() *Table {
	return NewSized(Capacity)
}

// NewSized returns a table with room for capacity entries. Tests use a
// small capacity to exercise collision handling cheaply.
func NewSized(capacity uint64) *Table {
	log.Debugf("allocating transposition table: %d entries (%d bytes)", capacity, capacity*uint64(unsafe.Sizeof(entry{})))
	return &Table{data: make([]entry, capacity)}
}

// Set records value for key, silently overwriting whatever was there.
// Callers must never pass value == 0; that is reserved for "absent".
func (t *Table) Set(key uint64, value uint8) {
	t.puts++
	idx := key % uint64(len(t.data))
	t.data[idx] = entry{key32: uint32(key), value: value}
}

// Get returns the stored value for key, or 0 if the slot is empty or
// holds a different position (a collision).
func (t *Table) Get(key uint64) uint8 {
	e := &t.data[key%uint64(len(t.data))]
	if e.key32 != uint32(key) {
		t.misses++
		return 0
	}
	t.hits++
	return e.value
}

// Len returns the table's fixed entry count.
func (t *Table) Len() int {
	return len(t.data)
}

// atomicEntry is the lock-free counterpart of entry. value and
// keyXorValue are updated independently, so a reader racing a writer can
// observe a torn combination; keyXorValue ^ value only reconstitutes the
// intended key32 when both halves belong to the same Set call, which is
// exactly the property AtomicTable.Get checks for.
type atomicEntry struct {
	keyXorValue uint32
	value       uint32
}

// AtomicTable is the transposition table variant for parallel top-level
// search, one goroutine per candidate root move sharing a single table.
type AtomicTable struct {
	data []atomicEntry
}

// NewAtomic returns an atomic table with the default Capacity.
func NewAtomic() *AtomicTable {
	return NewAtomicSized(Capacity)
}

// NewAtomicSized returns an atomic table with room for capacity entries.
func NewAtomicSized(capacity uint64) *AtomicTable {
	return &AtomicTable{data: make([]atomicEntry, capacity)}
}

// Set records value for key. Safe to call concurrently with Get and with
// other Set calls on different goroutines.
func (t *AtomicTable) Set(key uint64, value uint8) {
	e := &t.data[key%uint64(len(t.data))]
	atomic.StoreUint32(&e.value, uint32(value))
	atomic.StoreUint32(&e.keyXorValue, uint32(key)^uint32(value))
}

// Get returns the stored value for key, or 0 if the slot is empty, holds
// a different position, or was observed mid-write.
func (t *AtomicTable) Get(key uint64) uint8 {
	e := &t.data[key%uint64(len(t.data))]
	v := atomic.LoadUint32(&e.value)
	kx := atomic.LoadUint32(&e.keyXorValue)
	if kx^v != uint32(key) {
		return 0
	}
	return uint8(v)
}

// Len returns the table's fixed entry count.
func (t *AtomicTable) Len() int {
	return len(t.data)
}
