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

// Package book reads the read-only opening book: a flat, sorted-by-
// fingerprint binary file mapping 12-ply Connect Four positions (those
// in which the side to move has no immediate win) to their perfect-play
// score. It is loaded once and never mutated; lookups are a binary
// search over two parallel slices.
package book

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/frankkopp/connect4solver/internal/logging"
)

var log = logging.Get("book")

// RecordSize is the on-disk record layout: a big-endian uint32
// fingerprint followed by a signed byte score.
const RecordSize = 5

// DatabaseDepth is the only ply count at which the book may be
// consulted; the Huffman fingerprint is not injective past ~13 stones.
const DatabaseDepth = 12

// NumRecords is the expected entry count for the canonical W=7, H=6,
// depth=12 book. Load does not require it - it derives N from the file
// size - but callers can use it to sanity-check a book file.
const NumRecords = 4_200_899

// Book holds the decoded opening book: two parallel arrays sorted
// ascending by fingerprint.
type Book struct {
	fingerprints []uint32
	scores       []int8
	searchBit    int
}

// Load reads path into memory. A missing file is a recoverable error -
// callers typically fall back to pure search - so it is returned, not
// panicked on.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warningf("opening book not available, falling back to search only: %s", err)
		return nil, err
	}
	if len(data)%RecordSize != 0 {
		return nil, fmt.Errorf("opening book %q: size %d is not a multiple of record size %d", path, len(data), RecordSize)
	}

	n := len(data) / RecordSize
	b := &Book{
		fingerprints: make([]uint32, n),
		scores:       make([]int8, n),
	}
	for i := 0; i < n; i++ {
		off := i * RecordSize
		b.fingerprints[i] = binary.BigEndian.Uint32(data[off : off+4])
		b.scores[i] = int8(data[off+4])
	}
	for bit := 1; bit <= n; bit *= 2 {
		b.searchBit = bit
	}

	log.Infof("loaded opening book %q: %d entries", path, n)
	return b, nil
}

// Len returns the number of records loaded.
func (b *Book) Len() int {
	return len(b.fingerprints)
}

// Get looks up a position by its canonical fingerprint and its mirror
// (exactly one of the two is ever stored, since the book key is itself
// the min of the pair) and returns the score in the solver's score
// space. ok is false on a miss, meaning the caller must fall back to
// search.
func (b *Book) Get(fingerprint, mirrorFingerprint uint32) (score int32, ok bool) {
	if v, found := b.lookup(fingerprint); found {
		return transform(v), true
	}
	if v, found := b.lookup(mirrorFingerprint); found {
		return transform(v), true
	}
	return 0, false
}

// lookup is a one-sided binary search ("binary lifting"): ptr advances
// by a geometrically halved step whenever the probed fingerprint is not
// greater than the target, so it never needs a division and never reads
// past the end of the slice.
func (b *Book) lookup(fingerprint uint32) (int8, bool) {
	n := len(b.fingerprints)
	if n == 0 {
		return 0, false
	}
	ptr := 0
	for step := b.searchBit; step > 0; step >>= 1 {
		if ptr+step < n && b.fingerprints[ptr+step] <= fingerprint {
			ptr += step
		}
	}
	if b.fingerprints[ptr] == fingerprint {
		return b.scores[ptr], true
	}
	return 0, false
}

// transform converts a stored byte score into the solver's [-18, 18]
// score space.
func transform(v int8) int32 {
	switch {
	case v > 0:
		return int32(21 - (12+(100-int(v)))/2)
	case v < 0:
		return int32(-22 + (12+(100+int(v)))/2)
	default:
		return 0
	}
}

// EncodeScore is the inverse of transform: it maps a solver score in
// [MinScore, MaxScore] to the byte the generator writes to disk. The
// generator computes raw scores via Solve and must pass them through
// this before writing a record, so that Get's transform recovers them.
func EncodeScore(score int32) int8 {
	return int8(69 + 2*score)
}
