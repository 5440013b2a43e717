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

package solver

import "github.com/frankkopp/connect4solver/internal/bitboard"

// moveSorter holds at most W candidate moves in ascending score order,
// built up one insertion at a time. With W <= 7 and mostly-presorted
// input (moveOrder already puts the centre columns first) insertion sort
// beats a general sort: each add is O(W) worst case but typically O(1).
type moveSorterEntry struct {
	moveBits uint64
	column   int
	score    int
}

type moveSorter struct {
	entries [bitboard.W]moveSorterEntry
	size    int
}

// add inserts a candidate move, shifting entries with a higher score up
// to make room so the array stays sorted ascending by score.
func (s *moveSorter) add(moveBits uint64, column, score int) {
	pos := s.size
	for pos > 0 && s.entries[pos-1].score > score {
		s.entries[pos] = s.entries[pos-1]
		pos--
	}
	s.entries[pos] = moveSorterEntry{moveBits: moveBits, column: column, score: score}
	s.size++
}

// next pops the highest-scoring remaining entry. ok is false once every
// entry has been returned.
func (s *moveSorter) next() (moveBits uint64, column int, ok bool) {
	if s.size == 0 {
		return 0, 0, false
	}
	s.size--
	e := s.entries[s.size]
	return e.moveBits, e.column, true
}
