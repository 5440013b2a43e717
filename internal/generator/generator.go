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

// Package generator builds the opening book: it enumerates every reachable
// position at book.DatabaseDepth ply, discards the ones the solver would
// never ask the book about anyway, solves each of the survivors, and
// writes the sorted binary record file book.Load reads back.
package generator

import (
	"context"
	"encoding/binary"
	"os"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/frankkopp/connect4solver/internal/bitboard"
	"github.com/frankkopp/connect4solver/internal/book"
	"github.com/frankkopp/connect4solver/internal/logging"
	"github.com/frankkopp/connect4solver/internal/solver"
	"github.com/frankkopp/connect4solver/internal/tt"
)

var log = logging.Get("generator")

// candidate is a deduplicated, not-yet-scored book entry.
type candidate struct {
	fingerprint uint32
	playerMask  uint64
	boardMask   uint64
	numMoves    int
}

// Record is one scored, encoded opening book entry, ready to be sorted
// and written to disk.
type Record struct {
	Fingerprint uint32
	Score       int8
}

// Generate runs the full pipeline - enumerate, solve, write - and
// produces the opening book file at path.
func Generate(path string, workers int) error {
	log.Infof("enumerating positions at depth %d", book.DatabaseDepth)
	candidates := Enumerate(workers)
	log.Infof("found %d unique canonical positions", len(candidates))

	records := Solve(candidates, workers)
	log.Infof("solved %d positions", len(records))

	return Write(path, records)
}

// Enumerate walks every column sequence of length book.DatabaseDepth, one
// goroutine per opening column (the same partitioning the original
// generator used), and returns the surviving positions deduplicated by
// canonical fingerprint. A position is discarded if the move sequence
// that reaches it is illegal (full column, already won), or if the
// player to move already has an immediate winning move - the solver's
// own immediate-win check handles those before ever consulting the
// book, so storing them would only waste space.
func Enumerate(workers int) []candidate {
	if workers <= 0 {
		workers = bitboard.W
	}

	results := make(chan map[uint32]candidate, bitboard.W)
	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(workers))
	ctx := context.Background()

	for start := 0; start < bitboard.W; start++ {
		start := start
		_ = sem.Acquire(ctx, 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			results <- enumerateFromColumn(start, book.DatabaseDepth)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	merged := make(map[uint32]candidate)
	for partial := range results {
		for fp, c := range partial {
			merged[fp] = c
		}
	}

	out := make([]candidate, 0, len(merged))
	for _, c := range merged {
		out = append(out, c)
	}
	return out
}

// enumerateFromColumn enumerates every depth-ply sequence whose first move
// is start, holding that first digit fixed. depth is a parameter (rather
// than always book.DatabaseDepth) so tests can exercise the odometer and
// dedup logic at a depth shallow enough to finish quickly.
func enumerateFromColumn(start, depth int) map[uint32]candidate {
	local := make(map[uint32]candidate)
	moves := make([]int, depth)
	moves[0] = start

	for {
		if b, ok := buildFromMoves(moves); ok {
			fp := b.HuffmanFingerprint()
			if _, dup := local[fp]; !dup {
				local[fp] = candidate{
					fingerprint: fp,
					playerMask:  b.PlayerMask,
					boardMask:   b.BoardMask,
					numMoves:    b.NumMoves,
				}
			}
		}
		if !incrementFrom(moves, 1) {
			return local
		}
	}
}

// buildFromMoves plays moves from the empty board and reports whether the
// result belongs in the book.
func buildFromMoves(moves []int) (bitboard.BitBoard, bool) {
	b, err := bitboard.FromColumns(moves)
	if err != nil {
		return bitboard.BitBoard{}, false
	}
	for c := 0; c < bitboard.W; c++ {
		if b.Playable(c) && b.CheckWinningMove(c) {
			return bitboard.BitBoard{}, false
		}
	}
	return b, true
}

// incrementFrom advances moves as an odometer with digits [0, W), only
// touching indices >= from (so a goroutine can hold its own opening
// column fixed). It returns false once the touched suffix has wrapped
// back to all zeros, meaning every sequence with that prefix is done.
func incrementFrom(moves []int, from int) bool {
	for d := len(moves) - 1; d >= from; d-- {
		moves[d]++
		if moves[d] < bitboard.W {
			return true
		}
		moves[d] = 0
	}
	return false
}

// Solve scores every candidate concurrently against a single shared
// atomic transposition table, bounded to workers goroutines in flight.
// No opening book is consulted while generating one: at this point it
// doesn't exist yet.
func Solve(candidates []candidate, workers int) []Record {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	table := tt.NewAtomic()
	sem := semaphore.NewWeighted(int64(workers))
	ctx := context.Background()
	records := make([]Record, len(candidates))

	var wg sync.WaitGroup
	for i, c := range candidates {
		i, c := i, c
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Errorf("semaphore acquire failed: %s", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			b := bitboard.BitBoard{PlayerMask: c.playerMask, BoardMask: c.boardMask, NumMoves: c.numMoves}
			s := solver.New(table, nil)
			score, _ := s.Solve(b)
			records[i] = Record{Fingerprint: c.fingerprint, Score: book.EncodeScore(int32(score))}
		}()
	}
	wg.Wait()
	return records
}

// Write sorts records ascending by fingerprint and writes them to path in
// the format book.Load expects.
func Write(path string, records []Record) error {
	sort.Slice(records, func(i, j int) bool { return records[i].Fingerprint < records[j].Fingerprint })

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, book.RecordSize)
	for _, r := range records {
		binary.BigEndian.PutUint32(buf[:4], r.Fingerprint)
		buf[4] = byte(r.Score)
		if _, err := f.Write(buf); err != nil {
			return err
		}
	}
	log.Infof("wrote %d records to %q", len(records), path)
	return nil
}
