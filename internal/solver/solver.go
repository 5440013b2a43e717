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

// Package solver implements the perfect Connect Four solver: negamax with
// alpha-beta pruning, iterative deepening by null-window search, a
// transposition table and an opening book. Solve never returns an
// approximation - the score is exact given perfect play by both sides.
package solver

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/frankkopp/connect4solver/internal/bitboard"
	"github.com/frankkopp/connect4solver/internal/book"
	"github.com/frankkopp/connect4solver/internal/logging"
)

var log = logging.Get("solver")

// BoardSize is the total number of cells, W*H for the standard board.
const BoardSize = bitboard.W * bitboard.H

// Score is a search result: strictly more than a bare int, it documents
// at the type level that a value lives in [MinScore, MaxScore] and keeps
// it from being mixed up with a move count or a column index.
type Score int32

// MinScore and MaxScore bound the score space: a win on the earliest
// possible move scores MaxScore, a loss on the earliest possible move
// scores MinScore, a draw scores 0.
const (
	MinScore = Score(-(BoardSize/2) + 3)
	MaxScore = Score((BoardSize+1)/2 - 3)
)

// moveOrder lists columns centre-outward: the middle column is most
// likely to be part of a winning line, so searching it first tightens
// alpha-beta bounds fastest.
var moveOrder = [bitboard.W]int{}

func init() {
	for i := 0; i < bitboard.W; i++ {
		moveOrder[i] = bitboard.W/2 + (1-2*(i%2))*(i+1)/2
	}
}

// TranspositionTable is satisfied by both tt.Table (sequential search)
// and tt.AtomicTable (SolveParallel), so negamax does not need to know
// which one it was given.
type TranspositionTable interface {
	Get(key uint64) uint8
	Set(key uint64, value uint8)
}

// Solver holds everything a single search needs beyond the position
// itself: the shared transposition table, the optional opening book, and
// a node counter for instrumentation.
type Solver struct {
	tt    TranspositionTable
	book  *book.Book
	nodes uint64
}

// New returns a Solver backed by table and, optionally, an opening book.
// ob may be nil, in which case every position is solved by search alone.
func New(table TranspositionTable, ob *book.Book) *Solver {
	return &Solver{tt: table, book: ob}
}

// Nodes returns the number of positions visited by the most recent Solve
// call (and any still in progress, if called concurrently - for
// diagnostics only, not safe to read precisely across goroutines).
func (s *Solver) Nodes() uint64 {
	return s.nodes
}

// Solve returns the perfect-play score of b and the best move, as an
// iterative-deepening null-window search over the [MinScore, MaxScore]
// range reachable from b's current move count.
func (s *Solver) Solve(b bitboard.BitBoard) (Score, int) {
	s.nodes = 0
	min := -Score((BoardSize - b.NumMoves) / 2)
	max := Score((BoardSize + 1 - b.NumMoves) / 2)
	bestColumn := bitboard.W

	for min < max {
		mid := min + (max-min)/2
		if mid <= 0 && min/2 < mid {
			mid = min / 2
		} else if mid >= 0 && max/2 > mid {
			mid = max / 2
		}
		r, col := s.topLevel(b, mid, mid+1)
		bestColumn = col
		if r <= mid {
			max = r
		} else {
			min = r
		}
	}
	return min, bestColumn
}

// topLevel is negamax's root: identical pruning and move ordering, but it
// tracks which column produced the best score instead of just the score,
// never touches the transposition table or the opening book (the root is
// searched once per null-window probe of Solve, each with a different
// window, so memoising it buys little), and falls back
// to the first playable column when every move is already lost.
func (s *Solver) topLevel(b bitboard.BitBoard, alpha, beta Score) (Score, int) {
	s.nodes++

	for c := 0; c < bitboard.W; c++ {
		if b.Playable(c) && b.CheckWinningMove(c) {
			return Score((BoardSize + 1 - b.NumMoves) / 2), c
		}
	}

	safe := b.NonLosingMoves()
	if safe == 0 {
		return -Score((BoardSize - b.NumMoves) / 2), firstPlayable(b)
	}
	if b.NumMoves == BoardSize {
		return 0, firstPlayable(b)
	}

	var sorter moveSorter
	for i := bitboard.W - 1; i >= 0; i-- {
		c := moveOrder[i]
		if !b.Playable(c) {
			continue
		}
		moveBits := b.ColumnMove(c)
		if safe&moveBits == 0 {
			continue
		}
		sorter.add(moveBits, c, b.MoveScore(moveBits))
	}

	bestColumn := bitboard.W
	bestScore := MinScore - 1
	for {
		moveBits, col, ok := sorter.next()
		if !ok {
			break
		}
		child := b
		child.Play(moveBits)
		score := -s.negamax(child, -beta, -alpha)
		if score > bestScore {
			bestScore = score
			bestColumn = col
		}
		if score >= beta {
			return score, col
		}
		if score > alpha {
			alpha = score
		}
	}
	return bestScore, bestColumn
}

// firstPlayable returns the lowest-indexed column with room, or W if the
// board is full. Used when every move is equally (already) lost or the
// board is a draw, so any legal move is as good as another.
func firstPlayable(b bitboard.BitBoard) int {
	for c := 0; c < bitboard.W; c++ {
		if b.Playable(c) {
			return c
		}
	}
	return bitboard.W
}

// negamax returns the exact score of b within [alpha, beta), consulting
// the opening book at exactly DatabaseDepth ply and the transposition
// table at every node.
func (s *Solver) negamax(b bitboard.BitBoard, alpha, beta Score) Score {
	s.nodes++

	for c := 0; c < bitboard.W; c++ {
		if b.Playable(c) && b.CheckWinningMove(c) {
			return Score((BoardSize + 1 - b.NumMoves) / 2)
		}
	}

	safe := b.NonLosingMoves()
	if safe == 0 {
		return -Score((BoardSize - b.NumMoves) / 2)
	}
	if b.NumMoves == BoardSize {
		return 0
	}

	if b.NumMoves == book.DatabaseDepth && s.book != nil {
		if score, ok := s.book.Get(uint32(b.HuffmanCode()), uint32(b.HuffmanCodeMirror())); ok {
			return Score(score)
		}
	}

	maxBound := Score((BoardSize - 1 - b.NumMoves) / 2)
	if v := s.tt.Get(b.Key()); v != 0 {
		if Score(v) > MaxScore-MinScore+1 {
			lower := Score(v) + 2*MinScore - MaxScore - 2
			if alpha < lower {
				alpha = lower
			}
		} else {
			upper := Score(v) + MinScore - 1
			if beta > upper {
				beta = upper
			}
		}
		maxBound = Score(v) + MinScore - 1
	}
	if beta > maxBound {
		beta = maxBound
	}
	if alpha >= beta {
		return beta
	}

	var sorter moveSorter
	for i := bitboard.W - 1; i >= 0; i-- {
		c := moveOrder[i]
		if !b.Playable(c) {
			continue
		}
		moveBits := b.ColumnMove(c)
		if safe&moveBits == 0 {
			continue
		}
		sorter.add(moveBits, c, b.MoveScore(moveBits))
	}

	for {
		moveBits, _, ok := sorter.next()
		if !ok {
			break
		}
		child := b
		child.Play(moveBits)
		score := -s.negamax(child, -beta, -alpha)
		if score >= beta {
			s.tt.Set(b.Key(), uint8(score+MaxScore-2*MinScore+2))
			return score
		}
		if score > alpha {
			alpha = score
		}
	}
	s.tt.Set(b.Key(), uint8(alpha-MinScore+1))
	return alpha
}

// PliesRemaining converts a score returned by Solve into the number of
// additional plies perfect play takes to reach the decided outcome from a
// position with numMoves stones already placed - the inverse of the
// "sooner wins score higher" encoding in MinScore/MaxScore.
func PliesRemaining(score Score, numMoves int) int {
	switch {
	case score > 0:
		return BoardSize + 1 - 2*int(score) + numMoves%2 - numMoves
	case score < 0:
		return BoardSize + 2 + 2*int(score) - numMoves%2 - numMoves
	default:
		return BoardSize - numMoves
	}
}

// SolveParallel splits the root's candidate moves across up to workers
// goroutines sharing a single atomic transposition table, one full
// sequential Solve per child position. It is the solver's only use of
// concurrency: the recursive search itself stays single-threaded per
// goroutine, since Connect Four's branching factor is too narrow for
// finer-grained work-splitting to pay for its synchronisation cost.
func SolveParallel(b bitboard.BitBoard, table TranspositionTable, ob *book.Book, workers int) (Score, int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	for c := 0; c < bitboard.W; c++ {
		if b.Playable(c) && b.CheckWinningMove(c) {
			return Score((BoardSize + 1 - b.NumMoves) / 2), c
		}
	}
	safe := b.NonLosingMoves()
	if safe == 0 {
		return -Score((BoardSize - b.NumMoves) / 2), firstPlayable(b)
	}
	if b.NumMoves == BoardSize {
		return 0, firstPlayable(b)
	}

	var candidates []int
	for i := bitboard.W - 1; i >= 0; i-- {
		c := moveOrder[i]
		if b.Playable(c) && safe&b.ColumnMove(c) != 0 {
			candidates = append(candidates, c)
		}
	}

	type result struct {
		column int
		score  Score
	}
	results := make([]result, len(candidates))

	sem := semaphore.NewWeighted(int64(workers))
	ctx := context.Background()
	var wg sync.WaitGroup
	for idx, c := range candidates {
		idx, c := idx, c
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Errorf("semaphore acquire failed: %s", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			child := b
			child.PlayColumn(c)
			worker := &Solver{tt: table, book: ob}
			score, _ := worker.Solve(child)
			results[idx] = result{column: c, score: -score}
		}()
	}
	wg.Wait()

	best := result{column: bitboard.W, score: MinScore - 1}
	for _, r := range results {
		if r.score > best.score {
			best = r
		}
	}
	return best.score, best.column
}
