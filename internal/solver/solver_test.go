package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frankkopp/connect4solver/internal/bitboard"
	"github.com/frankkopp/connect4solver/internal/tt"
)

func newTestSolver() *Solver {
	return New(tt.NewSized(1<<16), nil)
}

// The empty board is a first-player win, but not the fastest possible
// one - perfect play from both sides gives a score of +1, best move the
// centre column (column 4, 1-indexed; index 3).
func TestSolveEmptyBoard(t *testing.T) {
	s := newTestSolver()
	score, col := s.Solve(bitboard.New())
	assert.EqualValues(t, 1, score)
	assert.Equal(t, 3, col)
}

// After both players open in the centre column, the position flips to a
// loss for the player to move.
func TestSolveAfterCentreCentre(t *testing.T) {
	b, err := bitboard.FromMoveString("44")
	assert.NoError(t, err)
	s := newTestSolver()
	score, _ := s.Solve(b)
	assert.EqualValues(t, -1, score)
}

// After a single centre-column opening, the player to move has a
// stronger win than from the empty board.
func TestSolveAfterSingleCentre(t *testing.T) {
	b, err := bitboard.FromMoveString("4")
	assert.NoError(t, err)
	s := newTestSolver()
	score, col := s.Solve(b)
	assert.EqualValues(t, 2, score)
	assert.Equal(t, 3, col)
}

// P6/P9: the best move is always a column the position can actually
// accept, across a handful of short openings.
func TestSolveReturnsPlayableColumn(t *testing.T) {
	s := newTestSolver()
	for _, moves := range []string{"", "4", "44", "1", "13", "7171"} {
		b, err := bitboard.FromMoveString(moves)
		assert.NoError(t, err)
		_, col := s.Solve(b)
		assert.GreaterOrEqual(t, col, 0)
		assert.Less(t, col, bitboard.W)
		assert.True(t, b.Playable(col), "column %d not playable after %q", col, moves)
	}
}

// Solve is deterministic: solving the same position twice with
// independent tables gives the same score.
func TestSolveIsDeterministic(t *testing.T) {
	b, err := bitboard.FromMoveString("1122")
	assert.NoError(t, err)
	s1 := newTestSolver()
	s2 := newTestSolver()
	score1, _ := s1.Solve(b)
	score2, _ := s2.Solve(b)
	assert.Equal(t, score1, score2)
}

func TestSolveParallelMatchesSequential(t *testing.T) {
	b, err := bitboard.FromMoveString("4")
	assert.NoError(t, err)

	seq := newTestSolver()
	seqScore, _ := seq.Solve(b)

	table := tt.NewAtomicSized(1 << 16)
	parScore, col := SolveParallel(b, table, nil, 2)
	assert.Equal(t, seqScore, parScore)
	assert.True(t, b.Playable(col))
}

func TestPliesRemainingParity(t *testing.T) {
	// A win should always take an odd number of remaining plies from an
	// even position count, and the count must never exceed the cells
	// left on the board.
	plies := PliesRemaining(1, 0)
	assert.LessOrEqual(t, plies, BoardSize)
	assert.Greater(t, plies, 0)
	assert.Equal(t, 1, plies%2)

	assert.Equal(t, BoardSize, PliesRemaining(0, 0))
}
