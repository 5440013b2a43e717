package bitboard

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyBoard(t *testing.T) {
	b := New()
	assert.Equal(t, uint64(0), b.PlayerMask)
	assert.Equal(t, uint64(0), b.BoardMask)
	for c := 0; c < W; c++ {
		assert.True(t, b.Playable(c))
	}
	assert.Equal(t, bottomRowMask, b.PossibleMoves())
}

// P1: PlayerMask is always a subset of BoardMask.
func TestInvariantPlayerSubsetOfBoard(t *testing.T) {
	b, err := FromMoveString("4455")
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), b.PlayerMask&^b.BoardMask)
}

// P2: popcount(BoardMask) == NumMoves.
func TestInvariantPopcountMatchesNumMoves(t *testing.T) {
	b, err := FromMoveString("1234567123")
	assert.NoError(t, err)
	assert.Equal(t, b.NumMoves, bits.OnesCount64(b.BoardMask))
}

// P3: two different histories reaching the same masks agree on Key and
// HuffmanCode.
func TestInvariantKeyAgreesAcrossHistories(t *testing.T) {
	a, err := FromMoveString("1234")
	assert.NoError(t, err)
	b2, err := FromColumns([]int{2, 1, 0, 3})
	assert.NoError(t, err)
	assert.Equal(t, a.Key(), b2.Key())
	assert.Equal(t, a.HuffmanCode(), b2.HuffmanCode())
}

// P4: CheckWinningMove agrees with a four-in-a-row actually existing.
func TestCheckWinningMove(t *testing.T) {
	b, err := FromMoveString("112233")
	assert.NoError(t, err)
	assert.True(t, b.CheckWinningMove(3)) // column 4, 1-indexed
	assert.False(t, b.CheckWinningMove(6))
}

func TestFromMoveStringRejectsAlreadyWonPosition(t *testing.T) {
	_, err := FromMoveString("1122334")
	assert.IsType(t, ErrAlreadyWon{}, err)
}

func TestFromMoveStringRejectsFullColumn(t *testing.T) {
	_, err := FromMoveString("1111111")
	assert.IsType(t, ErrColumnFull{}, err)
}

func TestFromMoveStringRejectsInvalidColumn(t *testing.T) {
	_, err := FromMoveString("18")
	assert.IsType(t, ErrInvalidColumn{}, err)
}

func TestFromMoveStringRejectsInvalidCharacter(t *testing.T) {
	_, err := FromMoveString("1x2")
	assert.IsType(t, ErrInvalidCharacter{}, err)
}

// P5: a single outstanding opponent threat forces NonLosingMoves down to
// exactly the blocking move.
func TestNonLosingMovesForcedBlock(t *testing.T) {
	// Player 1 has three stones stacked in column 1 (0-indexed 0); it is
	// player 2's move and failing to block loses immediately.
	b, err := FromMoveString("16161")
	assert.NoError(t, err)
	safe := b.NonLosingMoves()
	assert.Equal(t, b.ColumnMove(0), safe)
}

func TestNonLosingMovesSubsetOfPossibleMoves(t *testing.T) {
	b, err := FromMoveString("16161")
	assert.NoError(t, err)
	safe := b.NonLosingMoves()
	possible := b.PossibleMoves()
	assert.Equal(t, safe, safe&possible)
}

// P7: the fingerprint is invariant under left-right mirroring.
func TestHuffmanMirrorInvariant(t *testing.T) {
	b, err := FromMoveString("22244444")
	assert.NoError(t, err)
	mirrored, err := FromMoveString("66644444")
	assert.NoError(t, err)
	assert.Equal(t, b.HuffmanFingerprint(), mirrored.HuffmanFingerprint())
}

func TestHuffmanSanityVector(t *testing.T) {
	b, err := FromMoveString("22244444")
	assert.NoError(t, err)
	assert.Equal(t, uint64(0b010111000111011101100000), b.HuffmanCode())
}

func TestKeyAndKeyOfEmptyBoard(t *testing.T) {
	b := New()
	assert.Equal(t, uint64(0), b.Key())
}

func TestPlayableBecomesFalseWhenColumnFull(t *testing.T) {
	b, err := FromMoveString("111111")
	assert.NoError(t, err)
	assert.Equal(t, 6, b.NumMoves)
	assert.False(t, b.Playable(0))
}

func TestMoveScoreNonNegative(t *testing.T) {
	b := New()
	for c := 0; c < W; c++ {
		if b.Playable(c) {
			assert.GreaterOrEqual(t, b.MoveScore(b.ColumnMove(c)), 0)
		}
	}
}
