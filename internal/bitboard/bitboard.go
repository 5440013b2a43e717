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

// Package bitboard holds the Connect Four position representation: two
// 64-bit masks plus a move counter, and the bitwise primitives the solver
// needs from it (playability, threats, wins, and the two canonical keys
// used by the transposition table and the opening book).
package bitboard

import (
	"math/bits"

	"github.com/frankkopp/connect4solver/internal/assert"
)

// Board dimensions. W*(H+1) must stay below 64 so a position fits in one
// 64-bit word; the array below fails to compile if that stops holding.
const (
	W = 7
	H = 6
)

const boardBits = W * (H + 1)

var _ [63 - boardBits]int // compile-time check: board must fit in 64 bits

var (
	bottomRowMask uint64
	fullBoardMask uint64
	bottomMasks   [W]uint64
	topMasks      [W]uint64
	columnMasks   [W]uint64
)

func init() {
	for c := 0; c < W; c++ {
		bottomMasks[c] = uint64(1) << uint(c*(H+1))
		topMasks[c] = uint64(1) << uint(c*(H+1)+H-1)
		columnMasks[c] = ((uint64(1) << H) - 1) << uint(c*(H+1))
		bottomRowMask |= bottomMasks[c]
	}
	fullBoardMask = bottomRowMask * ((uint64(1) << H) - 1)
}

// BitBoard is a Connect Four position. It is cheap to copy (two uint64s
// and an int) and is passed by value everywhere except where a move is
// being applied.
//
// PlayerMask holds the stones of the player to move; BoardMask holds
// every occupied cell. PlayerMask & ^BoardMask is always zero.
type BitBoard struct {
	PlayerMask uint64
	BoardMask  uint64
	NumMoves   int
}

// New returns the empty board with player 1 to move.
func New() BitBoard {
	return BitBoard{}
}

// Playable reports whether column has room for another stone.
func (b BitBoard) Playable(col int) bool {
	return topMasks[col]&b.BoardMask == 0
}

// ColumnMove returns the single-bit mask for the next stone dropped into
// column. The caller must have checked Playable(col) first; for a full
// column the result is zero, and playing it would advance NumMoves
// without placing a stone.
func (b BitBoard) ColumnMove(col int) uint64 {
	return (b.BoardMask + bottomMasks[col]) & columnMasks[col]
}

// Play advances the position by one ply, applying the given move bits
// (normally obtained from ColumnMove or the move sorter). After the call
// PlayerMask describes the new mover, i.e. the opponent of whoever just
// moved.
func (b *BitBoard) Play(moveBits uint64) {
	b.PlayerMask ^= b.BoardMask
	b.BoardMask |= moveBits
	b.NumMoves++
	if assert.DEBUG {
		assert.Assert(b.PlayerMask&^b.BoardMask == 0, "PlayerMask has a bit outside BoardMask: %064b", b.PlayerMask)
		assert.Assert(bits.OnesCount64(b.BoardMask) == b.NumMoves, "BoardMask popcount %d does not match NumMoves %d", bits.OnesCount64(b.BoardMask), b.NumMoves)
	}
}

// PlayColumn is a convenience wrapper that computes and applies the move
// bits for col in one step.
func (b *BitBoard) PlayColumn(col int) {
	b.Play(b.ColumnMove(col))
}

// OpponentMask returns the stones belonging to the player not to move.
func (b BitBoard) OpponentMask() uint64 {
	return b.PlayerMask ^ b.BoardMask
}

// PossibleMoves returns a bitmap of the lowest empty cell of every column
// that still has room, regardless of whether playing there is safe.
func (b BitBoard) PossibleMoves() uint64 {
	return (b.BoardMask + bottomRowMask) & fullBoardMask
}

// CheckWinningMove reports whether dropping the mover's stone into col
// would complete a four-in-a-row.
func (b BitBoard) CheckWinningMove(col int) bool {
	return b.checkWinningBits(b.ColumnMove(col))
}

func (b BitBoard) checkWinningBits(moveBits uint64) bool {
	return hasFour(b.PlayerMask | moveBits)
}

// hasFour reports whether pos contains a run of four set bits in any of
// the board's four alignments, using the double-shift trick: a run of
// four starting s bits apart leaves a nonzero intersection after shifting
// twice by s.
func hasFour(pos uint64) bool {
	for _, s := range [4]uint{1, H, H + 1, H + 2} {
		m := pos & (pos >> s)
		if m&(m>>(2*s)) != 0 {
			return true
		}
	}
	return false
}

// WinningPositions returns the bitmap of empty cells that would complete
// a four-in-a-row for the player whose stones are mask. It covers both
// "end of run" (AAA_) and "hole in the middle" (A_AA, AA_A) alignments in
// all four directions, masked down to cells that are actually empty.
func (b BitBoard) WinningPositions(mask uint64) uint64 {
	// vertical
	r := (mask << 1) & (mask << 2) & (mask << 3)

	// horizontal
	p := (mask << (H + 1)) & (mask << (2 * (H + 1)))
	r |= p & (mask << (3 * (H + 1)))
	r |= p & (mask >> (H + 1))
	p = (mask >> (H + 1)) & (mask >> (2 * (H + 1)))
	r |= p & (mask << (H + 1))
	r |= p & (mask >> (3 * (H + 1)))

	// diagonal "/"
	p = (mask << H) & (mask << (2 * H))
	r |= p & (mask << (3 * H))
	r |= p & (mask >> H)
	p = (mask >> H) & (mask >> (2 * H))
	r |= p & (mask << H)
	r |= p & (mask >> (3 * H))

	// diagonal "\"
	p = (mask << (H + 2)) & (mask << (2 * (H + 2)))
	r |= p & (mask << (3 * (H + 2)))
	r |= p & (mask >> (H + 2))
	p = (mask >> (H + 2)) & (mask >> (2 * (H + 2)))
	r |= p & (mask << (H + 2))
	r |= p & (mask >> (3 * (H + 2)))

	return r & (fullBoardMask &^ b.BoardMask)
}

// NonLosingMoves narrows PossibleMoves to the moves that do not hand the
// opponent an immediate win on their next ply. A zero return means the
// position is already lost against best play.
func (b BitBoard) NonLosingMoves() uint64 {
	possible := b.PossibleMoves()
	threats := b.WinningPositions(b.OpponentMask())

	forced := possible & threats
	if forced != 0 {
		if forced&(forced-1) != 0 {
			// more than one forced block: can't stop both, already lost
			return 0
		}
		possible = forced
	}

	// never play directly beneath an opponent threat: that cell would
	// become playable for the opponent on the very next move.
	return possible &^ (threats >> 1)
}

// MoveScore is the move-ordering heuristic: the number of winning cells
// the mover would have after playing candidate. Larger is more promising.
func (b BitBoard) MoveScore(candidate uint64) int {
	return bits.OnesCount64(b.WinningPositions(b.PlayerMask | candidate))
}

// Key is the position key used by the transposition table. It is an
// injection from legal positions to uint64: adding board_mask's bottom
// bit of a column flips that column's guard-row sentinel exactly once.
func (b BitBoard) Key() uint64 {
	return b.PlayerMask + b.BoardMask
}

// HuffmanCode returns the canonicalisable Huffman-style fingerprint of
// the position, encoding columns left to right. Only meaningful up to
// ~13 stones; see HuffmanFingerprint for the mirror-canonical form used
// by the opening book.
func (b BitBoard) HuffmanCode() uint64 {
	return b.huffman(false)
}

// HuffmanCodeMirror is HuffmanCode with columns encoded right to left,
// i.e. the fingerprint of the left-right mirror of the position.
func (b BitBoard) HuffmanCodeMirror() uint64 {
	return b.huffman(true)
}

// HuffmanFingerprint is min(HuffmanCode(), HuffmanCodeMirror()), the
// canonical 32-bit key the opening book is indexed by.
func (b BitBoard) HuffmanFingerprint() uint32 {
	code := b.HuffmanCode()
	mirror := b.HuffmanCodeMirror()
	if mirror < code {
		code = mirror
	}
	return uint32(code)
}

func (b BitBoard) huffman(mirror bool) uint64 {
	// PlayerMask belongs to whoever is about to move, which alternates
	// with NumMoves; recover player 1's absolute stones before encoding.
	p1Mask := b.PlayerMask
	if b.NumMoves%2 != 0 {
		p1Mask = b.OpponentMask()
	}

	var code uint64
	for i := 0; i < W; i++ {
		c := i
		if mirror {
			c = W - 1 - i
		}
		for r := 0; r < H; r++ {
			bit := uint64(1) << uint(c*(H+1)+r)
			if b.BoardMask&bit == 0 {
				code <<= 1
				break
			}
			if p1Mask&bit != 0 {
				code = (code << 2) | 0b10
			} else {
				code = (code << 2) | 0b11
			}
		}
	}
	return code << 1
}

// FromMoveString builds a position from a string of 1-indexed column
// digits, one character per ply. It rejects any character that is not a
// digit in [1, W], any move into a full column, and any move that would
// complete a four-in-a-row (the book and the search both assume a
// constructed position is never itself already won).
func FromMoveString(moves string) (BitBoard, error) {
	var b BitBoard
	for i, ch := range moves {
		if ch < '0' || ch > '9' {
			return BitBoard{}, ErrInvalidCharacter{Character: ch, Index: i}
		}
		col := int(ch-'0') - 1
		if col < 0 || col >= W {
			return BitBoard{}, ErrInvalidColumn{Column: col, Index: i}
		}
		if !b.Playable(col) {
			return BitBoard{}, ErrColumnFull{Column: col, Index: i}
		}
		moveBits := b.ColumnMove(col)
		if b.checkWinningBits(moveBits) {
			return BitBoard{}, ErrAlreadyWon{Column: col, Index: i}
		}
		b.Play(moveBits)
	}
	return b, nil
}

// FromColumns builds a position from a slice of 0-indexed columns. It is
// the faster constructor the book generator uses once it is enumerating
// columns directly rather than parsing digit strings, with the same
// rejections as FromMoveString.
func FromColumns(cols []int) (BitBoard, error) {
	var b BitBoard
	for i, col := range cols {
		if col < 0 || col >= W {
			return BitBoard{}, ErrInvalidColumn{Column: col, Index: i}
		}
		if !b.Playable(col) {
			return BitBoard{}, ErrColumnFull{Column: col, Index: i}
		}
		moveBits := b.ColumnMove(col)
		if b.checkWinningBits(moveBits) {
			return BitBoard{}, ErrAlreadyWon{Column: col, Index: i}
		}
		b.Play(moveBits)
	}
	return b, nil
}
