package board

import (
	"errors"
	"fmt"
)

const (
	MinSize = 3
	// MaxSize is the largest board whose squares fit in a uint64.
	MaxSize = 8
)

var ErrBadSize = errors.New("board size out of range")

// A LineTable holds every straight winning line of an N×N board as a
// bitmask: N rows, then N columns, then the principal diagonal and the
// anti-diagonal. It is built once and never modified.
type LineTable struct {
	n     int
	full  uint64
	lines []uint64
}

// NewLineTable generates the winning lines for a board of size n.
func NewLineTable(n int) (*LineTable, error) {
	if n < MinSize || n > MaxSize {
		return nil, fmt.Errorf("%w: %d (must be %d-%d)", ErrBadSize, n, MinSize, MaxSize)
	}
	nlines := 2*n + 2
	lines := make([]uint64, nlines)

	row := uint64(1)<<n - 1

	var col, prinDiag, antiDiag uint64
	for i := 0; i < n; i++ {
		col <<= n
		col++

		prinDiag <<= n + 1
		prinDiag++

		antiDiag++
		antiDiag <<= n - 1
	}

	for i := 0; i < n; i++ {
		lines[i] = row << (i * n)
		lines[n+i] = col << i
	}
	lines[nlines-2] = prinDiag
	lines[nlines-1] = antiDiag

	return &LineTable{
		n:     n,
		full:  ^uint64(0) >> (64 - n*n),
		lines: lines,
	}, nil
}

// MustLineTable is like NewLineTable but panics on a bad size. Handy for
// package-level test fixtures.
func MustLineTable(n int) *LineTable {
	t, err := NewLineTable(n)
	if err != nil {
		panic(err)
	}
	return t
}

// Size is N.
func (t *LineTable) Size() int {
	return t.n
}

// NumSquares is N².
func (t *LineTable) NumSquares() int {
	return t.n * t.n
}

// Full is the mask with every square set.
func (t *LineTable) Full() uint64 {
	return t.full
}

// Lines returns the masks in table order. Callers must not modify the slice.
func (t *LineTable) Lines() []uint64 {
	return t.lines
}

// NewBoard returns an empty board with the given player to move.
func (t *LineTable) NewBoard(turn int) Board {
	return Board{lines: t, Turn: turn & 1}
}

// FromTiles builds a board from raw tile masks. It panics if the masks
// overlap or spill past the last square.
func (t *LineTable) FromTiles(tiles [2]uint64, turn int) Board {
	if tiles[0]&tiles[1] != 0 {
		panic(fmt.Sprintf("overlapping tiles: %b %b", tiles[0], tiles[1]))
	}
	if (tiles[0]|tiles[1])&^t.full != 0 {
		panic(fmt.Sprintf("tiles outside a %dx%d board", t.n, t.n))
	}
	return Board{lines: t, Tiles: tiles, Turn: turn & 1}
}
