package board

import (
	"errors"
	"math/bits"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

var ttt = MustLineTable(3)

func TestMakeAndGenMoves(t *testing.T) {
	is := is.New(t)
	b := ttt.NewBoard(Player1)
	is.Equal(b.GenMoves(), []int{1, 2, 3, 4, 5, 6, 7, 8, 9})

	b.Make(5)
	is.Equal(b.Tiles, [2]uint64{0b10000, 0})
	is.Equal(b.Turn, Player2)

	b.Make(1)
	is.Equal(b.Tiles, [2]uint64{0b10000, 0b1})
	is.Equal(b.Turn, Player1)
	is.Equal(b.GenMoves(), []int{2, 3, 4, 6, 7, 8, 9})
	is.Equal(b.NumTiles(), 2)
}

func TestCopiesAreIndependent(t *testing.T) {
	is := is.New(t)
	b := ttt.NewBoard(Player1)
	c := b
	c.Make(3)
	is.Equal(b.NumTiles(), 0)
	is.Equal(c.NumTiles(), 1)
}

func TestValidateMove(t *testing.T) {
	b := ttt.NewBoard(Player1)
	b.Make(2)

	assert.True(t, errors.Is(b.ValidateMove(0), ErrMoveOutOfRange))
	assert.True(t, errors.Is(b.ValidateMove(10), ErrMoveOutOfRange))
	assert.True(t, errors.Is(b.ValidateMove(2), ErrSquareOccupied))
	assert.NoError(t, b.ValidateMove(9))
}

func TestIllegalMovesPanic(t *testing.T) {
	b := ttt.NewBoard(Player1)
	b.Make(4)
	assert.Panics(t, func() { b.Make(4) })
	assert.Panics(t, func() { b.Make(0) })
	assert.Panics(t, func() { b.Make(10) })

	full := ttt.FromTiles([2]uint64{0b011100101, 0b100011010}, Player1)
	assert.Panics(t, func() { full.GenMoves() })
}

func TestFromTilesPanicsOnOverlap(t *testing.T) {
	assert.Panics(t, func() { ttt.FromTiles([2]uint64{0b11, 0b10}, Player1) })
	assert.Panics(t, func() { ttt.FromTiles([2]uint64{1 << 9, 0}, Player1) })
}

func TestState(t *testing.T) {
	is := is.New(t)
	type tc struct {
		tiles [2]uint64
		state State
	}
	cases := []tc{
		{[2]uint64{0, 0}, Unfinished},
		{[2]uint64{0b111, 0b011000}, Player1Won},
		{[2]uint64{0b011000, 0b100100100}, Player2Won},
		{[2]uint64{0b100010001, 0b000101010}, Player1Won},
		// X O X / X O O / O X X
		{[2]uint64{0b110001101, 0b001110010}, Draw},
		// Last move fills the board and wins: a win, not a draw.
		{[2]uint64{0b110010101, 0b001101010}, Player1Won},
	}
	for _, c := range cases {
		b := ttt.FromTiles(c.tiles, Player1)
		is.Equal(b.State(), c.state)
	}
}

func TestScore(t *testing.T) {
	is := is.New(t)
	// player 1 has the top row.
	b := ttt.FromTiles([2]uint64{0b111, 0b011000}, Player1)
	is.Equal(b.Score(), 1)
	b.Turn = Player2
	is.Equal(b.Score(), -1)

	draw := ttt.FromTiles([2]uint64{0b110001101, 0b001110010}, Player2)
	is.Equal(draw.Score(), 0)
	is.Equal(draw.State(), Draw)

	open := ttt.NewBoard(Player1)
	is.Equal(open.Score(), 0)
}

func TestInverse(t *testing.T) {
	is := is.New(t)
	b := ttt.FromTiles([2]uint64{0b101, 0b10000}, Player2)
	inv := b.Inverse()
	is.Equal(inv.Tiles, [2]uint64{0b10000, 0b101})
	is.Equal(inv.Turn, Player1)
	is.Equal(inv.Inverse(), b)
}

func TestFeatureVector(t *testing.T) {
	is := is.New(t)
	b := ttt.FromTiles([2]uint64{0b1, 0b10}, Player2)
	fv := b.FeatureVector()
	is.Equal(len(fv), 27)
	// square 2 belongs to the player to move, square 1 to the opponent.
	is.Equal(fv[1], 1.0)
	is.Equal(fv[9+0], 1.0)
	for i := 2; i < 9; i++ {
		is.Equal(fv[18+i], 1.0)
	}
	sum := 0.0
	for _, v := range fv {
		sum += v
	}
	is.Equal(sum, 9.0)
}

type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

func TestRandomMove(t *testing.T) {
	is := is.New(t)
	b := ttt.FromTiles([2]uint64{0b1, 0b10}, Player1)
	is.Equal(b.RandomMove(fixedRand(0)), 3)
	is.Equal(b.RandomMove(fixedRand(6)), 9)
}

func TestRandomPlayoutInvariants(t *testing.T) {
	is := is.New(t)
	for n := MinSize; n <= MaxSize; n++ {
		lt := MustLineTable(n)
		for i := 0; i < 20; i++ {
			b := lt.NewBoard(i & 1)
			step := 0
			for b.State() == Unfinished {
				b.Make(b.RandomMove(fixedRand(i + step*7)))
				step++
				is.Equal(b.Tiles[0]&b.Tiles[1], uint64(0))
				is.True(bits.OnesCount64(b.Tiles[0])+bits.OnesCount64(b.Tiles[1]) <= n*n)
			}
		}
	}
}

func TestToDisplayText(t *testing.T) {
	b := ttt.FromTiles([2]uint64{0b10000, 0b1}, Player1)
	txt := b.ToDisplayText()
	assert.True(t, strings.Contains(txt, "O 2 3"))
	assert.True(t, strings.Contains(txt, "4 X 6"))
	assert.True(t, strings.Contains(txt, "X to move"))
}
