package board

import (
	"testing"

	"github.com/matryer/is"
)

func TestFindForced(t *testing.T) {
	is := is.New(t)
	type tc struct {
		tiles  [2]uint64
		forced int
	}
	cases := []tc{
		{[2]uint64{0b100010100, 0b101001}, 7},
		{[2]uint64{0b11000, 0b1}, 6},
		{[2]uint64{0b100000000, 0b101}, 2},
		{[2]uint64{0b1010001, 0b101110}, 9},
		{[2]uint64{0b10001, 0b1000000}, 9},
	}
	for _, c := range cases {
		// Both turns: one side wins on the square, the other blocks it.
		b := ttt.FromTiles(c.tiles, Player1)
		is.Equal(b.FindForced(), c.forced)
		b.Turn ^= 1
		is.Equal(b.FindForced(), c.forced)
	}
}

func TestFindForcedNone(t *testing.T) {
	is := is.New(t)
	is.Equal(ttt.NewBoard(Player1).FindForced(), 0)
	is.Equal(ttt.FromTiles([2]uint64{0b10000, 0b1}, Player1).FindForced(), 0)
}

func TestFindForcedWinBeatsEarlierBlock(t *testing.T) {
	is := is.New(t)
	// O threatens the top row at 3, X completes the bottom row at 9, which
	// comes later in table order.
	b := ttt.FromTiles([2]uint64{0b011000000, 0b000000011}, Player1)
	is.Equal(b.FindForced(), 9)
}
