package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/inarow/board"
)

func TestHashAfterMakingPlay(t *testing.T) {
	is := is.New(t)
	lt := board.MustLineTable(3)
	z := &Zobrist{}
	z.Initialize(lt.NumSquares())

	b := lt.NewBoard(board.Player1)
	h := z.Hash(b)

	for _, m := range []int{5, 1, 9, 3} {
		p := b.Turn
		b.Make(m)
		h = z.AddMove(h, m, p)
		is.Equal(h, z.Hash(b))
	}
}

func TestPlayAndUnplay(t *testing.T) {
	is := is.New(t)
	lt := board.MustLineTable(4)
	z := &Zobrist{}
	z.Initialize(lt.NumSquares())
	is.Equal(z.NumSquares(), 16)

	b := lt.FromTiles([2]uint64{0b1001, 0b110}, board.Player1)
	h := z.Hash(b)
	h1 := z.AddMove(h, 7, board.Player1)
	is.True(h1 != h)
	h2 := z.AddMove(h1, 7, board.Player1)
	is.Equal(h, h2)
}

func TestTurnMatters(t *testing.T) {
	is := is.New(t)
	lt := board.MustLineTable(3)
	z := &Zobrist{}
	z.Initialize(lt.NumSquares())
	is.True(z.Hash(lt.NewBoard(board.Player1)) != z.Hash(lt.NewBoard(board.Player2)))
}
