package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/inarow/board"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for an N-in-a-row position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	p2ToMove uint64

	posTable [][2]uint64

	numSquares int
}

func (z *Zobrist) Initialize(numSquares int) {
	z.numSquares = numSquares
	z.posTable = make([][2]uint64, numSquares)
	for i := 0; i < numSquares; i++ {
		for j := 0; j < 2; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	z.p2ToMove = frand.Uint64n(bignum) + 1
}

func (z *Zobrist) NumSquares() int {
	return z.numSquares
}

func (z *Zobrist) Hash(b board.Board) uint64 {
	key := uint64(0)
	for p := 0; p < 2; p++ {
		tiles := b.Tiles[p]
		for sq := 0; tiles != 0; sq++ {
			if tiles&1 != 0 {
				key ^= z.posTable[sq][p]
			}
			tiles >>= 1
		}
	}
	if b.Turn == board.Player2 {
		key ^= z.p2ToMove
	}
	return key
}

// AddMove updates key for player placing a tile on move (1-indexed).
// Applying the same move twice undoes it.
func (z *Zobrist) AddMove(key uint64, move int, player int) uint64 {
	key ^= z.posTable[move-1][player]
	key ^= z.p2ToMove
	return key
}
