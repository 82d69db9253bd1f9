// Package board implements the bitboard game state of N-in-a-row and the
// table of winning lines it is scored against.
package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

const (
	Player1 = 0
	Player2 = 1
)

var (
	ErrMoveOutOfRange = errors.New("move out of range")
	ErrSquareOccupied = errors.New("square is occupied")
)

type State int

const (
	Unfinished State = iota
	Player1Won
	Player2Won
	Draw
)

func (s State) String() string {
	switch s {
	case Player1Won:
		return "player 1 won"
	case Player2Won:
		return "player 2 won"
	case Draw:
		return "draw"
	}
	return "unfinished"
}

// A Board is the full game state: one tile mask per player and the player
// to move. Bit i of a mask is square i+1. Boards are small values; copy
// them freely, every search branch works on its own copy.
type Board struct {
	Tiles [2]uint64
	Turn  int

	lines *LineTable
}

// Intner is the slice of a random source a board needs.
type Intner interface {
	Intn(n int) int
}

func (b Board) LineTable() *LineTable {
	return b.lines
}

// Size is N.
func (b Board) Size() int {
	return b.lines.n
}

// Occupied is the mask of all taken squares.
func (b Board) Occupied() uint64 {
	return b.Tiles[Player1] | b.Tiles[Player2]
}

// Empty is the mask of all free squares.
func (b Board) Empty() uint64 {
	return b.lines.full &^ b.Occupied()
}

// NumTiles is the number of occupied squares.
func (b Board) NumTiles() int {
	return bits.OnesCount64(b.Occupied())
}

// ValidateMove reports whether move can be played. Use this for input
// that did not come from GenMoves.
func (b Board) ValidateMove(move int) error {
	if move < 1 || move > b.lines.NumSquares() {
		return fmt.Errorf("%w: %d (must be 1-%d)", ErrMoveOutOfRange, move, b.lines.NumSquares())
	}
	if b.Occupied()&(1<<(move-1)) != 0 {
		return fmt.Errorf("%w: %d", ErrSquareOccupied, move)
	}
	return nil
}

// Make plays move for the player on turn and passes the turn. An illegal
// move is a programming error and panics.
func (b *Board) Make(move int) {
	if err := b.ValidateMove(move); err != nil {
		panic(err)
	}
	b.Tiles[b.Turn] ^= 1 << (move - 1)
	b.Turn ^= 1
}

// Inverse swaps the players' tiles and the turn.
func (b Board) Inverse() Board {
	return Board{
		Tiles: [2]uint64{b.Tiles[Player2], b.Tiles[Player1]},
		Turn:  b.Turn ^ 1,
		lines: b.lines,
	}
}

// GenMoves returns the empty squares in ascending order. It panics on a
// full board; check State first.
func (b Board) GenMoves() []int {
	empty := b.Empty()
	if empty == 0 {
		panic("no moves on a full board")
	}
	moves := make([]int, 0, bits.OnesCount64(empty))
	for empty != 0 {
		moves = append(moves, bits.TrailingZeros64(empty)+1)
		empty &= empty - 1
	}
	return moves
}

// RandomMove picks a legal move uniformly at random.
func (b Board) RandomMove(rng Intner) int {
	moves := b.GenMoves()
	return moves[rng.Intn(len(moves))]
}

// State reports whether the game is over. A completed line takes
// precedence over a full board.
func (b Board) State() State {
	for _, line := range b.lines.lines {
		if b.Tiles[Player1]&line == line {
			return Player1Won
		} else if b.Tiles[Player2]&line == line {
			return Player2Won
		}
	}
	n1 := bits.OnesCount64(b.Tiles[Player1])
	n2 := bits.OnesCount64(b.Tiles[Player2])
	if n1+n2 > b.lines.NumSquares() {
		panic(fmt.Sprintf("too many tiles on board: %d", n1+n2))
	}
	if n1+n2 == b.lines.NumSquares() {
		return Draw
	}
	return Unfinished
}

// Score is the terminal value from the point of view of the player to
// move: 1 if they own a completed line, -1 if the opponent does, else 0.
func (b Board) Score() int {
	for _, line := range b.lines.lines {
		if b.Tiles[b.Turn]&line == line {
			return 1
		} else if b.Tiles[b.Turn^1]&line == line {
			return -1
		}
	}
	return 0
}

// FeatureVector encodes the board relative to the player to move as three
// one-hot blocks of N² entries: own tiles, opponent tiles, empty squares.
func (b Board) FeatureVector() []float64 {
	n2 := b.lines.NumSquares()
	data := make([]float64, 3*n2)
	for i := 0; i < n2; i++ {
		sq := uint64(1) << i
		switch {
		case b.Tiles[b.Turn]&sq != 0:
			data[i] = 1
		case b.Tiles[b.Turn^1]&sq != 0:
			data[n2+i] = 1
		default:
			data[2*n2+i] = 1
		}
	}
	return data
}

// ToDisplayText renders the board with X for player 1 and O for player 2.
// Empty squares show their move number.
func (b Board) ToDisplayText() string {
	var sb strings.Builder
	n := b.lines.n
	width := len(fmt.Sprint(n * n))
	sb.WriteString("\n")
	for i := 0; i < n*n; i++ {
		sq := uint64(1) << i
		var cell string
		switch {
		case b.Tiles[Player1]&sq != 0:
			cell = "X"
		case b.Tiles[Player2]&sq != 0:
			cell = "O"
		default:
			cell = fmt.Sprint(i + 1)
		}
		fmt.Fprintf(&sb, "%*s ", width, cell)
		if i%n == n-1 {
			sb.WriteString("\n")
		}
	}
	fmt.Fprintf(&sb, "%s to move\n", PlayerSymbol(b.Turn))
	return sb.String()
}

func (b Board) String() string {
	return fmt.Sprintf("<%b %b turn:%d>", b.Tiles[Player1], b.Tiles[Player2], b.Turn)
}

// PlayerSymbol is X for player 1 and O for player 2.
func PlayerSymbol(p int) string {
	if p == Player1 {
		return "X"
	}
	return "O"
}
