// Package searchtest has position fixtures shared by the solver tests.
package searchtest

import "github.com/domino14/inarow/board"

// Reachable returns every unfinished position reachable from an empty
// board with the given player to start, each position once.
func Reachable(lt *board.LineTable, first int) []board.Board {
	seen := map[[2]uint64]bool{}
	var out []board.Board
	var walk func(b board.Board)
	walk = func(b board.Board) {
		if seen[b.Tiles] || b.State() != board.Unfinished {
			return
		}
		seen[b.Tiles] = true
		out = append(out, b)
		for _, m := range b.GenMoves() {
			child := b
			child.Make(m)
			walk(child)
		}
	}
	walk(lt.NewBoard(first))
	return out
}

// PlayGame plays p1 against p2 from b until the game ends and returns the
// final position. p1 moves for Player1 and p2 for Player2.
func PlayGame(b board.Board, p1, p2 func(board.Board) int) board.Board {
	for b.State() == board.Unfinished {
		if b.Turn == board.Player1 {
			b.Make(p1(b))
		} else {
			b.Make(p2(b))
		}
	}
	return b
}
