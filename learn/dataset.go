package learn

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/inarow/board"
	"github.com/domino14/inarow/search/alphabeta"
)

// A Sample is one training position and the move alpha-beta plays there.
type Sample struct {
	Board board.Board
	Move  int
}

type positionKey struct {
	tiles [2]uint64
	turn  int
}

// Positions returns every unfinished position reachable from an empty
// board with player 1 to move, each followed by its inverse. No position
// appears twice. A limit above 0 stops the walk once that many positions
// are collected.
func Positions(lt *board.LineTable, limit int) []board.Board {
	seen := map[positionKey]bool{}
	var out []board.Board
	full := func() bool { return limit > 0 && len(out) >= limit }

	add := func(b board.Board) {
		k := positionKey{b.Tiles, b.Turn}
		if !seen[k] && !full() {
			seen[k] = true
			out = append(out, b)
		}
	}

	var walk func(b board.Board)
	walk = func(b board.Board) {
		if full() || seen[positionKey{b.Tiles, b.Turn}] {
			return
		}
		add(b)
		add(b.Inverse())
		for _, m := range b.GenMoves() {
			child := b
			child.Make(m)
			if child.State() == board.Unfinished {
				walk(child)
			}
		}
	}
	walk(lt.NewBoard(board.Player1))
	return out
}

// Label pairs each position with the alpha-beta move.
func Label(positions []board.Board, solver *alphabeta.Solver) []Sample {
	ts := time.Now()
	samples := make([]Sample, len(positions))
	for i, b := range positions {
		samples[i] = Sample{Board: b, Move: solver.BestMove(b)}
	}
	log.Info().Int("samples", len(samples)).Dur("elapsed", time.Since(ts)).Msg("labeled-dataset")
	return samples
}
