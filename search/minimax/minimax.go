// Package minimax solves N-in-a-row positions by plain negamax over the
// whole game tree. It is slow, and exists as the reference every faster
// solver is checked against.
package minimax

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/inarow/board"
	"github.com/domino14/inarow/zobrist"
)

type solution struct {
	score int
	move  int
}

// Solver implements exhaustive negamax search.
type Solver struct {
	zobrist *zobrist.Zobrist
	ttable  map[uint64]solution

	transpositionTableOptim bool

	nodes uint64
}

func NewSolver() *Solver {
	return &Solver{}
}

// SetTranspositionTableOptim caches the exact value of every position
// solved. Results are identical with or without it.
func (s *Solver) SetTranspositionTableOptim(on bool) {
	s.transpositionTableOptim = on
}

// Nodes returns the number of positions visited by the last Solve.
func (s *Solver) Nodes() uint64 {
	return s.nodes
}

func (s *Solver) resetTable(numSquares int) {
	if s.zobrist == nil || s.zobrist.NumSquares() != numSquares {
		s.zobrist = &zobrist.Zobrist{}
		s.zobrist.Initialize(numSquares)
		s.ttable = make(map[uint64]solution)
	}
}

// Solve returns the game-theoretic value of b for the player to move
// (1 win, 0 draw, -1 loss) and the lowest-numbered move achieving it.
// The move is 0 if b is already over.
func (s *Solver) Solve(b board.Board) (int, int) {
	ts := time.Now()
	s.nodes = 0
	var key uint64
	if s.transpositionTableOptim {
		s.resetTable(b.LineTable().NumSquares())
		key = s.zobrist.Hash(b)
	}
	score, move := s.search(b, key)

	log.Debug().
		Uint64("nodes", s.nodes).
		Int("score", score).
		Int("move", move).
		Dur("elapsed", time.Since(ts)).
		Msg("minimax-solved")
	return score, move
}

// BestMove implements player.Player.
func (s *Solver) BestMove(b board.Board) int {
	_, move := s.Solve(b)
	return move
}

func (s *Solver) search(b board.Board, key uint64) (int, int) {
	s.nodes++
	if b.State() != board.Unfinished {
		return b.Score(), 0
	}
	if s.transpositionTableOptim {
		if sol, ok := s.ttable[key]; ok {
			return sol.score, sol.move
		}
	}

	maxScore := -2
	bestMove := 0

	for _, m := range b.GenMoves() {
		child := b
		child.Make(m)
		var childKey uint64
		if s.transpositionTableOptim {
			childKey = s.zobrist.AddMove(key, m, b.Turn)
		}
		score, _ := s.search(child, childKey)
		score = -score

		if score > maxScore {
			maxScore = score
			bestMove = m
		}
	}

	if bestMove < 1 || bestMove > b.LineTable().NumSquares() || maxScore < -1 || maxScore > 1 {
		panic(fmt.Sprintf("minimax postcondition failed on %v: score %d move %d", b, maxScore, bestMove))
	}
	if s.transpositionTableOptim {
		s.ttable[key] = solution{score: maxScore, move: bestMove}
	}
	return maxScore, bestMove
}
