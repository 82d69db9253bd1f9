// Package alphabeta solves N-in-a-row positions with negamax and
// alpha-beta pruning. Before searching a node it checks for a forced move
// (an immediate win, or a block of the opponent's immediate win) and, if
// there is one, searches only that move.
package alphabeta

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/inarow/board"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    childNodes := orderMoves(childNodes)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/

const (
	// Scores are always -1, 0 or 1, so ±2 is out of reach.
	MinScore = -2
	MaxScore = 2
)

// Solver implements the alpha-beta algorithm.
type Solver struct {
	threads int
	nodes   atomic.Uint64
}

func NewSolver() *Solver {
	return &Solver{threads: 1}
}

// SetThreads sets how many root moves are searched at once. With more
// than one thread every root move gets a full window, so the result is
// the same as a single-threaded search.
func (s *Solver) SetThreads(threads int) {
	if threads < 1 {
		threads = 1
	}
	s.threads = threads
}

func (s *Solver) Threads() int {
	return s.threads
}

// Nodes returns the number of positions visited by the last Solve.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// Solve returns the value of b for the player to move and the best move.
// The move is 0 if b is already over.
func (s *Solver) Solve(b board.Board) (int, int) {
	ts := time.Now()
	s.nodes.Store(0)

	var score, move int
	if s.threads > 1 && b.State() == board.Unfinished && b.FindForced() == 0 {
		score, move = s.parallelRoot(b)
	} else {
		score, move = s.search(b, MinScore, MaxScore)
	}

	log.Debug().
		Uint64("nodes", s.nodes.Load()).
		Int("threads", s.threads).
		Int("score", score).
		Int("move", move).
		Dur("elapsed", time.Since(ts)).
		Msg("alphabeta-solved")
	return score, move
}

// BestMove implements player.Player.
func (s *Solver) BestMove(b board.Board) int {
	_, move := s.Solve(b)
	return move
}

func (s *Solver) search(b board.Board, alpha, beta int) (int, int) {
	s.nodes.Add(1)
	if b.State() != board.Unfinished {
		// The game has ended so there is no best move.
		return b.Score(), 0
	}

	var moves []int
	// The forced move still has to be searched to learn its score.
	if forced := b.FindForced(); forced != 0 {
		moves = []int{forced}
	} else {
		moves = b.GenMoves()
	}

	maxScore := MinScore
	bestMove := 0

	for _, m := range moves {
		child := b
		child.Make(m)

		score, _ := s.search(child, -beta, -alpha)
		score = -score

		if score > maxScore {
			maxScore = score
			bestMove = m

			if maxScore >= beta {
				break
			}
			if maxScore > alpha {
				alpha = maxScore
			}
		}
	}

	verify(b, maxScore, bestMove)
	return maxScore, bestMove
}

func (s *Solver) parallelRoot(b board.Board) (int, int) {
	s.nodes.Add(1)
	moves := b.GenMoves()
	scores := make([]int, len(moves))

	g := errgroup.Group{}
	g.SetLimit(s.threads)
	for i, m := range moves {
		g.Go(func() error {
			child := b
			child.Make(m)
			score, _ := s.search(child, MinScore, MaxScore)
			scores[i] = -score
			return nil
		})
	}
	// search never returns an error; it panics on broken invariants.
	_ = g.Wait()

	maxScore := MinScore
	bestMove := 0
	for i, m := range moves {
		if scores[i] > maxScore {
			maxScore = scores[i]
			bestMove = m
		}
	}
	verify(b, maxScore, bestMove)
	return maxScore, bestMove
}

// panic if the result is not a legal move with a real score.
func verify(b board.Board, score, move int) {
	if move < 1 || move > b.LineTable().NumSquares() {
		panic(fmt.Sprintf("alphabeta returned illegal move %d for %v", move, b))
	}
	if score < -1 || score > 1 {
		panic(fmt.Sprintf("alphabeta returned score %d for %v", score, b))
	}
}
