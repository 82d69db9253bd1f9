package alphabeta

import (
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/inarow/board"
	"github.com/domino14/inarow/search/minimax"
	"github.com/domino14/inarow/search/searchtest"
)

var ttt = board.MustLineTable(3)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestAgreesWithMinimax(t *testing.T) {
	is := is.New(t)
	mm := minimax.NewSolver()
	mm.SetTranspositionTableOptim(true)
	ab := NewSolver()

	for _, first := range []int{board.Player1, board.Player2} {
		for _, b := range searchtest.Reachable(ttt, first) {
			want, _ := mm.Solve(b)
			got, move := ab.Solve(b)
			is.Equal(got, want)
			is.NoErr(b.ValidateMove(move))

			// The chosen move has to achieve the score.
			child := b
			child.Make(move)
			childScore, _ := mm.Solve(child)
			is.Equal(-childScore, want)
		}
	}
}

func TestForcedMoveIsPlayed(t *testing.T) {
	is := is.New(t)
	s := NewSolver()
	// O threatens 7 on the left column; X must block.
	b := ttt.FromTiles([2]uint64{0b000000110, 0b000001001}, board.Player1)
	is.Equal(b.FindForced(), 7)
	_, move := s.Solve(b)
	is.Equal(move, 7)
}

func TestTerminalBoard(t *testing.T) {
	is := is.New(t)
	b := ttt.FromTiles([2]uint64{0b110001101, 0b001110010}, board.Player1)
	is.Equal(b.State(), board.Draw)
	score, move := NewSolver().Solve(b)
	is.Equal(score, 0)
	is.Equal(move, 0)
}

func TestParallelMatchesSequential(t *testing.T) {
	is := is.New(t)
	seq := NewSolver()
	par := NewSolver()
	par.SetThreads(4)
	is.Equal(par.Threads(), 4)

	for _, b := range searchtest.Reachable(ttt, board.Player1) {
		s1, m1 := seq.Solve(b)
		s2, m2 := par.Solve(b)
		is.Equal(s1, s2)
		is.Equal(m1, m2)
	}
}

func TestPrunesMoreThanMinimax(t *testing.T) {
	is := is.New(t)
	mm := minimax.NewSolver()
	ab := NewSolver()
	empty := ttt.NewBoard(board.Player1)
	mm.Solve(empty)
	ab.Solve(empty)
	is.True(ab.Nodes() < mm.Nodes())
}

func TestSelfPlayDraws(t *testing.T) {
	is := is.New(t)
	s := NewSolver()
	for _, first := range []int{board.Player1, board.Player2} {
		final := searchtest.PlayGame(ttt.NewBoard(first), s.BestMove, s.BestMove)
		is.Equal(final.State(), board.Draw)
	}
}

func TestLargerBoard(t *testing.T) {
	is := is.New(t)
	lt := board.MustLineTable(4)
	s := NewSolver()
	s.SetThreads(4)
	// X holds three of the top row, O has scattered tiles. X wins at 4.
	b := lt.FromTiles([2]uint64{0b0000000000000111, 0b0000000100110000}, board.Player1)
	score, move := s.Solve(b)
	is.Equal(score, 1)
	is.Equal(move, 4)
}

func BenchmarkSolveEmpty(b *testing.B) {
	s := NewSolver()
	for i := 0; i < b.N; i++ {
		s.Solve(ttt.NewBoard(board.Player1))
	}
}

func BenchmarkSolveEmptyParallel(b *testing.B) {
	s := NewSolver()
	s.SetThreads(4)
	for i := 0; i < b.N; i++ {
		s.Solve(ttt.NewBoard(board.Player1))
	}
}
