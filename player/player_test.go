package player

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/inarow/board"
)

var ttt = board.MustLineTable(3)

func TestHumanReprompts(t *testing.T) {
	is := is.New(t)
	b := ttt.NewBoard(board.Player1)
	b.Make(5)

	var out bytes.Buffer
	h := NewHuman(strings.NewReader("abc\n0\n5\n10\n 7 \n"), &out)
	is.Equal(h.BestMove(b), 7)

	text := out.String()
	is.True(strings.Contains(text, `"abc" is not a number`))
	is.True(strings.Contains(text, "cannot play 0: move out of range"))
	is.True(strings.Contains(text, "cannot play 5: square is occupied"))
	is.True(strings.Contains(text, "cannot play 10"))
	is.Equal(strings.Count(text, "Enter your move (O)"), 5)
}

func TestHumanRunsOutOfInput(t *testing.T) {
	is := is.New(t)
	h := NewHuman(strings.NewReader("x\n"), &bytes.Buffer{})
	_, err := h.ReadMove(ttt.NewBoard(board.Player1))
	is.Equal(err, ErrNoInput)
}

func TestRandomIsLegal(t *testing.T) {
	is := is.New(t)
	r := NewRandom(0)
	for i := 0; i < 100; i++ {
		b := ttt.NewBoard(board.Player1)
		for b.State() == board.Unfinished {
			m := r.BestMove(b)
			is.NoErr(b.ValidateMove(m))
			b.Make(m)
		}
	}
}

func TestRandomSeeded(t *testing.T) {
	is := is.New(t)
	r1, r2 := NewRandom(99), NewRandom(99)
	b := ttt.NewBoard(board.Player2)
	for i := 0; i < 50; i++ {
		is.Equal(r1.BestMove(b), r2.BestMove(b))
	}
}

func TestHumanTakesTurns(t *testing.T) {
	is := is.New(t)
	h := NewHuman(strings.NewReader("1\n2\n3\n4\n"), &bytes.Buffer{})
	b := ttt.NewBoard(board.Player1)
	moves := make(chan int, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			moves <- h.BestMove(b)
		}()
	}
	wg.Wait()
	close(moves)
	seen := map[int]bool{}
	for m := range moves {
		seen[m] = true
	}
	is.Equal(len(seen), 4)
}
