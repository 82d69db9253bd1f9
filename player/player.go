// Package player defines the interface every move chooser implements,
// and the two that need no search: a human at a terminal and a uniformly
// random mover.
package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"lukechampine.com/frand"

	"github.com/domino14/inarow/board"
	"github.com/domino14/inarow/rng"
)

// A Player picks a legal move on an unfinished board.
type Player interface {
	BestMove(b board.Board) int
}

// A Factory builds a fresh Player. Players keep per-search state, so
// concurrent games each need their own.
type Factory func() (Player, error)

var ErrNoInput = errors.New("no more input")

// Human reads moves from an input stream, prompting on an output stream.
// Invalid input is reported and asked for again. One Human may sit at
// several boards at once; it answers them one at a time.
type Human struct {
	mu  sync.Mutex
	in  *bufio.Scanner
	out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{in: bufio.NewScanner(in), out: out}
}

// BestMove implements Player. It panics with ErrNoInput if the input
// stream ends before a legal move is read; use ReadMove to handle that.
func (h *Human) BestMove(b board.Board) int {
	m, err := h.ReadMove(b)
	if err != nil {
		panic(err)
	}
	return m
}

// ReadMove prompts until the input holds a legal move on b.
func (h *Human) ReadMove(b board.Board) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for {
		fmt.Fprint(h.out, b.ToDisplayText())
		fmt.Fprintf(h.out, "Enter your move (%s): ", board.PlayerSymbol(b.Turn))
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return 0, err
			}
			return 0, ErrNoInput
		}
		text := strings.TrimSpace(h.in.Text())
		m, err := strconv.Atoi(text)
		if err != nil {
			fmt.Fprintf(h.out, "%q is not a number\n", text)
			continue
		}
		if err := b.ValidateMove(m); err != nil {
			fmt.Fprintf(h.out, "cannot play %d: %v\n", m, err)
			continue
		}
		return m, nil
	}
}

// Random plays uniformly among the legal moves.
type Random struct {
	rng *frand.RNG
}

// NewRandom returns a random player. A non-zero seed makes it repeatable.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rng.New(seed)}
}

func (r *Random) BestMove(b board.Board) int {
	return b.RandomMove(r.rng)
}
