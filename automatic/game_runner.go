// Package automatic plays engines against each other, many games at a
// time, and keeps score.
package automatic

import (
	"fmt"
	"strconv"
	"strings"

	"lukechampine.com/frand"

	"github.com/domino14/inarow/board"
	"github.com/domino14/inarow/player"
)

// GameRunner plays single games between two players.
type GameRunner struct {
	lines   *board.LineTable
	players [2]player.Player
	names   [2]string
	rng     *frand.RNG
	logchan chan string
}

// NewGameRunner returns a runner for games on boards of lt. Finished
// games are described on logchan as CSV lines if it is not nil.
func NewGameRunner(lt *board.LineTable, players [2]player.Player, names [2]string,
	rng *frand.RNG, logchan chan string) *GameRunner {
	return &GameRunner{lines: lt, players: players, names: names, rng: rng, logchan: logchan}
}

// GameResult is the outcome of one game.
type GameResult struct {
	First int
	State board.State
	Moves []int
}

// Player1Score is 1 for a player 1 win, 0.5 for a draw and 0 for a loss.
func (g GameResult) Player1Score() float64 {
	switch g.State {
	case board.Player1Won:
		return 1
	case board.Draw:
		return 0.5
	}
	return 0
}

// PlayGame plays one game from an empty board. Who moves first is
// picked at random.
func (r *GameRunner) PlayGame(gameID int) GameResult {
	b := r.lines.NewBoard(r.rng.Intn(2))
	res := GameResult{First: b.Turn}
	for b.State() == board.Unfinished {
		m := r.players[b.Turn].BestMove(b)
		b.Make(m)
		res.Moves = append(res.Moves, m)
	}
	res.State = b.State()

	if r.logchan != nil {
		moves := make([]string, len(res.Moves))
		for i, m := range res.Moves {
			moves[i] = strconv.Itoa(m)
		}
		r.logchan <- fmt.Sprintf("%d,%s,%s,%s,%s,%s\n", gameID, r.names[0], r.names[1],
			r.names[res.First], resultCode(res.State), strings.Join(moves, " "))
	}
	return res
}

func resultCode(s board.State) string {
	switch s {
	case board.Player1Won:
		return "1"
	case board.Player2Won:
		return "2"
	case board.Draw:
		return "D"
	}
	panic(fmt.Sprintf("game ended in state %v", s))
}
